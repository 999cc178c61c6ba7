package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/farhandwi/dots/internal/domain/entity"
)

func includeExpired(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("include_expired", "false"))
	return err == nil && v
}

// ListMaterials handles GET /api/materials
func (h *Handlers) ListMaterials(c *gin.Context) {
	materials, err := h.masterData.ListMaterials(c.Request.Context(), includeExpired(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, materials)
}

// GetMaterial handles GET /api/materials/:number
func (h *Handlers) GetMaterial(c *gin.Context) {
	material, err := h.masterData.GetMaterial(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, material)
}

// UpsertMaterial handles POST /api/materials and PUT /api/materials/:number
func (h *Handlers) UpsertMaterial(c *gin.Context) {
	var material entity.Material
	if err := c.ShouldBindJSON(&material); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if number := c.Param("number"); number != "" {
		material.MaterialNumber = number
	}

	view, err := h.masterData.UpsertMaterial(c.Request.Context(), currentUser(c), &material)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

// DeleteMaterial handles DELETE /api/materials/:number
func (h *Handlers) DeleteMaterial(c *gin.Context) {
	if err := h.masterData.DeleteMaterial(c.Request.Context(), currentUser(c), c.Param("number")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListGLAccounts handles GET /api/gl-accounts
func (h *Handlers) ListGLAccounts(c *gin.Context) {
	accounts, err := h.masterData.ListGLAccounts(c.Request.Context(), includeExpired(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, accounts)
}

// UpsertGLAccount handles POST /api/gl-accounts
func (h *Handlers) UpsertGLAccount(c *gin.Context) {
	var account entity.GLAccount
	if err := c.ShouldBindJSON(&account); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.masterData.UpsertGLAccount(c.Request.Context(), currentUser(c), &account)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

// DeleteGLAccount handles DELETE /api/gl-accounts/:account
func (h *Handlers) DeleteGLAccount(c *gin.Context) {
	if err := h.masterData.DeleteGLAccount(c.Request.Context(), currentUser(c), c.Param("account")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
