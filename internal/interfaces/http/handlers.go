package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/application/service"
	"github.com/farhandwi/dots/internal/domain/access"
	"github.com/farhandwi/dots/internal/domain/workflow"
	"github.com/farhandwi/dots/pkg/utils"
)

// Handlers contains HTTP handlers for the API
type Handlers struct {
	transactions service.TransactionService
	dashboard    service.DashboardService
	masterData   service.MasterDataService
	attachments  service.AttachmentService
	health       port.HealthReporter
	exportPrefix string
	maxUpload    int64
	logger       Logger
	now          func() time.Time
}

// NewHandlers creates new HTTP handlers
func NewHandlers(services Services, exportPrefix string, maxUpload int64, logger Logger) *Handlers {
	return &Handlers{
		transactions: services.Transactions,
		dashboard:    services.Dashboard,
		masterData:   services.MasterData,
		attachments:  services.Attachments,
		health:       services.Health,
		exportPrefix: exportPrefix,
		maxUpload:    maxUpload,
		logger:       logger,
		now:          time.Now,
	}
}

// Response is the standard API response envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	data := gin.H{
		"status":  "healthy",
		"service": "dots",
		"time":    h.now().Format(time.RFC3339),
	}
	if h.health == nil {
		c.JSON(http.StatusOK, Response{Success: true, Data: data})
		return
	}

	report := h.health.Health(c.Request.Context())
	data["components"] = report.Components
	if !report.Healthy {
		data["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: data, Error: "service unhealthy"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// meResponse describes how DOTS sees the calling user
type meResponse struct {
	Email            string   `json:"email"`
	Partner          string   `json:"partner"`
	HasDotsAccess    bool     `json:"has_dots_access"`
	IsAdmin          bool     `json:"is_admin"`
	HasA0001         string   `json:"has_a0001"`
	SpecialRoleTypes []string `json:"special_role_types"`
	StatusGroups     []string `json:"status_groups"`
	IsSpecialInputer bool     `json:"is_special_inputter"`
}

// Me handles GET /api/me
func (h *Handlers) Me(c *gin.Context) {
	user := currentUser(c)
	roles, known := access.DotsRoles(user)
	special := access.SpecialRoleTypes(roles)

	h.ok(c, http.StatusOK, meResponse{
		Email:            user.Email,
		Partner:          user.Partner,
		HasDotsAccess:    known,
		IsAdmin:          access.HasDotsAdminRole(user),
		HasA0001:         access.HasUserTypeA0001(roles, known).String(),
		SpecialRoleTypes: special,
		StatusGroups:     access.StatusGroupFromRoles(special),
		IsSpecialInputer: access.CheckIS001WithNullCostCenter(user, c.Query("cost_center")),
	})
}

func (h *Handlers) ok(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{Success: true, Data: data})
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// dotsParam returns the :dots path parameter, answering 400 when it is malformed
func (h *Handlers) dotsParam(c *gin.Context) (string, bool) {
	dotsNumber := c.Param("dots")
	if err := utils.ValidateDotsNumber(dotsNumber); err != nil {
		h.badRequest(c, err.Error())
		return "", false
	}
	return dotsNumber, true
}

// fail maps service errors onto HTTP status codes
func (h *Handlers) fail(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		msg = "internal server error"
	}
	c.JSON(code, Response{Success: false, Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrIncompleteForm):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, port.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, workflow.ErrGuardFailed),
		errors.Is(err, workflow.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
