package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farhandwi/dots/internal/application/service"
)

// ListAttachments handles GET /api/transactions/:dots/attachments
func (h *Handlers) ListAttachments(c *gin.Context) {
	dotsNumber, ok := h.dotsParam(c)
	if !ok {
		return
	}

	attachments, err := h.attachments.List(c.Request.Context(), currentUser(c), dotsNumber)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, attachments)
}

// multipartOverhead bounds the multipart framing allowed around an upload
const multipartOverhead = 1 << 20

// UploadAttachment handles multipart POST /api/transactions/:dots/attachments (field "file")
func (h *Handlers) UploadAttachment(c *gin.Context) {
	dotsNumber, ok := h.dotsParam(c)
	if !ok {
		return
	}

	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(c, fmt.Errorf("%w: request body exceeds %d bytes", service.ErrTooLarge, maxErr.Limit))
			return
		}
		h.badRequest(c, "multipart field \"file\" is required")
		return
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		h.fail(c, fmt.Errorf("%w: %d bytes exceeds %d", service.ErrTooLarge, header.Size, h.maxUpload))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	// one byte past the limit is enough for the service to reject it
	var reader io.Reader = file
	if h.maxUpload > 0 {
		reader = io.LimitReader(file, h.maxUpload+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		h.fail(c, fmt.Errorf("read upload: %w", err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	attachment, err := h.attachments.Upload(c.Request.Context(), currentUser(c), service.UploadInput{
		DotsNumber:  dotsNumber,
		FileName:    header.Filename,
		ContentType: contentType,
		Content:     content,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, attachment)
}

// DownloadAttachment handles GET /api/attachments/:id
func (h *Handlers) DownloadAttachment(c *gin.Context) {
	file, err := h.attachments.Download(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	contentType := file.Attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Attachment.FileName))
	c.Data(http.StatusOK, contentType, file.Content)
}

// DeleteAttachment handles DELETE /api/attachments/:id
func (h *Handlers) DeleteAttachment(c *gin.Context) {
	if err := h.attachments.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
