package handlers

import (
	"fmt"
	"mime"

	"github.com/gofiber/fiber/v2"

	"github.com/jalexanderII/zero-todos/models"
)

// @Summary Upload an attachment.
// @Description attach a file to one of the caller's todos.
// @Tags todos
// @Accept multipart/form-data
// @Param id path int true "Todo ID"
// @Param file formData file true "File"
// @Produce json
// @Success 201 {object} models.AttachmentResponse
// @Router /api/todos/{id}/upload_attachment [post]
func UploadAttachment(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		ctx := c.UserContext()
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}

		if _, err := h.Store.GetTodo(ctx, user.ID, id, false); err != nil {
			return h.HandleError(c, err)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return h.HandleError(c, models.NewValidationError("file", "No file was submitted."))
		}
		f, err := fh.Open()
		if err != nil {
			return h.HandleError(c, fmt.Errorf("opening upload: %w", err))
		}
		defer f.Close()

		ref, err := h.Blobs.Save(ctx, fh.Filename, f)
		if err != nil {
			return h.HandleError(c, err)
		}

		att := &models.Attachment{
			TodoID:      id,
			File:        ref,
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		}
		if err := h.Store.AddAttachment(ctx, user.ID, att); err != nil {
			if derr := h.Blobs.Delete(ctx, ref); derr != nil {
				h.L.Warnf("failed removing orphaned blob %s: %s", ref, derr.Error())
			}
			return h.HandleError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(models.NewAttachmentResponse(*att, attachmentURL(c)))
	}
}

// @Summary Download an attachment.
// @Tags todos
// @Param id path int true "Todo ID"
// @Param attachmentId path int true "Attachment ID"
// @Produce octet-stream
// @Success 200
// @Router /api/todos/{id}/attachments/{attachmentId} [get]
func DownloadAttachment(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		todoID, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}
		attID, err := idParam(c, "attachmentId")
		if err != nil {
			return h.HandleError(c, err)
		}

		att, err := h.Store.GetAttachment(c.UserContext(), CurrentUser(c).ID, todoID, attID)
		if err != nil {
			return h.HandleError(c, err)
		}
		rc, err := h.Blobs.Open(c.UserContext(), att.File)
		if err != nil {
			return h.HandleError(c, err)
		}

		contentType := att.ContentType
		if contentType == "" {
			contentType = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": att.Name}))
		return c.Status(fiber.StatusOK).SendStream(rc, int(att.Size))
	}
}
