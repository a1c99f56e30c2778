package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jalexanderII/zero-todos/models"
)

// @Summary List tags.
// @Description tags used by the caller's todos, by name. Not paginated.
// @Tags tags
// @Produce json
// @Success 200 {object} []models.Tag
// @Router /api/tags [get]
func ListTags(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		tags, err := h.Store.ListTags(c.UserContext(), CurrentUser(c).ID)
		if err != nil {
			return h.HandleError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(tags)
	}
}

// @Summary Get a tag.
// @Tags tags
// @Param id path int true "Tag ID"
// @Produce json
// @Success 200 {object} models.Tag
// @Router /api/tags/{id} [get]
func GetTag(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}
		tag, err := h.Store.GetTag(c.UserContext(), CurrentUser(c).ID, id)
		if err != nil {
			return h.HandleError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(tag)
	}
}

// @Summary Create a tag.
// @Tags tags
// @Accept json
// @Param tag body models.TagPayload true "Tag to create"
// @Produce json
// @Success 201 {object} models.Tag
// @Router /api/tags [post]
func CreateTag(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		var p models.TagPayload
		if err := c.BodyParser(&p); err != nil {
			return h.HandleError(c, malformedBody(err))
		}
		if err := p.Validate(false); err != nil {
			return h.HandleError(c, err)
		}

		tag := p.ToTag()
		if err := h.Store.CreateTag(c.UserContext(), &tag); err != nil {
			return h.HandleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tag)
	}
}

// @Summary Replace a tag.
// @Tags tags
// @Accept json
// @Param id path int true "Tag ID"
// @Param tag body models.TagPayload true "Tag fields"
// @Produce json
// @Success 200 {object} models.Tag
// @Router /api/tags/{id} [put]
func UpdateTag(h *Handler) func(c *fiber.Ctx) error {
	return updateTag(h, false)
}

// @Summary Partially update a tag.
// @Tags tags
// @Accept json
// @Param id path int true "Tag ID"
// @Param tag body models.TagPayload true "Tag fields"
// @Produce json
// @Success 200 {object} models.Tag
// @Router /api/tags/{id} [patch]
func PatchTag(h *Handler) func(c *fiber.Ctx) error {
	return updateTag(h, true)
}

func updateTag(h *Handler, partial bool) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}

		var p models.TagPayload
		if err := c.BodyParser(&p); err != nil {
			return h.HandleError(c, malformedBody(err))
		}
		if err := p.Validate(partial); err != nil {
			return h.HandleError(c, err)
		}

		tag, err := h.Store.UpdateTag(c.UserContext(), user.ID, id, p.ApplyTo)
		if err != nil {
			return h.HandleError(c, err)
		}
		// cached listings embed tag names and colors
		h.Lists.Invalidate(c.UserContext(), user.ID)
		return c.Status(fiber.StatusOK).JSON(tag)
	}
}

// @Summary Delete a tag.
// @Tags tags
// @Param id path int true "Tag ID"
// @Success 204
// @Router /api/tags/{id} [delete]
func DeleteTag(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}
		if err := h.Store.DeleteTag(c.UserContext(), user.ID, id); err != nil {
			return h.HandleError(c, err)
		}
		h.Lists.Invalidate(c.UserContext(), user.ID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
