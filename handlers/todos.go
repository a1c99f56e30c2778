package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jalexanderII/zero-todos/models"
)

// @Summary List todos.
// @Description list the caller's todos with filters, search, ordering and pagination.
// @Tags todos
// @Produce json
// @Param title query string false "Title contains"
// @Param priority query int false "Priority"
// @Param status query string false "Status"
// @Param tags query string false "Tag name"
// @Param search query string false "Search terms"
// @Param ordering query string false "Comma separated fields, - for descending"
// @Param page query int false "Page number"
// @Success 200 {object} models.PageResponse
// @Router /api/todos [get]
func ListTodos(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		f, err := ParseTodoFilter(c)
		if err != nil {
			return h.HandleError(c, err)
		}
		return h.renderPage(c, f)
	}
}

// @Summary List completed todos.
// @Tags todos
// @Produce json
// @Success 200 {object} models.PageResponse
// @Router /api/todos/completed [get]
func CompletedTodos(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		page, err := parsePage(c.Query("page"))
		if err != nil {
			return h.HandleError(c, err)
		}
		status := string(models.StatusCompleted)
		return h.renderPage(c, models.TodoFilter{Status: &status, Page: page})
	}
}

// @Summary List overdue todos.
// @Description todos past their due date that are still pending or in progress.
// @Tags todos
// @Produce json
// @Success 200 {object} models.PageResponse
// @Router /api/todos/overdue [get]
func OverdueTodos(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		page, err := parsePage(c.Query("page"))
		if err != nil {
			return h.HandleError(c, err)
		}
		now := h.Now().UTC()
		return h.renderPage(c, models.TodoFilter{
			DueDateLT: &now,
			StatusIn:  []models.Status{models.StatusPending, models.StatusInProgress},
			Page:      page,
		})
	}
}

func (h *Handler) renderPage(c *fiber.Ctx, f models.TodoFilter) error {
	user := CurrentUser(c)
	page, err := h.Store.ListTodos(c.UserContext(), user.ID, f)
	if err != nil {
		return h.HandleError(c, err)
	}

	now := h.Now()
	resp := models.PageResponse{
		Count:   page.Count,
		Results: make([]models.TodoResponse, 0, len(page.Results)),
	}
	for i := range page.Results {
		resp.Results = append(resp.Results, models.NewTodoResponse(&page.Results[i], now))
	}
	if page.HasNext() {
		resp.Next = pageURL(c, page.Number+1)
	}
	if page.HasPrevious() {
		resp.Previous = pageURL(c, page.Number-1)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// pageURL is the absolute URL of the current listing at another page. Page 1
// drops the parameter.
func pageURL(c *fiber.Ctx, page int) *string {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		q = url.Values{}
	}
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := c.BaseURL() + c.Path()
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return &u
}

// @Summary Get a todo.
// @Description fetch one of the caller's todos with its attachments.
// @Tags todos
// @Param id path int true "Todo ID"
// @Produce json
// @Success 200 {object} models.TodoDetailResponse
// @Router /api/todos/{id} [get]
func GetTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}
		todo, err := h.Store.GetTodo(c.UserContext(), CurrentUser(c).ID, id, true)
		if err != nil {
			return h.HandleError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(models.NewTodoDetailResponse(todo, h.Now(), attachmentURL(c)))
	}
}

// @Summary Create a todo.
// @Description create a todo owned by the caller; tags are resolved by name.
// @Tags todos
// @Accept json
// @Param todo body models.TodoPayload true "Todo to create"
// @Produce json
// @Success 201 {object} models.TodoResponse
// @Router /api/todos [post]
func CreateTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)

		var p models.TodoPayload
		if err := c.BodyParser(&p); err != nil {
			return h.HandleError(c, malformedBody(err))
		}
		if err := p.Validate(false); err != nil {
			return h.HandleError(c, err)
		}

		todo := p.NewTodo(user.ID)
		todo.Owner = *user
		tags, _ := p.TagList()
		if err := h.Store.CreateTodo(c.UserContext(), todo, tags); err != nil {
			return h.HandleError(c, err)
		}

		h.Lists.Invalidate(c.UserContext(), user.ID)
		h.Notify.Dispatch(models.NewNotification(models.NotificationCreated, todo))

		return c.Status(fiber.StatusCreated).JSON(models.NewTodoResponse(todo, h.Now()))
	}
}

// @Summary Replace a todo.
// @Tags todos
// @Accept json
// @Param id path int true "Todo ID"
// @Param todo body models.TodoPayload true "Todo fields"
// @Produce json
// @Success 200 {object} models.TodoResponse
// @Router /api/todos/{id} [put]
func UpdateTodo(h *Handler) func(c *fiber.Ctx) error {
	return updateTodo(h, false)
}

// @Summary Partially update a todo.
// @Tags todos
// @Accept json
// @Param id path int true "Todo ID"
// @Param todo body models.TodoPayload true "Todo fields"
// @Produce json
// @Success 200 {object} models.TodoResponse
// @Router /api/todos/{id} [patch]
func PatchTodo(h *Handler) func(c *fiber.Ctx) error {
	return updateTodo(h, true)
}

func updateTodo(h *Handler, partial bool) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}

		var p models.TodoPayload
		if err := c.BodyParser(&p); err != nil {
			return h.HandleError(c, malformedBody(err))
		}
		if err := p.Validate(partial); err != nil {
			return h.HandleError(c, err)
		}

		tags, replace := p.TagList()
		todo, before, err := h.Store.UpdateTodo(c.UserContext(), user.ID, id, p.ApplyTo, tags, replace)
		if err != nil {
			return h.HandleError(c, err)
		}
		h.afterUpdate(c, todo, before)

		return c.Status(fiber.StatusOK).JSON(models.NewTodoResponse(todo, h.Now()))
	}
}

// @Summary Update the status of a todo.
// @Tags todos
// @Accept json
// @Param id path int true "Todo ID"
// @Param status body models.StatusPayload true "New status"
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /api/todos/{id}/update_status [patch]
func UpdateTodoStatus(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}

		var p models.StatusPayload
		if err := c.BodyParser(&p); err != nil {
			return h.HandleError(c, malformedBody(err))
		}
		status, err := p.Validate()
		if err != nil {
			return h.HandleError(c, err)
		}

		todo, before, err := h.Store.UpdateStatus(c.UserContext(), user.ID, id, status)
		if err != nil {
			return h.HandleError(c, err)
		}
		h.afterUpdate(c, todo, before)

		return c.Status(fiber.StatusOK).JSON(models.StatusResponse{Status: todo.Status})
	}
}

func (h *Handler) afterUpdate(c *fiber.Ctx, todo *models.Todo, before models.Status) {
	h.Lists.Invalidate(c.UserContext(), todo.UserID)
	if models.BecameCompleted(before, todo.Status) {
		h.Notify.Dispatch(models.NewNotification(models.NotificationCompleted, todo))
	}
}

// @Summary Delete a todo.
// @Description delete one of the caller's todos together with its attachments.
// @Tags todos
// @Param id path int true "Todo ID"
// @Success 204
// @Router /api/todos/{id} [delete]
func DeleteTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := idParam(c, "id")
		if err != nil {
			return h.HandleError(c, err)
		}

		removed, err := h.Store.DeleteTodo(c.UserContext(), user.ID, id)
		if err != nil {
			return h.HandleError(c, err)
		}
		for _, a := range removed {
			if err := h.Blobs.Delete(c.UserContext(), a.File); err != nil {
				h.L.Warnf("failed removing blob %s of todo %d: %s", a.File, id, err.Error())
			}
		}
		h.Lists.Invalidate(c.UserContext(), user.ID)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func attachmentURL(c *fiber.Ctx) func(models.Attachment) string {
	base := c.BaseURL()
	return func(a models.Attachment) string {
		return fmt.Sprintf("%s/api/todos/%d/attachments/%d", base, a.TodoID, a.ID)
	}
}

func malformedBody(err error) error {
	return models.NewValidationError("non_field_errors", "Malformed request body: "+err.Error())
}
