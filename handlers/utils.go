package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jalexanderII/zero-todos/blob"
	"github.com/jalexanderII/zero-todos/models"
	"github.com/jalexanderII/zero-todos/notify"
	"github.com/jalexanderII/zero-todos/store"
)

// UserKey is the fiber Locals key the authentication middleware stores the caller under.
const UserKey = "user"

// TodoStore is the persistence the handlers need. *store.Store implements it.
type TodoStore interface {
	ListTodos(ctx context.Context, ownerID int64, filter models.TodoFilter) (*models.Page, error)
	GetTodo(ctx context.Context, ownerID, id int64, withAttachments bool) (*models.Todo, error)
	CreateTodo(ctx context.Context, todo *models.Todo, tags []models.Tag) error
	UpdateTodo(ctx context.Context, ownerID, id int64, mutate func(*models.Todo), tags []models.Tag, replaceTags bool) (*models.Todo, models.Status, error)
	UpdateStatus(ctx context.Context, ownerID, id int64, status models.Status) (*models.Todo, models.Status, error)
	DeleteTodo(ctx context.Context, ownerID, id int64) ([]models.Attachment, error)

	AddAttachment(ctx context.Context, ownerID int64, att *models.Attachment) error
	GetAttachment(ctx context.Context, ownerID, todoID, id int64) (*models.Attachment, error)

	ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error)
	GetTag(ctx context.Context, ownerID, id int64) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	UpdateTag(ctx context.Context, ownerID, id int64, mutate func(*models.Tag)) (*models.Tag, error)
	DeleteTag(ctx context.Context, ownerID, id int64) error
}

type Handler struct {
	Store  TodoStore
	Blobs  blob.Store
	Notify notify.Notifier
	Lists  *ListCache
	L      *logrus.Logger
	Now    func() time.Time
}

func NewHandler(s TodoStore, blobs blob.Store, n notify.Notifier, lists *ListCache, l *logrus.Logger) *Handler {
	if n == nil {
		n = notify.Discard{}
	}
	return &Handler{
		Store:  s,
		Blobs:  blobs,
		Notify: n,
		Lists:  lists,
		L:      l,
		Now:    time.Now,
	}
}

func FiberJsonResponse(c *fiber.Ctx, httpStatus int, status, message string, data any) error {
	return c.Status(httpStatus).JSON(fiber.Map{"status": status, "message": message, "data": data})
}

// CurrentUser is the authenticated caller set by the authentication middleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(UserKey).(*models.User)
	return u
}

// HandleError maps domain errors onto the error envelope.
func (h *Handler) HandleError(c *fiber.Ctx, err error) error {
	return HandleError(c, h.L, err)
}

func HandleError(c *fiber.Ctx, l *logrus.Logger, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "validation failed", verr.Fields)
	case errors.Is(err, store.ErrDuplicateTag):
		return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "validation failed",
			map[string][]string{"name": {"tag with this name already exists."}})
	case errors.Is(err, store.ErrInvalidPage):
		return FiberJsonResponse(c, fiber.StatusNotFound, "error", "invalid page", nil)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		return FiberJsonResponse(c, fiber.StatusNotFound, "error", "not found", nil)
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return FiberJsonResponse(c, ferr.Code, "error", ferr.Message, nil)
	}

	l.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Errorf("request failed: %s", err.Error())
	return FiberJsonResponse(c, fiber.StatusInternalServerError, "error", "internal error", nil)
}

// idParam reads a positive integer path parameter. Anything else cannot name
// a row, so it is reported as not found.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, store.ErrNotFound
	}
	return id, nil
}
