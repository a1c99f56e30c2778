package router

import (
	"github.com/go-redis/cache/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jalexanderII/zero-todos/auth"
	"github.com/jalexanderII/zero-todos/handlers"
)

// Deps is everything the routes are built from.
type Deps struct {
	Handler  *handlers.Handler
	Verifier auth.Verifier
	Users    UserStore
	// UserCache holds callers resolved from tokens.
	UserCache *cache.Cache
	Throttle  ThrottleConfig

	DB    handlers.Pinger
	Cache handlers.Pinger
	L     *logrus.Logger
}

func SetupRoutes(app *fiber.App, d Deps) {
	h := d.Handler

	health := handlers.HandleHealthCheck(d.DB, d.Cache, d.L)
	app.Get("/health", health)

	api := app.Group("/api")
	api.Get("/health", health)

	secured := []fiber.Handler{Authenticate(d.Verifier, d.Users, d.UserCache, d.L)}
	secured = append(secured, Throttle(d.Throttle)...)

	todos := api.Group("/todos", secured...)
	todos.Get("/", CacheTodoList(h.Lists), handlers.ListTodos(h))
	todos.Post("/", handlers.CreateTodo(h))
	todos.Get("/completed", handlers.CompletedTodos(h))
	todos.Get("/overdue", handlers.OverdueTodos(h))
	todos.Get("/:id", handlers.GetTodo(h))
	todos.Put("/:id", handlers.UpdateTodo(h))
	todos.Patch("/:id", handlers.PatchTodo(h))
	todos.Delete("/:id", handlers.DeleteTodo(h))
	todos.Patch("/:id/update_status", handlers.UpdateTodoStatus(h))
	todos.Post("/:id/upload_attachment", handlers.UploadAttachment(h))
	todos.Get("/:id/attachments/:attachmentId", handlers.DownloadAttachment(h))

	tags := api.Group("/tags", secured...)
	tags.Get("/", handlers.ListTags(h))
	tags.Post("/", handlers.CreateTag(h))
	tags.Get("/:id", handlers.GetTag(h))
	tags.Put("/:id", handlers.UpdateTag(h))
	tags.Patch("/:id", handlers.PatchTag(h))
	tags.Delete("/:id", handlers.DeleteTag(h))
}
