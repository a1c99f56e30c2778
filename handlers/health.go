package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jalexanderII/zero-todos/models"
)

const (
	statusUp   = "up"
	statusDown = "down"
)

// Pinger is anything the health probe can reach.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// @Summary Show the status of server.
// @Description report database and cache reachability. 503 when the database is down.
// @Tags health
// @Accept */*
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func HandleHealthCheck(db, cache Pinger, l *logrus.Logger) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		resp := models.HealthResponse{
			Status: statusUp,
			Components: map[string]string{
				"database": probe(ctx, db, "database", l),
				"cache":    probe(ctx, cache, "cache", l),
			},
		}

		code := fiber.StatusOK
		if resp.Components["database"] != statusUp {
			resp.Status = statusDown
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(resp)
	}
}

func probe(ctx context.Context, p Pinger, name string, l *logrus.Logger) string {
	if p == nil {
		return statusDown
	}
	if err := p.PingContext(ctx); err != nil {
		l.Warnf("health: %s unreachable: %s", name, err.Error())
		return statusDown
	}
	return statusUp
}
