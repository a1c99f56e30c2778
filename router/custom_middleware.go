package router

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sirupsen/logrus"

	"github.com/jalexanderII/zero-todos/auth"
	"github.com/jalexanderII/zero-todos/handlers"
	"github.com/jalexanderII/zero-todos/models"
)

const userCacheTTL = 24 * time.Hour

// UserStore records identities seen in tokens.
type UserStore interface {
	EnsureUser(ctx context.Context, u *models.User) error
}

// Authenticate verifies the bearer token and loads the caller's local user,
// cached by subject. Requests without a valid token never reach the store.
func Authenticate(v auth.Verifier, users UserStore, rcache *cache.Cache, l *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		claimed, err := v.Verify(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			msg := "Invalid token."
			if errors.Is(err, auth.ErrMissingToken) {
				msg = "Authentication credentials were not provided."
			}
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return handlers.FiberJsonResponse(c, fiber.StatusUnauthorized, "error", msg, nil)
		}

		key := "user:" + claimed.Subject
		var user models.User

		err = rcache.Get(ctx, key, &user)
		if err != nil && err != cache.ErrCacheMiss {
			l.Warnf("failed get user from cache: %s", err.Error())
		}

		if err != nil || profileChanged(&user, claimed) {
			user = *claimed
			if err := users.EnsureUser(ctx, &user); err != nil {
				l.Errorf("failed to record user %s: %s", claimed.Subject, err.Error())
				return handlers.FiberJsonResponse(c, fiber.StatusInternalServerError, "error", "internal error", nil)
			}

			if err := rcache.Set(&cache.Item{
				Ctx:   ctx,
				Key:   key,
				Value: &user,
				TTL:   userCacheTTL,
			}); err != nil {
				l.Warnf("failed set user in cache: %s", err.Error())
			}
		}

		c.Locals(handlers.UserKey, &user)
		return c.Next()
	}
}

func profileChanged(cached, claimed *models.User) bool {
	return cached.ID == 0 ||
		cached.Username != claimed.Username ||
		cached.Email != claimed.Email ||
		cached.PhoneNumber != claimed.PhoneNumber
}

// CacheTodoList serves repeated listings of the same query from the list cache.
func CacheTodoList(lists *handlers.ListCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := handlers.CurrentUser(c)
		if lists == nil || user == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}
		ctx := c.UserContext()

		key, err := lists.Key(ctx, user.ID, string(c.Request().URI().QueryString()))
		if err != nil {
			lists.L.Warnf("list cache unavailable: %s", err.Error())
			return c.Next()
		}

		if body, ok := lists.Get(ctx, key); ok {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(fiber.StatusOK).Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() == fiber.StatusOK {
			body := append([]byte(nil), c.Response().Body()...)
			lists.Set(ctx, key, body)
		}
		return nil
	}
}

type ThrottleConfig struct {
	Enabled   bool
	Burst     int
	Sustained int
}

// Throttle returns the burst and sustained rate limiters keyed by caller, or
// nothing when throttling is disabled.
func Throttle(cfg ThrottleConfig) []fiber.Handler {
	if !cfg.Enabled {
		return nil
	}
	return []fiber.Handler{
		newLimiter("burst", cfg.Burst, time.Minute),
		newLimiter("sustained", cfg.Sustained, 24*time.Hour),
	}
}

func newLimiter(scope string, max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			if u := handlers.CurrentUser(c); u != nil {
				return scope + ":user:" + strconv.FormatInt(u.ID, 10)
			}
			return scope + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return handlers.FiberJsonResponse(c, fiber.StatusTooManyRequests, "error", "Request was throttled.", nil)
		},
	})
}
