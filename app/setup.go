package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jalexanderII/zero-todos/app/clients"
	"github.com/jalexanderII/zero-todos/auth"
	"github.com/jalexanderII/zero-todos/blob"
	"github.com/jalexanderII/zero-todos/config"
	"github.com/jalexanderII/zero-todos/database"
	"github.com/jalexanderII/zero-todos/handlers"
	"github.com/jalexanderII/zero-todos/notify"
	"github.com/jalexanderII/zero-todos/router"
	"github.com/jalexanderII/zero-todos/store"
)

// NewLogger builds the process logger from config.
func NewLogger(cfg config.Config) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if cfg.IsProduction() {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Services are the long lived dependencies of a running server.
type Services struct {
	Store     *store.Store
	Blobs     blob.Store
	Cache     *cache.Cache
	Pinger    handlers.Pinger
	Notifier  *notify.Dispatcher
	closeFunc []func(ctx context.Context) error
}

func (s *Services) Close(ctx context.Context) {
	if s.Notifier != nil {
		s.Notifier.Close()
	}
	for i := len(s.closeFunc) - 1; i >= 0; i-- {
		_ = s.closeFunc[i](ctx)
	}
}

// StartServices opens the database, cache, blob store and notification channels.
func StartServices(cfg config.Config, l *logrus.Logger) (*Services, error) {
	s := &Services{}

	db, err := database.OpenSQL(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.Store = store.New(db)
	s.closeFunc = append(s.closeFunc, func(context.Context) error { return s.Store.Close() })

	rdb, rcache, err := database.StartRedis(cfg.RedisURL, cfg.ListCacheTTL)
	if err != nil {
		s.Close(context.Background())
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	s.Cache = rcache
	if rdb != nil {
		s.Pinger = database.RedisPinger{Client: rdb}
		s.closeFunc = append(s.closeFunc, func(context.Context) error { return rdb.Close() })
	}

	if cfg.MongoURI != "" {
		mdb, err := database.StartMongoDB(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			s.Close(context.Background())
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		s.closeFunc = append(s.closeFunc, database.CloseMongoDB)
		if s.Blobs, err = blob.NewGridFSStore(mdb); err != nil {
			s.Close(context.Background())
			return nil, err
		}
		l.Info("attachments stored in GridFS")
	} else {
		if s.Blobs, err = blob.NewDirStore(cfg.MediaDir); err != nil {
			s.Close(context.Background())
			return nil, err
		}
		l.Infof("attachments stored under %s", cfg.MediaDir)
	}

	var channels []notify.Channel
	if cfg.MailEnabled() {
		channels = append(channels, client.NewMailClient(l, cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom))
	}
	if cfg.SMSEnabled() {
		channels = append(channels, client.NewTwilioClient(l, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber))
	}
	s.Notifier = notify.NewDispatcher(l, channels...)

	return s, nil
}

// NewApp builds the fiber app with middleware and routes.
func NewApp(cfg config.Config, s *Services, l *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "zero-todos",
		ErrorHandler: errorHandler(l),
	})

	FiberMiddleware(app)

	lists := handlers.NewListCache(s.Cache, cfg.ListCacheTTL, cfg.RedisURL != "", l)
	h := handlers.NewHandler(s.Store, s.Blobs, s.Notifier, lists, l)

	router.SetupRoutes(app, router.Deps{
		Handler:   h,
		Verifier:  auth.NewJWTVerifier(cfg.JWTSecret),
		Users:     s.Store,
		UserCache: s.Cache,
		Throttle: router.ThrottleConfig{
			Enabled:   cfg.ThrottleEnabled,
			Burst:     cfg.ThrottleBurst,
			Sustained: cfg.ThrottleSustained,
		},
		DB:    s.Store,
		Cache: s.Pinger,
		L:     l,
	})
	return app
}

func errorHandler(l *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return handlers.HandleError(c, l, err)
	}
}

// SetupAndRunApp handle app and database start and graceful shutdown
func SetupAndRunApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	l := NewLogger(cfg)

	s, err := StartServices(cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Close(ctx)
	}()

	app := NewApp(cfg, s, l)

	StartServerWithGracefulShutdown(app, cfg.Addr(), l)

	return nil
}
