package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"GO_ENV" env-default:"development"`
	Port     string `env:"PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	DBDriver    string `env:"DB_DRIVER" env-default:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL" env-default:"todos.db"`

	RedisURL     string        `env:"REDIS_URL"`
	ListCacheTTL time.Duration `env:"LIST_CACHE_TTL" env-default:"15m"`

	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"DATABASE" env-default:"todos"`
	MediaDir      string `env:"MEDIA_DIR" env-default:"media"`

	JWTSecret string `env:"JWT_SECRET" env-required:"true"`

	ThrottleEnabled   bool `env:"THROTTLE_ENABLED"`
	ThrottleBurst     int  `env:"THROTTLE_BURST" env-default:"60"`
	ThrottleSustained int  `env:"THROTTLE_SUSTAINED" env-default:"1000"`

	SMTPAddr     string `env:"SMTP_ADDR"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" env-default:"todos@example.com"`

	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
}

// LoadENV will load the .env file if the GO_ENV environment variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load reads the .env file when in development and then the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := LoadENV(); err != nil {
		return cfg, err
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}

	// throttling defaults on in production only, unless set explicitly
	if _, ok := os.LookupEnv("THROTTLE_ENABLED"); !ok {
		cfg.ThrottleEnabled = cfg.IsProduction()
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) MailEnabled() bool {
	return c.SMTPAddr != ""
}

func (c Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}
