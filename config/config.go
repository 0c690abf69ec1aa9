package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	MongoURI      string        `mapstructure:"MONGODB_URI"`
	MongoDatabase string        `mapstructure:"MONGODB_DATABASE"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	TokenTTL      time.Duration `mapstructure:"TOKEN_TTL"`
	AdminTokenTTL time.Duration `mapstructure:"ADMIN_TOKEN_TTL"`
	AdminEmail    string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string        `mapstructure:"ADMIN_PASSWORD"`

	OTPTTL                 time.Duration `mapstructure:"OTP_TTL"`
	ChatDuration           time.Duration `mapstructure:"CHAT_DURATION"`
	DoctorReplyAfterExpiry bool          `mapstructure:"DOCTOR_REPLY_AFTER_EXPIRY"`
	ExpiryJobSpec          string        `mapstructure:"EXPIRY_JOB_SPEC"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	EmailUser    string `mapstructure:"EMAIL_USER"`
	EmailPass    string `mapstructure:"EMAIL_PASS"`
	ContactInbox string `mapstructure:"CONTACT_INBOX"`

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"MONGODB_URI", "MONGODB_DATABASE", "REDIS_ADDR", "CACHE_TTL",
	"JWT_SECRET", "TOKEN_TTL", "ADMIN_TOKEN_TTL", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	"OTP_TTL", "CHAT_DURATION", "DOCTOR_REPLY_AFTER_EXPIRY", "EXPIRY_JOB_SPEC",
	"CORS_ORIGINS",
	"SMTP_HOST", "SMTP_PORT", "EMAIL_USER", "EMAIL_PASS", "CONTACT_INBOX",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET",
}

/*
* Load .env into the process environment if present
* Bind every key with viper and apply defaults
* Unmarshal into Config
 */
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "4000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGODB_DATABASE", "healthlife")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("ADMIN_TOKEN_TTL", "24h")
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("CHAT_DURATION", "24h")
	v.SetDefault("DOCTOR_REPLY_AFTER_EXPIRY", true)
	v.SetDefault("EXPIRY_JOB_SPEC", "@every 1m")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SMTP_PORT", 587)

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.ContactInbox == "" {
		cfg.ContactInbox = cfg.EmailUser
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is required")
	}
	if c.AdminEmail == "" || c.AdminPassword == "" {
		log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, admin login is disabled")
	}
	if c.ContactInbox == "" {
		log.Warn().Msg("CONTACT_INBOX and EMAIL_USER not set, contact form is disabled")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
