package app

import (
	"os"
	"strings"
	"time"

	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/models"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigFile = "config.yml"

// Config is read from config.yml when present, with environment variables
// taking precedence.
type Config struct {
	Port string `yaml:"port" env:"PORT" env-default:"3001"`

	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"127.0.0.1"`
	DBPort     string `yaml:"db_port" env:"DB_PORT" env-default:"5432"`
	DBUser     string `yaml:"db_user" env:"DB_USER" env-default:"postgres"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-default:"locallibrary"`
	DBSSLMode  string `yaml:"db_sslmode" env:"DB_SSLMODE" env-default:"disable"`

	RedisAddr string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	RedisPwd  string `yaml:"redis_password" env:"REDIS_PASSWORD"`

	WebOrigin string   `yaml:"web_origin" env:"WEB_ORIGIN" env-default:"http://localhost:5173"`
	RPID      string   `yaml:"rp_id" env:"RP_ID" env-default:"localhost"`
	RPOrigins []string `yaml:"rp_origins" env:"RP_ORIGINS" env-separator:","`

	// SessionTTL bounds a passkey ceremony; AppSessionTTL a login.
	SessionTTL    time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"10m"`
	AppSessionTTL time.Duration `yaml:"app_session_ttl" env:"APP_SESSION_TTL" env-default:"24h"`

	AdminEmails    []string `yaml:"admin_emails" env:"ADMIN_EMAILS" env-separator:","`
	BootstrapEmail string   `yaml:"bootstrap_email" env:"BOOTSTRAP_EMAIL"`

	TimeZone string `yaml:"time_zone" env:"TZ" env-default:"UTC"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	SMTP SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
	AppName  string `yaml:"app_name" env:"APP_NAME" env-default:"Local Library"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, err
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.RPOrigins = trimAll(c.RPOrigins, false)
	if len(c.RPOrigins) == 0 {
		c.RPOrigins = []string{c.WebOrigin}
	}
	c.AdminEmails = trimAll(c.AdminEmails, true)
	c.BootstrapEmail = strings.ToLower(strings.TrimSpace(c.BootstrapEmail))
}

func trimAll(in []string, lower bool) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			if lower {
				t = strings.ToLower(t)
			}
			out = append(out, t)
		}
	}
	return out
}

func (c Config) DBOptions() db.Options {
	return db.Options{
		Host: c.DBHost, Port: c.DBPort, User: c.DBUser,
		Password: c.DBPassword, Name: c.DBName, SSLMode: c.DBSSLMode,
	}
}

// Location is the library's time zone; "today" for loans is computed in it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		logger.Log.Warnf("unknown time zone %q, using UTC", c.TimeZone)
		return time.UTC
	}
	return loc
}

func (c Config) SecureCookies() bool { return strings.HasPrefix(c.WebOrigin, "https://") }

// IsAdmin is true for flagged users and for anyone listed in ADMIN_EMAILS.
func (c Config) IsAdmin(u *models.User) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	name := strings.ToLower(u.Username)
	for _, admin := range c.AdminEmails {
		if name == admin {
			return true
		}
	}
	return false
}
