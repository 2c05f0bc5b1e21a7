package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/warp/acm-engine/monitor"
)

// Config is the process configuration.
type Config struct {
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	DB             string   `mapstructure:"db" validate:"required"`
	AdminPassword  string   `mapstructure:"admin_password"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	StaticDir      string   `mapstructure:"static_dir"`
	RequestLogging bool     `mapstructure:"request_logging"`
	LogLevel       string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	Monitor MonitorConfig `mapstructure:"monitor"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
}

// MonitorConfig controls the document change monitor.
type MonitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"min=1m"`
	GuideURL string        `mapstructure:"guide_url" validate:"required,url"`
	TableURL string        `mapstructure:"table_url" validate:"required,url"`
}

// SMTPConfig holds alert mail settings. Alerts go to the log when Host is
// empty.
type SMTPConfig struct {
	Host   string   `mapstructure:"host"`
	Port   int      `mapstructure:"port"`
	User   string   `mapstructure:"user"`
	Pass   string   `mapstructure:"pass"`
	From   string   `mapstructure:"from"`
	Notify []string `mapstructure:"notify" validate:"dive,email"`
}

// Documents returns the watched publications with configured URLs.
func (m MonitorConfig) Documents() []monitor.Document {
	docs := monitor.DefaultDocuments()
	for i := range docs {
		switch docs[i].Key {
		case "acm_guide":
			docs[i].URL = m.GuideURL
		case "acm_table":
			docs[i].URL = m.TableURL
		}
	}
	return docs
}

// Alerter builds the SMTP alerter, or nil when mail is not configured.
func (s SMTPConfig) Alerter() monitor.Alerter {
	a := &monitor.SMTPAlerter{
		Host:     s.Host,
		Port:     s.Port,
		Username: s.User,
		Password: s.Pass,
		From:     s.From,
		To:       s.Notify,
	}
	if !a.Configured() {
		return nil
	}
	return a
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db", "acm.db")
	v.SetDefault("admin_password", "admin123")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("static_dir", "./web/dist")
	v.SetDefault("request_logging", true)
	v.SetDefault("log_level", "info")

	docs := monitor.DefaultDocuments()
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", 7*24*time.Hour)
	v.SetDefault("monitor.guide_url", docs[0].URL)
	v.SetDefault("monitor.table_url", docs[1].URL)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.notify", []string{})
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"port":         "port",
	"db":           "db",
	"log-level":    "log_level",
	"cors-origins": "cors_origins",
	"no-monitor":   "monitor.disabled",
}

// LoadConfig reads .env, the config file, ACM_* environment variables and
// flags, in increasing precedence.
func LoadConfig(file string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("acmcalc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/acmcalc")
	}

	v.SetEnvPrefix("ACM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if v.GetBool("monitor.disabled") {
		c.Monitor.Enabled = false
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}
