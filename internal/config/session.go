package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SessionConfig controls the browser cookie that pins the active organization.
type SessionConfig struct {
	CookieName   string `mapstructure:"cookieName"`
	CookieDomain string `mapstructure:"cookieDomain"`
	CookiePath   string `mapstructure:"cookiePath"`
	MaxAge       int    `mapstructure:"maxAge"`
	Secure       bool   `mapstructure:"secure"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName: "_hub_org",
		CookiePath: "/",
	}
}

// SessionConfigHolder serves the latest valid session.yml, reloading it on change.
type SessionConfigHolder struct {
	current atomic.Value // holds SessionConfig
}

// NewStaticSessionConfigHolder returns a holder that never reloads.
func NewStaticSessionConfigHolder(cfg SessionConfig) *SessionConfigHolder {
	holder := &SessionConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewSessionConfigHolder() (*SessionConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("session")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/hub-orgs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HUB_ORGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSessionConfig()
	v.SetDefault("session.cookieName", defaults.CookieName)
	v.SetDefault("session.cookiePath", defaults.CookiePath)
	v.SetDefault("session.maxAge", defaults.MaxAge)
	v.SetDefault("session.secure", defaults.Secure)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	var cfg SessionConfig
	if err := v.UnmarshalKey("session", &cfg); err != nil {
		return nil, err
	}
	if err := validateSessionConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticSessionConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SessionConfig
		if err := v.UnmarshalKey("session", &updated); err != nil {
			zap.L().Warn("session config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		if err := validateSessionConfig(updated); err != nil {
			zap.L().Warn("invalid session config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		zap.L().Info("session config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *SessionConfigHolder) Get() SessionConfig {
	return h.current.Load().(SessionConfig)
}

func validateSessionConfig(cfg SessionConfig) error {
	if strings.TrimSpace(cfg.CookieName) == "" {
		return errors.New("session.cookieName cannot be empty")
	}
	if !strings.HasPrefix(cfg.CookiePath, "/") {
		return errors.New("session.cookiePath must start with /")
	}
	if cfg.MaxAge < 0 {
		return errors.New("session.maxAge cannot be negative")
	}
	return nil
}
