package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ORY_BASE_URL", "http://ory.local/")
	t.Setenv("SVIX_TIMEOUT", "3")
	t.Setenv("ORY_TIMEOUT", "750ms")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	assert.Equal(t, "http://ory.local", cfg.Identity.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.Identity.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Webhooks.Timeout)
	assert.False(t, cfg.Redis.Enabled())
}

func TestGetenvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{value: "", def: true, want: true},
		{value: "yes", def: false, want: true},
		{value: "OFF", def: true, want: false},
		{value: "maybe", def: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("HUB_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, getenvBool("HUB_TEST_BOOL", tt.def))
		})
	}
}

func TestValidateSessionConfig(t *testing.T) {
	assert.NoError(t, validateSessionConfig(DefaultSessionConfig()))

	cfg := DefaultSessionConfig()
	cfg.CookieName = " "
	assert.Error(t, validateSessionConfig(cfg))

	cfg = DefaultSessionConfig()
	cfg.CookiePath = "projects"
	assert.Error(t, validateSessionConfig(cfg))

	cfg = DefaultSessionConfig()
	cfg.MaxAge = -1
	assert.Error(t, validateSessionConfig(cfg))
}

func TestStaticSessionConfigHolder(t *testing.T) {
	holder := NewStaticSessionConfigHolder(SessionConfig{CookieName: "org", CookiePath: "/"})
	assert.Equal(t, "org", holder.Get().CookieName)
}
