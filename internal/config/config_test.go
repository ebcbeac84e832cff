package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TEST_KEY_MISSING", "fallback"))

	t.Setenv("TEST_EMPTY", "")
	assert.Equal(t, "fallback", GetEnv("TEST_EMPTY", "fallback"))
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, GetIntEnv("TEST_INT", 7))

	t.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, 7, GetIntEnv("TEST_INT", 7))
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, GetDurationEnv("TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, GetDurationEnv("TEST_DUR_MISSING", time.Minute))
}

// IsProduction and the logger selection must agree on the same variable:
// setting APP_ENV=production flips both secure cookies and JSON logging.
func TestEnvDrivesProductionMode(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	assert.Equal(t, "production", Env())
	assert.True(t, IsProduction())

	t.Setenv("APP_ENV", "development")
	assert.False(t, IsProduction())
}
