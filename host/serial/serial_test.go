package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaud, cfg.Baud)
	assert.Equal(t, 100, cfg.ReadTimeout)
}

func TestConfigValidate(t *testing.T) {
	assert.ErrorIs(t, DefaultConfig("").Validate(), ErrNoDevice)

	cfg := DefaultConfig("COM3")
	cfg.Baud = 0
	assert.ErrorContains(t, cfg.Validate(), "baud")

	cfg = DefaultConfig("COM3")
	cfg.ReadTimeout = -1
	assert.ErrorContains(t, cfg.Validate(), "timeout")
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)

	_, err = Open(DefaultConfig(""))
	assert.ErrorIs(t, err, ErrNoDevice)

	_, err = Open(DefaultConfig("/nonexistent/ttyACM9"))
	assert.ErrorContains(t, err, "/nonexistent/ttyACM9")
}
