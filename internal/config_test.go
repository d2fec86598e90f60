package internal

import (
	"testing"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", t.TempDir())

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	req.NoError(err)
	req.Equal("INFO", config.LogLevel)
	req.Equal(64, config.BufferSize)
	req.Equal(2*time.Second, config.SinkTimeout)
	req.Equal(50070, config.Port)
	req.Equal(10*time.Second, config.MetricInterval)
	req.Equal(4, config.LowCapacity)
	req.Nil(config.LimitEvents)
	req.True(config.CensorNames)
	req.Equal("*", config.CharReplacement)
}

func TestConfig_Overrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", "/tmp/karaoke")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SESSION_ID", "room-42")
	t.Setenv("LIMIT_EVENTS", "10")
	t.Setenv("SINK_TIMEOUT", "150ms")
	t.Setenv("CENSOR_NAMES", "false")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	req.NoError(err)
	req.Equal("DEBUG", config.LogLevel)
	req.Equal("room-42", config.SessionID)
	req.NotNil(config.LimitEvents)
	req.Equal(10, *config.LimitEvents)
	req.Equal(150*time.Millisecond, config.SinkTimeout)
	req.False(config.CensorNames)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = CharacterRune("**")
	req.Error(err)
}
