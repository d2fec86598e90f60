package internal

import (
	"fmt"
	"time"
)

type Config struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	SessionID       string        `env:"SESSION_ID"`
	BufferSize      int           `env:"BUFFER_SIZE,default=64"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=10s"`
	LowCapacity     int           `env:"LOW_CAPACITY_THRESHOLD,default=4"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	LimitEvents     *int          `env:"LIMIT_EVENTS"`
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=50070"`
	DebugPort       int           `env:"DEBUG_PORT,default=0"`
	CensorNames     bool          `env:"CENSOR_NAMES,default=true"`
	CharReplacement string        `env:"CHARACTER_REPLACEMENT,default=*"`
	ColoredBoard    bool          `env:"COLORED_BOARD,default=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
