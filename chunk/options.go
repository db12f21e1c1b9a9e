package chunk

import (
	"runtime"

	"github.com/tera-toolbox/upkg/internal/options"
)

type decodeConfig struct {
	parallel bool
	workers  int
}

// DecodeOption configures Decode.
type DecodeOption = options.Option[*decodeConfig]

func defaultDecodeConfig() *decodeConfig {
	return &decodeConfig{
		parallel: true,
		workers:  runtime.GOMAXPROCS(0),
	}
}

// WithSequential decodes blocks one after another on the calling goroutine.
func WithSequential() DecodeOption {
	return options.NoError(func(c *decodeConfig) {
		c.parallel = false
	})
}

// WithWorkers bounds the number of blocks decoded at once. Values below 1 keep
// the default of GOMAXPROCS.
func WithWorkers(n int) DecodeOption {
	return options.NoError(func(c *decodeConfig) {
		if n > 0 {
			c.workers = n
		}
	})
}
