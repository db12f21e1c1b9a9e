package summary

import (
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/internal/options"
)

type readConfig struct {
	versions []uint16
}

// ReadOption configures Read.
type ReadOption = options.Option[*readConfig]

func defaultReadConfig() *readConfig {
	return &readConfig{versions: append([]uint16(nil), format.SupportedVersions...)}
}

// WithLegacyVersions additionally accepts the development engine version.
func WithLegacyVersions() ReadOption {
	return options.NoError(func(c *readConfig) {
		c.versions = append(c.versions, format.VerUDK)
	})
}

// WithAcceptedVersions replaces the accepted file versions.
func WithAcceptedVersions(versions ...uint16) ReadOption {
	return options.NoError(func(c *readConfig) {
		c.versions = append([]uint16(nil), versions...)
	})
}
