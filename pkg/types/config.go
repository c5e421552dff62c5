// Config holds catalog store selection and board parameters.
package types

import (
	"errors"
	"math"
)

// Config holds the catalog backend selection and the board's matching and
// layout parameters.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Tolerance is the live-pose matching tolerance. Zero fields take the
	// defaults via WithDefaults.
	Tolerance Tolerance `json:"tolerance" yaml:"tolerance"`

	// BoardOffset is added once to every catalog position at load time,
	// moving shape-local coordinates into the shared board frame.
	BoardOffset Point `json:"board_offset" yaml:"board_offset"`

	// TrayOffset positions the pieces' starting layout.
	TrayOffset Point `json:"tray_offset" yaml:"tray_offset"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrToleranceInvalid = errors.New("tolerance must be a finite positive number")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// WithDefaults returns a copy of c with zero tolerances replaced by the
// defaults.
func (c Config) WithDefaults() Config {
	if c.Tolerance.Position == 0 {
		c.Tolerance.Position = DefaultPositionTolerance
	}
	if c.Tolerance.Rotation == 0 {
		c.Tolerance.Rotation = DefaultRotationTolerance
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !validTolerance(c.Tolerance.Position) || !validTolerance(c.Tolerance.Rotation) {
		return ErrToleranceInvalid
	}
	return nil
}

// validTolerance accepts zero (replaced by WithDefaults) and finite
// positive values. NaN fails the comparison.
func validTolerance(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
