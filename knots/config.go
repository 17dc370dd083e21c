package knots

import (
	"fmt"
	"math"
)

// Config holds the numeric parameters of one call to Resolve.
type Config struct {
	// DefaultTension is used for every side without an explicit tension.
	DefaultTension float64
	// MinTension is the lower bound for tension magnitudes. Smaller values are
	// raised to it. MetaFont and MetaPost use 3/4.
	MinTension float64
	// Epsilon is the distance below which two consecutive knots are
	// considered coincident.
	Epsilon float64
	// SafetyFactor enlarges the bounding triangle test for "at least"
	// tensions.
	SafetyFactor float64
}

// DefaultConfig returns the parameters MetaPost uses.
func DefaultConfig() *Config {
	return &Config{
		DefaultTension: 1.0,
		MinTension:     0.75,
		Epsilon:        0.0000001,
		SafetyFactor:   1.0 + 1.0/4096,
	}
}

func (conf *Config) validate() error {
	if !(conf.DefaultTension > 0) || math.IsInf(conf.DefaultTension, 0) {
		return fmt.Errorf("%w: default tension %g", ErrInvalidParameter, conf.DefaultTension)
	}
	if !(conf.MinTension > 0) {
		return fmt.Errorf("%w: minimum tension %g", ErrInvalidParameter, conf.MinTension)
	}
	if !(conf.Epsilon >= 0) {
		return fmt.Errorf("%w: epsilon %g", ErrInvalidParameter, conf.Epsilon)
	}
	if !(conf.SafetyFactor >= 1) {
		return fmt.Errorf("%w: safety factor %g", ErrInvalidParameter, conf.SafetyFactor)
	}
	return nil
}

// tension returns the effective signed tension of a side, negative
// for "at least".
func (conf *Config) tension(s Side) float64 {
	t := conf.DefaultTension
	if s.hasTension {
		t = s.tension
	}
	if math.Abs(t) < conf.MinTension {
		if t < 0 {
			return -conf.MinTension
		}
		return conf.MinTension
	}
	return t
}
