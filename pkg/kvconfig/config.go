// Package kvconfig implements environment-variable-driven configuration
// for the authenticated key-value store, in the shape of the teacher's
// pkg/config: Env* constants, a typed enum with String()/validation
// methods, and a Validate() field.ErrorList built with
// k8s.io/apimachinery/pkg/util/validation/field.
package kvconfig

import (
	"fmt"
	"os"
	"strconv"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for authkv configuration.
const (
	EnvPowerBudget = "AUTHKV_POWER_BUDGET"
	EnvCurve       = "AUTHKV_CURVE"
	EnvKeyOrder    = "AUTHKV_KEY_ORDER"
	EnvLogLevel    = "AUTHKV_LOG_LEVEL"
)

// CurveType names the pairing-friendly curve the accumulator runs over.
// It is a fixed enum today (BLS12-381 is the only implementation) kept
// typed for the same reason the teacher keeps CurveTypeECDSA around
// unused: forward compatibility without a breaking config change.
type CurveType string

const (
	CurveTypeUnknown  CurveType = "unknown"
	CurveTypeBLS12381 CurveType = "bls12-381"
)

func (c CurveType) String() string { return string(c) }

func (c CurveType) valid() bool {
	switch c {
	case CurveTypeBLS12381:
		return true
	default:
		return false
	}
}

// KeyOrder names the total order keys are compared under. Lexicographic
// is the only order the positional non-membership scheme supports today.
type KeyOrder string

const (
	KeyOrderUnknown       KeyOrder = "unknown"
	KeyOrderLexicographic KeyOrder = "lexicographic"
)

func (o KeyOrder) String() string { return string(o) }

func (o KeyOrder) valid() bool {
	switch o {
	case KeyOrderLexicographic:
		return true
	default:
		return false
	}
}

// Config is the complete configuration for a kvstore.Store instance.
type Config struct {
	// PowerBudget is Q, the maximum set size the accumulator's public
	// parameters support.
	PowerBudget int `json:"power_budget"`
	Curve       CurveType `json:"curve"`
	KeyOrder    KeyOrder  `json:"key_order"`
	LogLevel    string    `json:"log_level"`
}

// Default returns the configuration used when no environment variables
// are set: a modest power budget, BLS12-381, lexicographic key order,
// info-level logging.
func Default() Config {
	return Config{
		PowerBudget: 1024,
		Curve:       CurveTypeBLS12381,
		KeyOrder:    KeyOrderLexicographic,
		LogLevel:    "info",
	}
}

// FromEnv builds a Config from AUTHKV_* environment variables, filling
// in Default() for anything unset.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvPowerBudget); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("kvconfig: parse %s=%q: %w", EnvPowerBudget, v, err)
		}
		cfg.PowerBudget = n
	}
	if v := os.Getenv(EnvCurve); v != "" {
		cfg.Curve = CurveType(v)
	}
	if v := os.Getenv(EnvKeyOrder); v != "" {
		cfg.KeyOrder = KeyOrder(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return Config{}, fmt.Errorf("kvconfig: %w", errs.ToAggregate())
	}
	return cfg, nil
}

// Validate checks the configuration the way the teacher's
// RemoteSignerConfig.Validate does: accumulate field.Error entries and
// let the caller decide how to render them.
func (c Config) Validate() field.ErrorList {
	var errs field.ErrorList

	if c.PowerBudget <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("powerBudget"), c.PowerBudget, "must be positive"))
	}
	if !c.Curve.valid() {
		errs = append(errs, field.NotSupported(field.NewPath("curve"), c.Curve, []CurveType{CurveTypeBLS12381}))
	}
	if !c.KeyOrder.valid() {
		errs = append(errs, field.NotSupported(field.NewPath("keyOrder"), c.KeyOrder, []KeyOrder{KeyOrderLexicographic}))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, field.NotSupported(field.NewPath("logLevel"), c.LogLevel, []string{"debug", "info", "warn", "error"}))
	}

	return errs
}
