package simulators

import (
	"math"
	"math/rand"
	"time"

	"github.com/spf13/cast"
)

// Reading is a single simulated measurement keyed by field name.
// Values are numeric or string; a timestamp field is appended at
// generation time.
type Reading map[string]any

// Profile is a plug-and-play data generator for one IoT domain.
// Implementations hold base values fixed at construction time and
// apply bounded random perturbation around them on every Generate call.
type Profile interface {
	// Generate returns a fresh reading with a timestamp field appended.
	Generate() Reading

	// Topic returns the publish topic derived from the profile configs.
	Topic() string

	// Params returns the effective construction parameters, defaults
	// included.
	Params() map[string]any
}

// Constructor builds a profile instance from caller parameters.
// Unknown keys are ignored and missing keys fall back to defaults,
// so a nil map is always valid.
type Constructor func(params map[string]any) Profile

// stampTimestamp appends an ISO-8601 UTC timestamp to the reading.
func stampTimestamp(r Reading) Reading {
	r["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	return r
}

// addRandomness applies a bounded random perturbation around value,
// uniform in [-variance*value, +variance*value].
func addRandomness(value, variance float64) float64 {
	return value + (rand.Float64()*2-1)*variance*value
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func choice(options ...string) string {
	return options[rand.Intn(len(options))]
}

// floatParam coerces params[key] to a float64, falling back to def on a
// missing key or a non-coercible value.
func floatParam(params map[string]any, key string, def float64) float64 {
	if raw, ok := params[key]; ok {
		if v, err := cast.ToFloat64E(raw); err == nil {
			return v
		}
	}
	return def
}

// stringParam coerces params[key] to a string, falling back to def.
func stringParam(params map[string]any, key string, def string) string {
	if raw, ok := params[key]; ok {
		if v, err := cast.ToStringE(raw); err == nil && v != "" {
			return v
		}
	}
	return def
}
