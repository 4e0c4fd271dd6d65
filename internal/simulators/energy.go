package simulators

import (
	"math/rand"
	"time"
)

type loadPattern struct {
	min      float64
	max      float64
	variance float64
}

// EnergyProfile simulates an energy meter : power, voltage, current and
// grid frequency. Current is derived from power and voltage so the three
// stay electrically consistent on every reading.
type EnergyProfile struct {
	meterID       string
	basePower     float64
	baseVoltage   float64
	baseFrequency float64
	pattern       string

	// Per-load-pattern power envelope.
	loadPatterns map[string]loadPattern
}

func NewEnergyProfile(params map[string]any) Profile {
	rand.Seed(time.Now().UnixNano())
	return &EnergyProfile{
		meterID:       stringParam(params, "meter_id", "energy-01"),
		basePower:     floatParam(params, "base_power", 3.5),
		baseVoltage:   floatParam(params, "base_voltage", 230.0),
		baseFrequency: floatParam(params, "base_frequency", 50.0),
		pattern:       stringParam(params, "load_pattern", "residential"),
		loadPatterns: map[string]loadPattern{
			"residential": {min: 0.5, max: 8.0, variance: 0.3},
			"commercial":  {min: 2.0, max: 25.0, variance: 0.2},
			"industrial":  {min: 10.0, max: 100.0, variance: 0.1},
		},
	}
}

func (e *EnergyProfile) Generate() Reading {
	pattern, ok := e.loadPatterns[e.pattern]
	if !ok {
		pattern = e.loadPatterns["residential"]
	}

	power := addRandomness(e.basePower, pattern.variance)
	power = clamp(power, pattern.min, pattern.max)

	// Voltage is relatively stable. The clamp window is narrower than
	// the declared [200,250] field bounds; kept as-is on purpose.
	voltage := clamp(addRandomness(e.baseVoltage, 0.02), 220, 240)

	// Current follows from power and voltage (kW to W, then I = P/V).
	current := (power * 1000) / voltage
	current = clamp(addRandomness(current, 0.05), 0, 50)

	// Grid frequency is very stable.
	frequency := clamp(addRandomness(e.baseFrequency, 0.01), 49.8, 50.2)

	return stampTimestamp(Reading{
		"meter_id":     e.meterID,
		"power_kw":     round2(power),
		"voltage_v":    round1(voltage),
		"current_a":    round2(current),
		"frequency_hz": round2(frequency),
	})
}

func (e *EnergyProfile) Topic() string {
	return "energy/meter/" + e.meterID
}

func (e *EnergyProfile) Params() map[string]any {
	return map[string]any{
		"meter_id":       e.meterID,
		"base_power":     e.basePower,
		"base_voltage":   e.baseVoltage,
		"base_frequency": e.baseFrequency,
		"load_pattern":   e.pattern,
	}
}
