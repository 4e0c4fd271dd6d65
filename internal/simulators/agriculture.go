package simulators

import (
	"math/rand"
	"time"
)

// AgricultureProfile simulates a soil sensor : moisture, soil temperature
// and pH level. Moisture variance depends on the configured soil type.
type AgricultureProfile struct {
	sensorID     string
	baseMoisture float64
	baseTemp     float64
	basePh       float64
	soilType     string

	// Per-soil-type moisture variance. Sandy soil dries quickly,
	// clay retains moisture, loam is balanced.
	moistureVariance map[string]float64
}

func NewAgricultureProfile(params map[string]any) Profile {
	rand.Seed(time.Now().UnixNano())
	return &AgricultureProfile{
		sensorID:     stringParam(params, "sensor_id", "soil-001"),
		baseMoisture: floatParam(params, "base_moisture", 40.0),
		baseTemp:     floatParam(params, "base_temp", 18.0),
		basePh:       floatParam(params, "base_ph", 6.5),
		soilType:     stringParam(params, "soil_type", "loam"),
		moistureVariance: map[string]float64{
			"sandy": 0.4,
			"clay":  0.1,
			"loam":  0.2,
		},
	}
}

func (a *AgricultureProfile) Generate() Reading {
	variance, ok := a.moistureVariance[a.soilType]
	if !ok {
		variance = 0.2
	}
	moisture := clamp(addRandomness(a.baseMoisture, variance), 5, 95)

	// Soil temperature runs cooler than air temperature.
	tempVariation := rand.Float64()*5 - 3
	temperature := clamp(addRandomness(a.baseTemp+tempVariation, 0.1), -5, 35)

	// pH drifts slowly; most crops prefer 5.5-7.5.
	phVariation := rand.Float64()*0.4 - 0.2
	phLevel := clamp(addRandomness(a.basePh+phVariation, 0.05), 5.0, 8.5)

	return stampTimestamp(Reading{
		"sensor_id":   a.sensorID,
		"moisture":    round1(moisture),
		"temperature": round1(temperature),
		"ph_level":    round1(phLevel),
	})
}

func (a *AgricultureProfile) Topic() string {
	return "agriculture/soil/" + a.sensorID
}

func (a *AgricultureProfile) Params() map[string]any {
	return map[string]any{
		"sensor_id":     a.sensorID,
		"base_moisture": a.baseMoisture,
		"base_temp":     a.baseTemp,
		"base_ph":       a.basePh,
		"soil_type":     a.soilType,
	}
}
