package simulators

import (
	"math/rand"
	"strings"
	"time"
)

// WeatherProfile simulates a weather station : temperature, humidity,
// wind speed and a categorical description derived from the three.
type WeatherProfile struct {
	city         string
	baseTemp     float64
	baseHumidity float64
	baseWind     float64
}

func NewWeatherProfile(params map[string]any) Profile {
	rand.Seed(time.Now().UnixNano())
	return &WeatherProfile{
		city:         stringParam(params, "city", "Milano"),
		baseTemp:     floatParam(params, "base_temp", 20.0),
		baseHumidity: floatParam(params, "base_humidity", 60.0),
		baseWind:     floatParam(params, "base_wind", 10.0),
	}
}

func (w *WeatherProfile) Generate() Reading {
	// Temperature with a seasonal-like variation around the base value.
	tempVariation := rand.Float64()*10 - 5
	temperature := addRandomness(w.baseTemp+tempVariation, 0.15)
	temperature = clamp(temperature, -50, 60)

	// Humidity moves inversely with temperature.
	humidity := addRandomness(w.baseHumidity, 0.2)
	if temperature > 25 {
		humidity = clamp(humidity-10, 30, 100)
	} else if temperature < 10 {
		humidity = clamp(humidity+10, 0, 90)
	}
	humidity = clamp(humidity, 0, 100)

	windSpeed := clamp(addRandomness(w.baseWind, 0.3), 0, 50)

	// Description follows from the generated conditions.
	var description string
	switch {
	case temperature < 0 && humidity > 70:
		description = "Snow"
	case humidity > 80 && windSpeed > 20:
		description = "Thunderstorm"
	case humidity > 70:
		description = choice("Light Rain", "Heavy Rain", "Fog")
	case windSpeed > 30:
		// Windy but clear
		description = "Clear Sky"
	default:
		description = choice("Clear Sky", "Partly Cloudy", "Cloudy")
	}

	return stampTimestamp(Reading{
		"city":        w.city,
		"temperature": round1(temperature),
		"humidity":    round1(humidity),
		"wind_speed":  round1(windSpeed),
		"description": description,
	})
}

func (w *WeatherProfile) Topic() string {
	return "weather/" + strings.ReplaceAll(strings.ToLower(w.city), " ", "_")
}

func (w *WeatherProfile) Params() map[string]any {
	return map[string]any{
		"city":          w.city,
		"base_temp":     w.baseTemp,
		"base_humidity": w.baseHumidity,
		"base_wind":     w.baseWind,
	}
}
