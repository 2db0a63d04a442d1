// Package impact converts tracked usage time into an environmental estimate.
package impact

import "fmt"

// Per-minute impact rates.
const (
	CO2GramsPerMinute = 0.35
	WaterMlPerMinute  = 8.5
	EnergyWhPerMinute = 0.18
)

// Estimate is the environmental impact of a usage duration.
type Estimate struct {
	CO2Grams float64 `json:"co2Grams"`
	WaterMl  float64 `json:"waterMl"`
	EnergyWh float64 `json:"energyWh"`
}

// Calculate returns the impact of ms milliseconds of usage.
// Negative input is treated as zero.
func Calculate(ms int64) Estimate {
	if ms < 0 {
		ms = 0
	}
	minutes := float64(ms) / 60000
	return Estimate{
		CO2Grams: minutes * CO2GramsPerMinute,
		WaterMl:  minutes * WaterMlPerMinute,
		EnergyWh: minutes * EnergyWhPerMinute,
	}
}

// FormatDuration renders ms compactly: "1h 5m", "5m 3s" or "3s".
func FormatDuration(ms int64) string {
	hours, minutes, seconds := split(ms)
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatDurationLong is like FormatDuration but keeps seconds when hours are shown.
func FormatDurationLong(ms int64) string {
	hours, minutes, seconds := split(ms)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return FormatDuration(ms)
}

func split(ms int64) (hours, minutes, seconds int64) {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return total / 3600, (total % 3600) / 60, total % 60
}
