package validation

// Accepted sensor ranges. Readings outside these bounds are treated as
// instrument glitches and are never persisted.
const (
	MinTemperature = 10.0
	MaxTemperature = 30.0
	MinHumidity    = 30.0
	MaxHumidity    = 90.0
)

// IsValid reports whether a temperature/humidity pair is inside the
// accepted ranges. Bounds are inclusive.
func IsValid(temperature, humidity float64) bool {
	return temperature >= MinTemperature && temperature <= MaxTemperature &&
		humidity >= MinHumidity && humidity <= MaxHumidity
}
