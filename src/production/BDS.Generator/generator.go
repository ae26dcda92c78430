package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	bdsmodels "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Models"
	validation "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Validation"
)

// Daytime window used to bias temperatures and insect activity.
const (
	daytimeStartHour = 8
	daytimeEndHour   = 18
)

// Generate produces n plausible bee readings for demos and testing. The
// base temperature follows the hour of day, humidity is inversely
// correlated with temperature and insect counts scale up during daytime.
// Every generated reading is inside the accepted sensor ranges by
// construction; records are independent and carry no state between calls.
func Generate(n int) []bdsmodels.BeeReading {
	now := time.Now().UTC()
	hour := now.Hour()
	daytime := hour >= daytimeStartHour && hour <= daytimeEndHour

	sign := -1.0
	beeFactor := 0.5
	if daytime {
		sign = 1.0
		beeFactor = 1.5
	}
	baseTemp := 20 + 8*sign*randBetween(0.5, 1)

	if n < 0 {
		n = 0
	}
	readings := make([]bdsmodels.BeeReading, 0, n)
	for i := 0; i < n; i++ {
		temperature := round2(randBetween(
			math.Max(validation.MinTemperature, baseTemp-8),
			math.Min(validation.MaxTemperature, baseTemp+8),
		))

		baseHumidity := 70 - (temperature-20)*2
		humidity := round2(randBetween(
			math.Max(validation.MinHumidity, baseHumidity-20),
			math.Min(validation.MaxHumidity, baseHumidity+20),
		))

		hiveID := fmt.Sprintf("HIVE-%03d", i+1)
		readings = append(readings, bdsmodels.BeeReading{
			HiveID:         hiveID,
			Temperature:    temperature,
			Humidity:       humidity,
			BumbleBeeCount: rand.Intn(int(5*beeFactor) + 1),
			HoneyBeeCount:  rand.Intn(int(10*beeFactor) + 1),
			LadyBugCount:   rand.Intn(int(2*beeFactor) + 1),
			Location:       "North Field",
			Notes:          "Simulated reading for " + hiveID,
			Timestamp:      now.Format(time.RFC3339),
		})
	}
	return readings
}

func randBetween(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
