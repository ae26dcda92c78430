package generator

import (
	"testing"
	"time"

	validation "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Validation"
)

func TestGenerateProducesRequestedCount(t *testing.T) {
	readings := Generate(5)
	if len(readings) != 5 {
		t.Fatalf("expected 5 readings, got %d", len(readings))
	}
	if got := len(Generate(0)); got != 0 {
		t.Fatalf("expected no readings for n=0, got %d", got)
	}
}

func TestGeneratedReadingsAlwaysValid(t *testing.T) {
	// Repeated runs cover different random bases across the clamp edges.
	for run := 0; run < 200; run++ {
		for _, rd := range Generate(10) {
			if !validation.IsValid(rd.Temperature, rd.Humidity) {
				t.Fatalf("generated reading out of range: %.2fC / %.2f%%", rd.Temperature, rd.Humidity)
			}
			if rd.BumbleBeeCount < 0 || rd.HoneyBeeCount < 0 || rd.LadyBugCount < 0 {
				t.Fatalf("generated negative insect count: %+v", rd)
			}
		}
	}
}

func TestGeneratedReadingsAreStamped(t *testing.T) {
	for _, rd := range Generate(3) {
		if rd.HiveID == "" {
			t.Fatalf("expected hive id to be set")
		}
		if _, err := time.Parse(time.RFC3339, rd.Timestamp); err != nil {
			t.Fatalf("timestamp %q is not RFC3339: %v", rd.Timestamp, err)
		}
	}
}
