package bdsmodels

import "testing"

func TestDecodeBeeReadingCanonicalShape(t *testing.T) {
	payload := []byte(`{
		"hive_id": "HIVE-001",
		"temperature": 22.5,
		"humidity": 55,
		"bumble_bee_count": 3,
		"honey_bee_count": 7,
		"lady_bug_count": 1,
		"location": "North Field",
		"notes": "afternoon sweep",
		"timestamp": "2025-07-09T21:40:19Z"
	}`)

	reading, err := DecodeBeeReading(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if reading.HiveID != "HIVE-001" {
		t.Fatalf("hive_id mismatch: got %q", reading.HiveID)
	}
	if reading.Temperature != 22.5 || reading.Humidity != 55 {
		t.Fatalf("sensor values mismatch: %.2f / %.2f", reading.Temperature, reading.Humidity)
	}
	if reading.Timestamp != "2025-07-09T21:40:19Z" {
		t.Fatalf("timestamp mismatch: got %q", reading.Timestamp)
	}
}

func TestDecodeBeeReadingRawInstrumentShape(t *testing.T) {
	payload := []byte(`{
		"Date": "2025-07-09",
		"Time": "21:40:19",
		"Bumble Bee": 2,
		"Honey Bee": 9,
		"Lady Bug": 1,
		"Total Count": 12,
		"Temperature (C)": 24.3,
		"Humidity (%)": 61.2,
		"Location": "East Meadow"
	}`)

	reading, err := DecodeBeeReading(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if reading.Temperature != 24.3 || reading.Humidity != 61.2 {
		t.Fatalf("sensor values mismatch: %.2f / %.2f", reading.Temperature, reading.Humidity)
	}
	if reading.BumbleBeeCount != 2 || reading.HoneyBeeCount != 9 || reading.LadyBugCount != 1 {
		t.Fatalf("counts mismatch: %+v", reading)
	}
	if reading.Location != "East Meadow" {
		t.Fatalf("location mismatch: got %q", reading.Location)
	}
	if reading.Timestamp != "2025-07-09T21:40:19Z" {
		t.Fatalf("raw Date/Time not normalized: got %q", reading.Timestamp)
	}
}

func TestDecodeBeeReadingRawShapeBadDateLeavesTimestampEmpty(t *testing.T) {
	payload := []byte(`{
		"Date": "not-a-date",
		"Time": "21:40:19",
		"Bumble Bee": 0,
		"Honey Bee": 0,
		"Lady Bug": 0,
		"Total Count": 0,
		"Temperature (C)": 20,
		"Humidity (%)": 50,
		"Location": "North Field"
	}`)

	reading, err := DecodeBeeReading(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if reading.Timestamp != "" {
		t.Fatalf("expected empty timestamp for unparseable Date/Time, got %q", reading.Timestamp)
	}
}

func TestDecodeBeeReadingMalformedPayload(t *testing.T) {
	if _, err := DecodeBeeReading([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
	if _, err := DecodeBeeReading([]byte(`{"temperature": "very warm"}`)); err == nil {
		t.Fatalf("expected error for schema mismatch")
	}
}
