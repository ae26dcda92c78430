package bdsmodels

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BeeReading is one sensor observation from a monitored hive. A reading is
// written once and never updated; the document store assigns the ID.
type BeeReading struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	HiveID         string             `bson:"hive_id" json:"hive_id"`
	Temperature    float64            `bson:"temperature" json:"temperature"`
	Humidity       float64            `bson:"humidity" json:"humidity"`
	BumbleBeeCount int                `bson:"bumble_bee_count" json:"bumble_bee_count"`
	HoneyBeeCount  int                `bson:"honey_bee_count" json:"honey_bee_count"`
	LadyBugCount   int                `bson:"lady_bug_count" json:"lady_bug_count"`
	Location       string             `bson:"location" json:"location"`
	Notes          string             `bson:"notes" json:"notes"`
	Timestamp      string             `bson:"timestamp" json:"timestamp"`
}

// RawInstrumentReading is the payload shape emitted by the field
// instrumentation before normalization.
type RawInstrumentReading struct {
	Date        string  `json:"Date"`
	Time        string  `json:"Time"`
	BumbleBee   int     `json:"Bumble Bee"`
	HoneyBee    int     `json:"Honey Bee"`
	LadyBug     int     `json:"Lady Bug"`
	TotalCount  int     `json:"Total Count"`
	Temperature float64 `json:"Temperature (C)"`
	Humidity    float64 `json:"Humidity (%)"`
	Location    string  `json:"Location"`
}

const rawTimestampLayout = "2006-01-02 15:04:05"

// ToBeeReading converts the raw instrumentation shape into the canonical
// reading. An unparseable Date/Time pair leaves Timestamp empty so the
// ingestion path stamps it with the arrival time.
func (r RawInstrumentReading) ToBeeReading() BeeReading {
	reading := BeeReading{
		Temperature:    r.Temperature,
		Humidity:       r.Humidity,
		BumbleBeeCount: r.BumbleBee,
		HoneyBeeCount:  r.HoneyBee,
		LadyBugCount:   r.LadyBug,
		Location:       r.Location,
	}
	if ts, err := time.Parse(rawTimestampLayout, r.Date+" "+r.Time); err == nil {
		reading.Timestamp = ts.UTC().Format(time.RFC3339)
	}
	return reading
}

// DecodeBeeReading decodes an inbound broker payload into a BeeReading.
// Both the canonical JSON shape and the raw instrumentation shape are
// accepted; the shape is sniffed by the presence of the "Temperature (C)"
// key.
func DecodeBeeReading(payload []byte) (BeeReading, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return BeeReading{}, fmt.Errorf("failed to decode payload: %w", err)
	}

	if _, ok := probe["Temperature (C)"]; ok {
		var raw RawInstrumentReading
		if err := json.Unmarshal(payload, &raw); err != nil {
			return BeeReading{}, fmt.Errorf("failed to decode raw instrument payload: %w", err)
		}
		return raw.ToBeeReading(), nil
	}

	var reading BeeReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return BeeReading{}, fmt.Errorf("failed to decode bee reading: %w", err)
	}
	return reading, nil
}
