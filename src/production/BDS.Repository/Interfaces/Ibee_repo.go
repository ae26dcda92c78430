package interfaces

import (
	"context"

	bdsmodels "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Models"
)

// BeeReadingRepository is the append-only gateway to the bee reading
// collection. Implementations never propagate storage failures: a failed
// insert is logged and dropped, a failed query returns an empty slice.
type BeeReadingRepository interface {
	// Insert persists a reading. Invalid readings and readings arriving
	// while the store is unavailable are logged and skipped.
	Insert(ctx context.Context, reading bdsmodels.BeeReading)

	// Query returns the most recent readings ordered by timestamp
	// descending, optionally filtered by hive id. Invalid documents are
	// dropped from the result.
	Query(ctx context.Context, limit int64, hiveID string) []bdsmodels.BeeReading

	// IsConnected reports whether the store connection is established.
	IsConnected() bool

	// Close releases the underlying connection. Safe to call repeatedly
	// and before Connect.
	Close(ctx context.Context)
}
