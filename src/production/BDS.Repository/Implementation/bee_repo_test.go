package implementation

import (
	"context"
	"testing"
	"time"

	config "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Config"
	logger "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Logger"
	bdsmodels "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Models"
	interfaces "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Repository/Interfaces"
)

var _ interfaces.BeeReadingRepository = (*MongoBeeRepository)(nil)

func newDisconnectedRepo() *MongoBeeRepository {
	cfg := config.MongoConfig{
		URI:                    "mongodb://localhost:27017",
		Database:               "bee_monitoring",
		Collection:             "bee_data",
		ServerSelectionTimeout: time.Second,
		ConnectTimeout:         time.Second,
		InsertTimeout:          time.Second,
		QueryTimeout:           time.Second,
	}
	log := logger.NewLogger(&config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"})
	return NewMongoBeeRepository(cfg, log)
}

func TestQueryWhileDisconnectedReturnsEmptySlice(t *testing.T) {
	repo := newDisconnectedRepo()

	readings := repo.Query(context.Background(), 10, "")
	if readings == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(readings) != 0 {
		t.Fatalf("expected no readings, got %d", len(readings))
	}
}

func TestInsertWhileDisconnectedDoesNotPanic(t *testing.T) {
	repo := newDisconnectedRepo()

	repo.Insert(context.Background(), bdsmodels.BeeReading{
		HiveID:      "HIVE-001",
		Temperature: 22.5,
		Humidity:    55,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})

	if repo.IsConnected() {
		t.Fatalf("repository should stay disconnected")
	}
}

func TestCloseIsIdempotentBeforeConnect(t *testing.T) {
	repo := newDisconnectedRepo()

	repo.Close(context.Background())
	repo.Close(context.Background())

	if repo.IsConnected() {
		t.Fatalf("closed repository must report disconnected")
	}
}
