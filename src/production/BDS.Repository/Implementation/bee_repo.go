package implementation

import (
	"context"
	"crypto/tls"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	config "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Config"
	logger "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Logger"
	bdsmodels "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Models"
	validation "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Validation"
)

// MongoBeeRepository owns the MongoDB connection for the bee reading
// collection. Connection failure degrades the repository into a
// disconnected state: inserts are skipped, queries return empty results
// and the process keeps running.
type MongoBeeRepository struct {
	cfg    config.MongoConfig
	logger *logger.Logger

	client    *mongo.Client
	coll      *mongo.Collection
	connected bool
}

func NewMongoBeeRepository(cfg config.MongoConfig, log *logger.Logger) *MongoBeeRepository {
	return &MongoBeeRepository{
		cfg:    cfg,
		logger: log.WithComponent("mongo"),
	}
}

// Connect opens the client, pings the primary and selects the collection.
// Failures are logged, never returned: callers check IsConnected.
func (r *MongoBeeRepository) Connect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(r.cfg.URI)
	opts.SetServerSelectionTimeout(r.cfg.ServerSelectionTimeout)
	if strings.HasPrefix(r.cfg.URI, "mongodb+srv://") {
		// Atlas requires TLS 1.2 or newer
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		r.logger.ErrorWithError(err, "Failed to connect to MongoDB")
		r.connected = false
		return
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		r.logger.ErrorWithError(err, "Failed to ping MongoDB")
		_ = client.Disconnect(context.Background())
		r.connected = false
		return
	}

	r.client = client
	r.coll = client.Database(r.cfg.Database).Collection(r.cfg.Collection)
	r.connected = true
	r.logger.WithField("database", r.cfg.Database).Info("Connected to MongoDB")
}

// IsConnected reports whether the store connection is established.
func (r *MongoBeeRepository) IsConnected() bool {
	return r.connected && r.client != nil
}

// Insert appends a reading to the collection. Out-of-range readings are
// dropped before they reach the store; storage errors are logged and the
// write is dropped.
func (r *MongoBeeRepository) Insert(ctx context.Context, reading bdsmodels.BeeReading) {
	if !r.IsConnected() {
		r.logger.Warn("MongoDB not available, skipping save")
		return
	}

	if !validation.IsValid(reading.Temperature, reading.Humidity) {
		r.logger.WithField("reading", reading).Warn("Invalid reading not saved")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.InsertTimeout)
	defer cancel()

	result, err := r.coll.InsertOne(ctx, reading)
	if err != nil {
		r.logger.ErrorWithError(err, "Error saving sensor reading")
		return
	}
	r.logger.WithField("id", result.InsertedID).Debug("Sensor reading saved")
}

// Query returns the most recent limit readings sorted by timestamp
// descending, optionally filtered by hive id. Documents that fail the
// range check are dropped on the way out; this double-checks the write
// path and masks bad documents left by older producers.
func (r *MongoBeeRepository) Query(ctx context.Context, limit int64, hiveID string) []bdsmodels.BeeReading {
	readings := make([]bdsmodels.BeeReading, 0)
	if !r.IsConnected() {
		r.logger.Warn("MongoDB not available, returning empty data")
		return readings
	}

	filter := bson.M{}
	if hiveID != "" {
		filter["hive_id"] = hiveID
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.QueryTimeout)
	defer cancel()

	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, findOpts)
	if err != nil {
		r.logger.ErrorWithError(err, "Error querying bee readings")
		return readings
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var reading bdsmodels.BeeReading
		if err := cursor.Decode(&reading); err != nil {
			r.logger.ErrorWithError(err, "Error decoding bee reading document")
			continue
		}
		if !validation.IsValid(reading.Temperature, reading.Humidity) {
			r.logger.WithField("id", reading.ID).Warn("Skipping invalid stored reading")
			continue
		}
		readings = append(readings, reading)
	}
	if err := cursor.Err(); err != nil {
		r.logger.ErrorWithError(err, "Error iterating bee reading cursor")
	}

	return readings
}

// Close releases the underlying connection. Idempotent and safe to call
// even if Connect never succeeded.
func (r *MongoBeeRepository) Close(ctx context.Context) {
	if r.client == nil {
		return
	}
	if err := r.client.Disconnect(ctx); err != nil {
		r.logger.ErrorWithError(err, "Error closing MongoDB connection")
	}
	r.client = nil
	r.coll = nil
	r.connected = false
	r.logger.Info("MongoDB connection closed")
}
