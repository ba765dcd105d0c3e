package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/spec-kit/report-tracker/internal/config"
)

// Mongo holds the document store used for scraped snapshots.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongo connects when MONGO_URI is set. Failure to reach the server is logged
// and leaves the handle empty.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) *Mongo {
	if cfg.URI == "" {
		logger.Warn("MONGO_URI not provided; trello snapshot kept in memory")
		return &Mongo{}
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		logger.Warn("unable to configure mongo client", zap.Error(err))
		return &Mongo{}
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Warn("unable to reach mongo; trello snapshot kept in memory", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return &Mongo{}
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return &Mongo{Client: client, Database: client.Database(cfg.Database)}
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.Client != nil {
		_ = m.Client.Disconnect(ctx)
	}
}

// Ping verifies Mongo connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("mongo client not configured")
	}
	return m.Client.Ping(ctx, nil)
}
