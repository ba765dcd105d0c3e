package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/spec-kit/report-tracker/internal/domain"
)

const (
	snapshotCollection = "trello_stats"
	snapshotID         = "dailyStats"
)

// SnapshotRepository stores the singleton Trello board summary.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot domain.TrelloSnapshot) error
	Latest(ctx context.Context) (*domain.TrelloSnapshot, error)
}

type snapshotDocument struct {
	ID        string                  `bson:"_id"`
	Data      []domain.TrelloListStat `bson:"data"`
	UpdatedAt time.Time               `bson:"updatedAt"`
}

type snapshotRepository struct {
	collection *mongo.Collection
}

// NewSnapshotRepository returns a MongoDB backed implementation.
func NewSnapshotRepository(db *mongo.Database) SnapshotRepository {
	return &snapshotRepository{collection: db.Collection(snapshotCollection)}
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot domain.TrelloSnapshot) error {
	update := bson.M{"$set": bson.M{
		"data":      snapshot.Stats,
		"updatedAt": snapshot.UpdatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": snapshotID},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *snapshotRepository) Latest(ctx context.Context) (*domain.TrelloSnapshot, error) {
	var doc snapshotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": snapshotID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("trello stats: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if doc.Data == nil {
		doc.Data = []domain.TrelloListStat{}
	}
	return &domain.TrelloSnapshot{Stats: doc.Data, UpdatedAt: doc.UpdatedAt}, nil
}
