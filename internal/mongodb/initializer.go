package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Initializer prepares a database before the server starts serving
type Initializer struct {
	logger  *logrus.Logger
	timeout time.Duration
}

// NewInitializer creates a new initializer
func NewInitializer(logger *logrus.Logger, timeout time.Duration) *Initializer {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Initializer{
		logger:  logger,
		timeout: timeout,
	}
}

// WaitForReady polls uri until a primary answers a ping
func (i *Initializer) WaitForReady(ctx context.Context, uri string) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	i.logger.Info("Waiting for MongoDB to be ready")

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for MongoDB: %w", ctx.Err())
		case <-ticker.C:
			if err := ping(ctx, uri); err != nil {
				i.logger.WithError(err).Debug("MongoDB not ready yet")
				continue
			}
			i.logger.Info("MongoDB is ready")
			return nil
		}
	}
}

func ping(ctx context.Context, uri string) error {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	return client.Ping(ctx, readpref.Primary())
}

// indexSpec describes the indexes of one collection
type indexSpec struct {
	collection string
	models     []mongo.IndexModel
}

func indexSpecs() []indexSpec {
	return []indexSpec{
		{
			collection: CollectionTags,
			models: []mongo.IndexModel{{
				Keys: bson.D{
					{Key: "organizationId", Value: 1},
					{Key: "parentTagId", Value: 1},
					{Key: "name", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("org_parent_name_unique"),
			}},
		},
		{
			collection: CollectionComments,
			models: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("post_created"),
			}},
		},
		{
			collection: CollectionTasks,
			models: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "event", Value: 1}},
				Options: options.Index().SetName("event"),
			}},
		},
		{
			collection: CollectionEventProjects,
			models: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "event", Value: 1}},
				Options: options.Index().SetName("event"),
			}},
		},
	}
}

// EnsureIndexes creates the indexes the store relies on. Creating an index
// that already exists with the same definition is a no-op.
func (i *Initializer) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range indexSpecs() {
		names, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", spec.collection, err)
		}
		i.logger.WithFields(logrus.Fields{
			"collection": spec.collection,
			"indexes":    names,
		}).Info("Ensured indexes")
	}
	return nil
}
