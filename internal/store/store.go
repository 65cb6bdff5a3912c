package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adpulse-server/internal/observability"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("document modified concurrently")
)

const companyCollection = "CompanyData"

// Connection retry budget: a fixed number of attempts with a fixed backoff,
// applied when the initial ping fails.
const (
	connectMaxRetries   = 3
	connectRetryBackoff = 5 * time.Second
)

// Store wraps the MongoDB connection holding company account aggregates.
type Store struct {
	client    *mongo.Client
	companies *mongo.Collection
	logger    *observability.Logger
}

// New connects to MongoDB and verifies the connection with a ping, retrying
// on failure within the fixed retry budget.
func New(ctx context.Context, uri, dbName string, logger *observability.Logger) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return Store{}, fmt.Errorf("failed to create mongo client: %w", err)
	}

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err == nil {
			logger.Info(ctx, "Connected to database successfully")
			break
		}
		if attempt > connectMaxRetries {
			return Store{}, fmt.Errorf("failed to connect to database after %d retries: %w", connectMaxRetries, err)
		}
		logger.Error(ctx, fmt.Sprintf("Failed to connect to database, retrying... Attempt %d/%d", attempt, connectMaxRetries), err)
		select {
		case <-time.After(connectRetryBackoff):
		case <-ctx.Done():
			return Store{}, ctx.Err()
		}
	}

	return Store{
		client:    client,
		companies: client.Database(dbName).Collection(companyCollection),
		logger:    logger,
	}, nil
}

// Close disconnects from the database.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
