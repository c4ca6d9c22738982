package mongodb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devplatform/community-api/internal/config"
	"github.com/devplatform/community-api/internal/models"
	"github.com/devplatform/community-api/internal/store"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ store.Store = (*Manager)(nil)

// Collection names
const (
	CollectionUsers         = "users"
	CollectionOrganizations = "organizations"
	CollectionEvents        = "events"
	CollectionEventProjects = "eventprojects"
	CollectionTasks         = "tasks"
	CollectionPosts         = "posts"
	CollectionComments      = "comments"
	CollectionGroupChats    = "groupchats"
	CollectionTags          = "organizationtagusers"
)

// Manager owns the MongoDB client and implements store.Store on top of it
type Manager struct {
	config *config.Config
	client *mongo.Client
	db     *mongo.Database
	logger *logrus.Logger

	mu     sync.RWMutex
	closed bool

	totalRequests int64
	open          int64
	inUse         int64
	createdAt     time.Time
}

// NewManager connects to MongoDB and verifies the connection with a ping
func NewManager(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	m := &Manager{
		config:    cfg,
		logger:    logger,
		createdAt: time.Now(),
	}

	logger.WithFields(logrus.Fields{
		"database":  cfg.MongoDatabase,
		"pool_size": cfg.MongoPoolSize,
	}).Debug("Creating MongoDB client")

	opts := clientOptions(cfg).SetPoolMonitor(&event.PoolMonitor{Event: m.observePool})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.db = client.Database(cfg.MongoDatabase)

	logger.WithField("database", cfg.MongoDatabase).Info("MongoDB client initialized")
	return m, nil
}

// clientOptions builds the driver options for cfg. Id lists are written as
// empty arrays when nil, since $push and $pull fail on a null field.
func clientOptions(cfg *config.Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(cfg.MongoPoolSize).
		SetConnectTimeout(cfg.MongoConnectTimeout).
		SetServerSelectionTimeout(cfg.MongoConnectTimeout).
		SetBSONOptions(&options.BSONOptions{NilSliceAsEmpty: true})
}

// observePool tracks connection counts from driver pool events
func (m *Manager) observePool(evt *event.PoolEvent) {
	switch evt.Type {
	case event.ConnectionCreated:
		atomic.AddInt64(&m.open, 1)
	case event.ConnectionClosed:
		atomic.AddInt64(&m.open, -1)
	case event.GetSucceeded:
		atomic.AddInt64(&m.inUse, 1)
	case event.ConnectionReturned:
		atomic.AddInt64(&m.inUse, -1)
	}
}

// collection returns a handle and counts the request
func (m *Manager) collection(name string) *mongo.Collection {
	atomic.AddInt64(&m.totalRequests, 1)
	return m.db.Collection(name)
}

// HealthCheck pings the primary
func (m *Manager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return fmt.Errorf("client is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.MongoConnectTimeout)
	defer cancel()

	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// GetStats returns connection pool statistics
func (m *Manager) GetStats() *models.Stats {
	return &models.Stats{
		Backend:       config.BackendMongo,
		PoolSize:      int(m.config.MongoPoolSize),
		Open:          int(atomic.LoadInt64(&m.open)),
		InUse:         int(atomic.LoadInt64(&m.inUse)),
		TotalRequests: int(atomic.LoadInt64(&m.totalRequests)),
	}
}

// Database exposes the underlying database handle
func (m *Manager) Database() *mongo.Database {
	return m.db
}

// Close disconnects the client
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.WithError(err).Warn("Failed to disconnect MongoDB client")
		return
	}

	m.logger.WithField("uptime", time.Since(m.createdAt).String()).Info("MongoDB client closed")
}
