package mongodb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoDbConfigModel struct {
	ConnectionUrl string
	DatabaseName  string
}

// Database owns the client session, the model registry and collection provisioning.
type Database struct {
	config   MongoDbConfigModel
	logger   *zap.Logger
	registry *Registry

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

func NewDatabase(config MongoDbConfigModel, logger *zap.Logger) *Database {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Database{
		config:   config,
		logger:   logger,
		registry: NewRegistry(),
	}
}

// Connect opens the client and pings the server. It does nothing when already connected.
func (d *Database) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil && d.db != nil {
		return nil
	}

	clientOptions := options.Client().ApplyURI(d.config.ConnectionUrl)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("mongodb connection: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("mongodb ping: %w", err)
	}

	d.client = client
	d.db = client.Database(d.config.DatabaseName)
	d.logger.Info("✨ Connected to MongoDB.", zap.String("database", d.config.DatabaseName))
	return nil
}

// Disconnect closes the client. It does nothing when already disconnected.
func (d *Database) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}

	err := d.client.Disconnect(ctx)
	d.client = nil
	d.db = nil
	if err != nil {
		return fmt.Errorf("mongodb disconnect: %w", err)
	}
	d.logger.Info("Disconnected from MongoDB.")
	return nil
}

func (d *Database) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db != nil
}

// Ping reports whether the server is reachable.
func (d *Database) Ping(ctx context.Context) error {
	d.mu.RLock()
	client := d.client
	d.mu.RUnlock()

	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, nil)
}

func (d *Database) Registry() *Registry {
	return d.registry
}

// Collection returns the named collection of the current database, or nil when disconnected.
func (d *Database) Collection(name string) *mongo.Collection {
	db := d.database()
	if db == nil {
		return nil
	}
	return db.Collection(name)
}

func (d *Database) database() *mongo.Database {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// SetupCollections provisions every registered model.
func (d *Database) SetupCollections(ctx context.Context) error {
	for _, m := range d.registry.Models() {
		if err := d.SetupCollection(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// SetupCollection creates the collection when absent, installs its validator and rebuilds
// its indexes from scratch.
func (d *Database) SetupCollection(ctx context.Context, m CollectionModel) error {
	db := d.database()
	if db == nil {
		return ErrNotConnected
	}
	name := m.CollectionName()

	exists, err := collectionExists(ctx, db, name)
	if err != nil {
		return err
	}
	if !exists {
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %q: %w", name, err)
		}
		d.logger.Info("Created collection", zap.String("collection", name))
	}

	if validator := m.Validator(); validator.Expression != nil {
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator.Expression},
			{Key: "validationAction", Value: validator.Action},
			{Key: "validationLevel", Value: validator.Level},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			return fmt.Errorf("install validator on %q: %w", name, err)
		}
	}

	indexes := db.Collection(name).Indexes()
	if _, err := indexes.DropAll(ctx); err != nil {
		return fmt.Errorf("drop indexes on %q: %w", name, err)
	}
	for _, index := range m.Indexes() {
		if _, err := indexes.CreateOne(ctx, index); err != nil {
			return fmt.Errorf("create index on %q: %w", name, err)
		}
	}

	d.logger.Debug("Collection ready",
		zap.String("collection", name),
		zap.Int("indexes", len(m.Indexes())))
	return nil
}

// CleanCollections deletes every document of every non-empty collection.
func (d *Database) CleanCollections(ctx context.Context) error {
	db := d.database()
	if db == nil {
		return nil
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	for _, name := range names {
		if strings.HasPrefix(name, "system.") {
			continue
		}
		coll := db.Collection(name)
		count, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			return fmt.Errorf("count %q: %w", name, err)
		}
		if count <= 0 {
			continue
		}
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clean %q: %w", name, err)
		}
	}
	return nil
}

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	for _, existing := range names {
		if existing == name {
			return true, nil
		}
	}
	return false, nil
}
