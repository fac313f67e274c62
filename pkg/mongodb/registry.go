package mongodb

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ModelSetup describes a collection at definition time.
type ModelSetup struct {
	CollectionName             string
	Schema                     Schema
	AllowedMethods             []Method
	DocumentDefaults           bson.M
	Indexes                    []mongo.IndexModel
	ValidationQueryExpressions bson.M
}

// CollectionModel is the part of a model the connection manager needs for provisioning.
type CollectionModel interface {
	CollectionName() string
	Validator() Validator
	Indexes() []mongo.IndexModel
}

// Registry maps collection names to their model handles. It is owned by a Database.
type Registry struct {
	mu     sync.RWMutex
	models map[string]CollectionModel
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{
		models: make(map[string]CollectionModel),
	}
}

// Lookup returns the model registered for collectionName.
func (r *Registry) Lookup(collectionName string) (CollectionModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[collectionName]
	return m, ok
}

// Models returns the registered models in definition order.
func (r *Registry) Models() []CollectionModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CollectionModel, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.models[name])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Clear forgets every registered model.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.models = make(map[string]CollectionModel)
	r.order = nil
}

func (r *Registry) getOrRegister(collectionName string, build func() CollectionModel) CollectionModel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.models[collectionName]; ok {
		return existing
	}
	m := build()
	r.models[collectionName] = m
	r.order = append(r.order, collectionName)
	return m
}

// DefineModel returns the handle for setup.CollectionName, creating it on first use. Later
// definitions of the same collection return the first handle and ignore their setup.
func DefineModel[T any](db *Database, setup ModelSetup) (*Handle[T], error) {
	if setup.CollectionName == "" {
		return nil, ErrEmptyCollectionName
	}

	m := db.Registry().getOrRegister(setup.CollectionName, func() CollectionModel {
		return &Handle[T]{model: newModel[T](db, setup)}
	})

	handle, ok := m.(*Handle[T])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelTypeMismatch, setup.CollectionName)
	}
	return handle, nil
}
