package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handle is the capability-checked facade over a collection model. Every operation checks the
// collection's allow-list before anything else and fails with *MethodNotAllowedError when the
// operation is not permitted. T is the type documents are decoded into.
type Handle[T any] struct {
	model *model[T]
}

func (h *Handle[T]) guard(method Method) error {
	if _, ok := h.model.allowed[method]; !ok {
		return &MethodNotAllowedError{Method: method, Collection: h.model.collectionName}
	}
	return nil
}

func (h *Handle[T]) CollectionName() string {
	return h.model.collectionName
}

func (h *Handle[T]) Validator() Validator {
	return h.model.validator
}

func (h *Handle[T]) Indexes() []mongo.IndexModel {
	return append([]mongo.IndexModel(nil), h.model.indexes...)
}

func (h *Handle[T]) AllowedMethods() []Method {
	return append([]Method(nil), h.model.allowedOrder...)
}

// Pre registers hook to run before method, replacing any previous hook. A nil hook resets
// the slot to a no-op.
func (h *Handle[T]) Pre(method Method, hook PreHook) {
	h.model.pre(method, hook)
}

// Insert stores one document after merging the collection defaults under it and returns the
// stored document with its identifier.
func (h *Handle[T]) Insert(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*T, error) {
	if err := h.guard(MethodInsert); err != nil {
		return nil, err
	}
	return h.model.insert(ctx, document, opts...)
}

func (h *Handle[T]) InsertMany(ctx context.Context, documents []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if err := h.guard(MethodInsertMany); err != nil {
		return nil, err
	}
	return h.model.insertMany(ctx, documents, opts...)
}

// Find returns the first document matching filter, or nil when there is none.
func (h *Handle[T]) Find(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*T, error) {
	if err := h.guard(MethodFind); err != nil {
		return nil, err
	}
	return h.model.find(ctx, filter, opts...)
}

// FindByID accepts a hex string or an ObjectID.
func (h *Handle[T]) FindByID(ctx context.Context, id any, opts ...*options.FindOneOptions) (*T, error) {
	if err := h.guard(MethodFindByID); err != nil {
		return nil, err
	}
	return h.model.findByID(ctx, id, opts...)
}

func (h *Handle[T]) FindMany(ctx context.Context, filter any, opts ...*options.FindOptions) ([]T, error) {
	if err := h.guard(MethodFindMany); err != nil {
		return nil, err
	}
	return h.model.findMany(ctx, filter, opts...)
}

// Update applies update to the first match and returns the document as it is after the
// update, or nil when nothing matched. Undefined values are pruned from $set only.
func (h *Handle[T]) Update(ctx context.Context, filter any, update bson.M, opts ...*options.FindOneAndUpdateOptions) (*T, error) {
	if err := h.guard(MethodUpdate); err != nil {
		return nil, err
	}
	return h.model.update(ctx, filter, update, opts...)
}

// Delete removes the first match and returns it as it was before deletion.
func (h *Handle[T]) Delete(ctx context.Context, filter any, opts ...*options.FindOneAndDeleteOptions) (*T, error) {
	if err := h.guard(MethodDelete); err != nil {
		return nil, err
	}
	return h.model.delete(ctx, filter, opts...)
}

func (h *Handle[T]) DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if err := h.guard(MethodDeleteMany); err != nil {
		return nil, err
	}
	return h.model.deleteMany(ctx, filter, opts...)
}

func (h *Handle[T]) Total(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error) {
	if err := h.guard(MethodTotal); err != nil {
		return 0, err
	}
	return h.model.total(ctx, filter, opts...)
}

func (h *Handle[T]) Aggregate(ctx context.Context, pipeline any, opts ...*options.AggregateOptions) ([]bson.M, error) {
	if err := h.guard(MethodAggregate); err != nil {
		return nil, err
	}
	return h.model.aggregate(ctx, pipeline, opts...)
}

func (h *Handle[T]) BulkWrite(ctx context.Context, operations []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	if err := h.guard(MethodBulkWrite); err != nil {
		return nil, err
	}
	return h.model.bulkWrite(ctx, operations, opts...)
}
