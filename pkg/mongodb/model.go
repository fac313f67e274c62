package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PreHook runs right before an operation and may mutate operand in place. Operands are:
// insert, the document copy (bson.M); insertMany, the documents ([]bson.M); update, the
// $set payload (bson.M, nil without $set); bulkWrite, the write models; aggregate, the
// pipeline; every other operation, its filter.
type PreHook func(ctx context.Context, operand any) error

func noopHook(context.Context, any) error { return nil }

// model is the data-access object bound to one collection. Its operations are reachable only
// through Handle, which enforces the allow-list.
type model[T any] struct {
	db             *Database
	collectionName string
	indexes        []mongo.IndexModel
	validator      Validator
	allowed        map[Method]struct{}
	allowedOrder   []Method
	defaults       bson.M

	hooksMu sync.RWMutex
	hooks   map[Method]PreHook
}

func newModel[T any](db *Database, setup ModelSetup) *model[T] {
	m := &model[T]{
		db:             db,
		collectionName: setup.CollectionName,
		indexes:        append([]mongo.IndexModel(nil), setup.Indexes...),
		validator:      BuildValidator(setup.Schema, setup.ValidationQueryExpressions),
		allowed:        make(map[Method]struct{}, len(setup.AllowedMethods)),
		defaults:       make(bson.M, len(setup.DocumentDefaults)),
		hooks:          make(map[Method]PreHook, len(Methods)),
	}
	for _, method := range setup.AllowedMethods {
		if _, seen := m.allowed[method]; !seen {
			m.allowed[method] = struct{}{}
			m.allowedOrder = append(m.allowedOrder, method)
		}
	}
	for key, value := range setup.DocumentDefaults {
		m.defaults[key] = value
	}
	for _, method := range Methods {
		m.hooks[method] = noopHook
	}
	return m
}

func (m *model[T]) pre(method Method, hook PreHook) {
	if hook == nil {
		hook = noopHook
	}
	m.hooksMu.Lock()
	m.hooks[method] = hook
	m.hooksMu.Unlock()
}

func (m *model[T]) runHook(ctx context.Context, method Method, operand any) error {
	m.hooksMu.RLock()
	hook, ok := m.hooks[method]
	m.hooksMu.RUnlock()
	if !ok {
		return nil
	}
	if err := hook(ctx, operand); err != nil {
		return fmt.Errorf("%s pre-hook on %q: %w", method, m.collectionName, err)
	}
	return nil
}

func (m *model[T]) collection() (*mongo.Collection, error) {
	coll := m.db.Collection(m.collectionName)
	if coll == nil {
		return nil, ErrNotConnected
	}
	return coll, nil
}

func (m *model[T]) insert(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*T, error) {
	doc, err := toDocument(document)
	if err != nil {
		return nil, err
	}

	shallowCopy := make(bson.M, len(doc))
	for key, value := range doc {
		shallowCopy[key] = value
	}
	if err := m.runHook(ctx, MethodInsert, shallowCopy); err != nil {
		return nil, err
	}

	prepared := mergeDefaults(m.defaults, shallowCopy)
	coll, err := m.collection()
	if err != nil {
		return nil, err
	}

	result, err := coll.InsertOne(ctx, prepared, opts...)
	if err != nil {
		return nil, wrapWriteError(MethodInsert, m.collectionName, err)
	}
	prepared[IDField] = result.InsertedID

	return decode[T](prepared)
}

func (m *model[T]) insertMany(ctx context.Context, documents []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	docs := make([]bson.M, 0, len(documents))
	for _, document := range documents {
		doc, err := toDocument(document)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := m.runHook(ctx, MethodInsertMany, docs); err != nil {
		return nil, err
	}

	prepared := make([]any, 0, len(docs))
	for _, doc := range docs {
		prepared = append(prepared, mergeDefaults(m.defaults, doc))
	}

	coll, err := m.collection()
	if err != nil {
		return nil, err
	}
	result, err := coll.InsertMany(ctx, prepared, opts...)
	if err != nil {
		return result, wrapWriteError(MethodInsertMany, m.collectionName, err)
	}
	return result, nil
}

func (m *model[T]) find(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*T, error) {
	filter = orEmpty(filter)
	if err := m.runHook(ctx, MethodFind, filter); err != nil {
		return nil, err
	}
	return m.findOne(ctx, filter, opts...)
}

func (m *model[T]) findByID(ctx context.Context, id any, opts ...*options.FindOneOptions) (*T, error) {
	objectID, err := ToObjectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{IDField: objectID}
	if err := m.runHook(ctx, MethodFindByID, filter); err != nil {
		return nil, err
	}
	return m.findOne(ctx, filter, opts...)
}

func (m *model[T]) findOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*T, error) {
	coll, err := m.collection()
	if err != nil {
		return nil, err
	}

	var doc T
	err = coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *model[T]) findMany(ctx context.Context, filter any, opts ...*options.FindOptions) ([]T, error) {
	filter = orEmpty(filter)
	if err := m.runHook(ctx, MethodFindMany, filter); err != nil {
		return nil, err
	}
	coll, err := m.collection()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

func (m *model[T]) update(ctx context.Context, filter any, update bson.M, opts ...*options.FindOneAndUpdateOptions) (*T, error) {
	filter = orEmpty(filter)

	var set bson.M
	if raw, ok := update["$set"]; ok {
		doc, err := toDocument(raw)
		if err != nil {
			return nil, err
		}
		set = doc
	}
	var operand any
	if set != nil {
		operand = set
	}
	if err := m.runHook(ctx, MethodUpdate, operand); err != nil {
		return nil, err
	}

	coll, err := m.collection()
	if err != nil {
		return nil, err
	}

	opts = append(opts, options.FindOneAndUpdate().SetReturnDocument(options.After))
	var doc T
	err = coll.FindOneAndUpdate(ctx, filter, pruneSet(update, set), opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWriteError(MethodUpdate, m.collectionName, err)
	}
	return &doc, nil
}

func (m *model[T]) delete(ctx context.Context, filter any, opts ...*options.FindOneAndDeleteOptions) (*T, error) {
	filter = orEmpty(filter)
	if err := m.runHook(ctx, MethodDelete, filter); err != nil {
		return nil, err
	}
	coll, err := m.collection()
	if err != nil {
		return nil, err
	}

	var doc T
	err = coll.FindOneAndDelete(ctx, filter, opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *model[T]) deleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	filter = orEmpty(filter)
	if err := m.runHook(ctx, MethodDeleteMany, filter); err != nil {
		return nil, err
	}
	coll, err := m.collection()
	if err != nil {
		return nil, err
	}
	return coll.DeleteMany(ctx, filter, opts...)
}

func (m *model[T]) total(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error) {
	filter = orEmpty(filter)
	if err := m.runHook(ctx, MethodTotal, filter); err != nil {
		return 0, err
	}
	coll, err := m.collection()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, filter, opts...)
}

func (m *model[T]) aggregate(ctx context.Context, pipeline any, opts ...*options.AggregateOptions) ([]bson.M, error) {
	if pipeline == nil {
		pipeline = mongo.Pipeline{}
	}
	if err := m.runHook(ctx, MethodAggregate, pipeline); err != nil {
		return nil, err
	}
	coll, err := m.collection()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Aggregate(ctx, pipeline, opts...)
	if err != nil {
		return nil, err
	}
	results := make([]bson.M, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []bson.M{}
	}
	return results, nil
}

func (m *model[T]) bulkWrite(ctx context.Context, operations []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	if err := m.runHook(ctx, MethodBulkWrite, operations); err != nil {
		return nil, err
	}
	prepared, err := prepareBulk(m.defaults, operations)
	if err != nil {
		return nil, err
	}

	coll, err := m.collection()
	if err != nil {
		return nil, err
	}
	result, err := coll.BulkWrite(ctx, prepared, opts...)
	if err != nil {
		return result, wrapWriteError(MethodBulkWrite, m.collectionName, err)
	}
	return result, nil
}

// mergeDefaults lays doc over defaults. Undefined fields of doc do not hide a default.
func mergeDefaults(defaults, doc bson.M) bson.M {
	merged := make(bson.M, len(defaults)+len(doc))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range pruneDocument(doc) {
		merged[key] = value
	}
	return pruneDocument(merged)
}

// pruneSet returns a copy of update whose $set clause is replaced by the pruned set. Other
// operators are left as they are.
func pruneSet(update, set bson.M) bson.M {
	out := make(bson.M, len(update))
	for key, value := range update {
		out[key] = value
	}
	if set != nil {
		out["$set"] = pruneDocument(set)
	}
	return out
}

// prepareBulk returns copies of the write models with defaults merged into inserted documents
// and $set clauses pruned. The caller's models are not modified.
func prepareBulk(defaults bson.M, operations []mongo.WriteModel) ([]mongo.WriteModel, error) {
	prepared := make([]mongo.WriteModel, 0, len(operations))
	for _, operation := range operations {
		switch op := operation.(type) {
		case *mongo.InsertOneModel:
			doc, err := toDocument(op.Document)
			if err != nil {
				return nil, err
			}
			clone := *op
			clone.Document = mergeDefaults(defaults, doc)
			prepared = append(prepared, &clone)
		case *mongo.UpdateOneModel:
			clone := *op
			if update, ok := updateDocument(op.Update); ok {
				cleaned, err := pruneUpdate(update)
				if err != nil {
					return nil, err
				}
				clone.Update = cleaned
			}
			prepared = append(prepared, &clone)
		case *mongo.UpdateManyModel:
			clone := *op
			if update, ok := updateDocument(op.Update); ok {
				cleaned, err := pruneUpdate(update)
				if err != nil {
					return nil, err
				}
				clone.Update = cleaned
			}
			prepared = append(prepared, &clone)
		default:
			prepared = append(prepared, operation)
		}
	}
	return prepared, nil
}

func pruneUpdate(update bson.M) (bson.M, error) {
	raw, ok := update["$set"]
	if !ok {
		return update, nil
	}
	set, err := toDocument(raw)
	if err != nil {
		return nil, err
	}
	return pruneSet(update, set), nil
}

func updateDocument(update any) (bson.M, bool) {
	switch u := update.(type) {
	case bson.M:
		return u, true
	case map[string]any:
		return bson.M(u), true
	case bson.D:
		out := make(bson.M, len(u))
		for _, elem := range u {
			out[elem.Key] = elem.Value
		}
		return out, true
	}
	return nil, false
}

// ToObjectID converts a hex string or an ObjectID into an ObjectID.
func ToObjectID(id any) (primitive.ObjectID, error) {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v, nil
	case *primitive.ObjectID:
		if v != nil {
			return *v, nil
		}
	case string:
		objectID, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, v)
		}
		return objectID, nil
	}
	return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidID, id)
}

// toDocument turns maps and bson-tagged structs into a bson.M.
func toDocument(document any) (bson.M, error) {
	switch d := document.(type) {
	case nil:
		return nil, errors.New("document is nil")
	case bson.M:
		return d, nil
	case map[string]any:
		return bson.M(d), nil
	}

	data, err := bson.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

func decode[T any](doc bson.M) (*T, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var out T
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &out, nil
}

func orEmpty(filter any) any {
	if filter == nil {
		return bson.M{}
	}
	return filter
}
