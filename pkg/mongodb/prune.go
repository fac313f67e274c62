package mongodb

import (
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prune strips undefined values from a nested document. A value is undefined when it is a
// nil interface, a nil pointer or primitive.Undefined. Identifiers and dates are returned as
// they are; arrays lose their undefined elements and keyed structures lose their undefined
// fields. Prune returns nil when value itself is undefined.
func Prune(value any) any {
	switch v := value.(type) {
	case nil, primitive.Undefined:
		return nil
	case primitive.ObjectID, primitive.DateTime, time.Time, primitive.Timestamp:
		return v
	case bson.M:
		return pruneDocument(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, field := range v {
			if pruned := Prune(field); pruned != nil {
				out[key] = pruned
			}
		}
		return out
	case bson.D:
		out := make(bson.D, 0, len(v))
		for _, elem := range v {
			if pruned := Prune(elem.Value); pruned != nil {
				out = append(out, bson.E{Key: elem.Key, Value: pruned})
			}
		}
		return out
	case bson.A:
		return bson.A(pruneSlice(v))
	case []any:
		return pruneSlice(v)
	case []bson.M:
		out := make([]bson.M, 0, len(v))
		for _, doc := range v {
			if doc != nil {
				out = append(out, pruneDocument(doc))
			}
		}
		return out
	}

	return pruneReflect(value)
}

// pruneReflect covers typed slices, arrays and string-keyed maps the switch in Prune does not
// name. Byte slices and arrays are binary values and are kept whole.
func pruneReflect(value any) any {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 || (rv.Kind() == reflect.Slice && rv.IsNil()) {
			return value
		}
		out := make(bson.A, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if pruned := Prune(rv.Index(i).Interface()); pruned != nil {
				out = append(out, pruned)
			}
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return value
		}
		out := make(bson.M, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			if pruned := Prune(iter.Value().Interface()); pruned != nil {
				out[iter.Key().String()] = pruned
			}
		}
		return out
	}
	return value
}

func pruneDocument(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for key, field := range doc {
		if pruned := Prune(field); pruned != nil {
			out[key] = pruned
		}
	}
	return out
}

func pruneSlice(values []any) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		if pruned := Prune(value); pruned != nil {
			out = append(out, pruned)
		}
	}
	return out
}
