package mongodb

import "go.mongodb.org/mongo-driver/bson"

// IDField is the identifier field every validated document must carry.
const IDField = "_id"

const (
	ValidationActionError = "error"
	ValidationLevelStrict = "strict"
)

// Schema is a $jsonSchema node. BSONType holds either a single type name or a list of them.
type Schema struct {
	BSONType             any                `bson:"bsonType,omitempty"`
	Description          string             `bson:"description,omitempty"`
	Enum                 []any              `bson:"enum,omitempty"`
	Required             []string           `bson:"required,omitempty"`
	Properties           map[string]*Schema `bson:"properties,omitempty"`
	Items                *Schema            `bson:"items,omitempty"`
	AdditionalProperties *bool              `bson:"additionalProperties,omitempty"`
	Minimum              *float64           `bson:"minimum,omitempty"`
	Maximum              *float64           `bson:"maximum,omitempty"`
	MinLength            *int64             `bson:"minLength,omitempty"`
	MaxLength            *int64             `bson:"maxLength,omitempty"`
	MinItems             *int64             `bson:"minItems,omitempty"`
	MaxItems             *int64             `bson:"maxItems,omitempty"`
	Pattern              string             `bson:"pattern,omitempty"`
}

// Validator is what gets installed on a collection through collMod.
type Validator struct {
	Expression bson.M
	Action     string
	Level      string
}

// BuildValidator derives the strict collection validator for schema. Every object node that
// does not say otherwise forbids undeclared properties, the identifier field is injected and
// required, and extra query expressions are merged next to $jsonSchema. schema is not modified.
func BuildValidator(schema Schema, extra bson.M) Validator {
	strict := strictSchema(&schema)

	properties := map[string]*Schema{
		IDField: {
			BSONType:    "objectId",
			Description: "Unique identifier of the document in the database",
		},
	}
	for name, property := range strict.Properties {
		properties[name] = property
	}

	required := make([]string, 0, len(schema.Required)+1)
	for _, field := range schema.Required {
		if field != IDField {
			required = append(required, field)
		}
	}
	required = append(required, IDField)

	expression := bson.M{
		"$jsonSchema": &Schema{
			BSONType:             "object",
			AdditionalProperties: boolPtr(false),
			Properties:           properties,
			Required:             required,
		},
	}
	for key, value := range extra {
		expression[key] = value
	}

	return Validator{
		Expression: expression,
		Action:     ValidationActionError,
		Level:      ValidationLevelStrict,
	}
}

// strictSchema returns a deep copy of s with additionalProperties defaulted to false on
// every object node.
func strictSchema(s *Schema) *Schema {
	if s == nil {
		return nil
	}

	out := *s
	if isObjectType(s.BSONType) && (s.AdditionalProperties == nil || !*s.AdditionalProperties) {
		out.AdditionalProperties = boolPtr(false)
	}
	if s.Enum != nil {
		out.Enum = append([]any(nil), s.Enum...)
	}
	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	out.Items = strictSchema(s.Items)
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, property := range s.Properties {
			out.Properties[name] = strictSchema(property)
		}
	}
	return &out
}

func isObjectType(bsonType any) bool {
	switch t := bsonType.(type) {
	case string:
		return t == "object"
	case []string:
		for _, name := range t {
			if name == "object" {
				return true
			}
		}
	case bson.A:
		return isObjectType([]any(t))
	case []any:
		for _, name := range t {
			if name == "object" {
				return true
			}
		}
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}
