package models

import (
	"surf-forecast/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BeachesCollection = "beaches"

type BeachPosition string

const (
	BeachPositionSouth BeachPosition = "S"
	BeachPositionEast  BeachPosition = "E"
	BeachPositionWest  BeachPosition = "W"
	BeachPositionNorth BeachPosition = "N"
)

type Beach struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Lat      float64            `bson:"lat" json:"lat"`
	Lng      float64            `bson:"lng" json:"lng"`
	Name     string             `bson:"name" json:"name"`
	Position BeachPosition      `bson:"position" json:"position"`
	User     primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
}

// BeachSetup describes the beaches collection.
func BeachSetup() mongodb.ModelSetup {
	return mongodb.ModelSetup{
		CollectionName: BeachesCollection,
		Schema: mongodb.Schema{
			BSONType: "object",
			Properties: map[string]*mongodb.Schema{
				"lat": {
					BSONType:    "number",
					Description: "The latitude coordinate of the beach",
				},
				"lng": {
					BSONType:    "number",
					Description: "The longitude coordinate of the beach",
				},
				"name": {
					BSONType:    "string",
					Description: "The name of the beach",
				},
				"position": {
					BSONType:    "string",
					Enum:        []any{"S", "E", "N", "W"},
					Description: "The position of the beach is facing on the map",
				},
				"user": {
					BSONType:    "objectId",
					Description: "The user who registered the beach",
				},
			},
			Required: []string{"lat", "lng", "name", "position"},
		},
		AllowedMethods: []mongodb.Method{
			mongodb.MethodUpdate,
			mongodb.MethodInsert,
			mongodb.MethodInsertMany,
			mongodb.MethodFind,
			mongodb.MethodFindMany,
		},
	}
}
