package models

import (
	"surf-forecast/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsersCollection = "users"

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
}

// UserSetup describes the users collection. Emails are unique.
func UserSetup() mongodb.ModelSetup {
	return mongodb.ModelSetup{
		CollectionName: UsersCollection,
		Schema: mongodb.Schema{
			BSONType: "object",
			Properties: map[string]*mongodb.Schema{
				"name": {
					BSONType:    "string",
					Description: "The name of the user",
				},
				"email": {
					BSONType:    "string",
					Description: "The email of the user",
				},
				"password": {
					BSONType:    "string",
					Description: "The password of the user",
				},
			},
			Required: []string{"name", "email", "password"},
		},
		AllowedMethods: []mongodb.Method{
			mongodb.MethodUpdate,
			mongodb.MethodInsert,
			mongodb.MethodFindMany,
			mongodb.MethodFind,
			mongodb.MethodFindByID,
			mongodb.MethodTotal,
		},
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_id").SetUnique(true),
			},
		},
	}
}
