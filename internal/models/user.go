package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SystemUser represents an operator for actions performed by the system itself.
var SystemUser = &User{
	UserId: primitive.NilObjectID,
	Name:   "System",
}

// User is the operator (landlord or staff) performing an action.
type User struct {
	UserId primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name   string             `json:"name" bson:"name"`
}
