package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Identity is the authenticated caller, built by the transport layer from the
// token claims and passed explicitly into every service operation.
type Identity struct {
	ID         primitive.ObjectID
	Role       Role
	Department string
}
