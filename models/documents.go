package models

import "time"

/*
Documents as they are written to the order backend.

orders/{id}
{
	"productName": "Espresso",
	"price": 3.5,
	"quantity": 2,
	"timestamp": <server timestamp>
}

users/{uid}
{
	"username": "sara",
	"email": "sara@example.com"
}

Readers must not assume these shapes: other clients write to the same
collections and documents are decoded field by field.
*/

// OrderDocument is the stored form of an order. Firestore fills a zero
// Timestamp with the commit time.
type OrderDocument struct {
	ProductName string    `firestore:"productName" bson:"productName"`
	Price       float64   `firestore:"price" bson:"price"`
	Quantity    int64     `firestore:"quantity" bson:"quantity"`
	Timestamp   time.Time `firestore:"timestamp,serverTimestamp" bson:"timestamp"`
}

// UserDocument is the profile stored next to an auth account
type UserDocument struct {
	Username string `firestore:"username" bson:"username"`
	Email    string `firestore:"email" bson:"email"`
}

// Field names shared by readers
const (
	FieldProductName = "productName"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldTimestamp   = "timestamp"
)
