package database

import (
	"context"
	"fmt"

	"realtimesales/domain"
	"realtimesales/models"

	"cloud.google.com/go/firestore"
)

var _ domain.OrderRepository = &FirestoreOrders{}

// FirestoreOrders reads and writes the orders collection in Firestore
type FirestoreOrders struct {
	client     *firestore.Client
	collection string
	onInvalid  InvalidDocumentFunc
}

func NewFirestoreOrders(client *firestore.Client, collection string, onInvalid InvalidDocumentFunc) *FirestoreOrders {
	return &FirestoreOrders{client: client, collection: collection, onInvalid: onInvalid}
}

func (f *FirestoreOrders) List(ctx context.Context) ([]domain.Order, error) {
	snaps, err := f.client.Collection(f.collection).
		OrderBy(models.FieldTimestamp, firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	docs := make([]RawDocument, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, RawDocument{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return DecodeOrders(docs, f.onInvalid), nil
}

// Append writes the order with a server timestamp and reads it back so the
// caller sees the stored time.
func (f *FirestoreOrders) Append(ctx context.Context, input domain.OrderInput) (domain.Order, error) {
	ref, _, err := f.client.Collection(f.collection).Add(ctx, models.OrderDocument{
		ProductName: input.ProductName,
		Price:       input.Price,
		Quantity:    input.Quantity,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to read back order %s: %w", ref.ID, err)
	}
	return DecodeOrder(ref.ID, snap.Data())
}

func (f *FirestoreOrders) Ping(ctx context.Context) error {
	if f.client == nil {
		return fmt.Errorf("Firestore client is not initialized")
	}
	_, err := f.client.Collection(f.collection).Limit(1).Documents(ctx).GetAll()
	return err
}
