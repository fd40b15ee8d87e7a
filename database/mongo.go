package database

import (
	"context"
	"fmt"

	"realtimesales/config"
	"realtimesales/domain"
	"realtimesales/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var mongoClient *mongo.Client

// InitMongo connects to MongoDB and verifies the connection
func InitMongo(ctx context.Context, cfg *config.MongoConfig) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoClient = client
	logrus.Info("MongoDB connection established successfully")
	return nil
}

// CloseMongo disconnects the MongoDB client
func CloseMongo(ctx context.Context) error {
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
		logrus.Info("MongoDB connection closed")
	}
	return nil
}

// GetMongoCollection returns a handle on the given collection
func GetMongoCollection(cfg *config.MongoConfig) *mongo.Collection {
	return mongoClient.Database(cfg.Database).Collection(cfg.Collection)
}

var _ domain.OrderRepository = &MongoOrders{}

// MongoOrders stores orders in a MongoDB collection
type MongoOrders struct {
	coll      *mongo.Collection
	onInvalid InvalidDocumentFunc
}

func NewMongoOrders(coll *mongo.Collection, onInvalid InvalidDocumentFunc) *MongoOrders {
	return &MongoOrders{coll: coll, onInvalid: onInvalid}
}

func (m *MongoOrders) List(ctx context.Context) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: models.FieldTimestamp, Value: -1}})
	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	docs := make([]RawDocument, 0, len(raw))
	for _, doc := range raw {
		docs = append(docs, RawDocument{ID: mongoID(doc["_id"]), Data: doc})
	}
	return DecodeOrders(docs, m.onInvalid), nil
}

// Append upserts a fresh document and lets the server stamp it with
// $currentDate, then reads it back.
func (m *MongoOrders) Append(ctx context.Context, input domain.OrderInput) (domain.Order, error) {
	id := primitive.NewObjectID()
	update := bson.M{
		"$set": bson.M{
			models.FieldProductName: input.ProductName,
			models.FieldPrice:       input.Price,
			models.FieldQuantity:    input.Quantity,
		},
		"$currentDate": bson.M{models.FieldTimestamp: true},
	}
	if _, err := m.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true)); err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	var stored bson.M
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&stored); err != nil {
		return domain.Order{}, fmt.Errorf("failed to read back order %s: %w", id.Hex(), err)
	}
	return DecodeOrder(id.Hex(), stored)
}

func (m *MongoOrders) Ping(ctx context.Context) error {
	return m.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func mongoID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
