package database

import (
	"errors"
	"fmt"
	"math"
	"time"

	"realtimesales/domain"
	"realtimesales/models"

	"github.com/sirupsen/logrus"
)

// InvalidDocumentFunc is told about every stored document that could not be
// turned into an order
type InvalidDocumentFunc func(id string, err error)

// RawDocument is a stored order before its fields are checked
type RawDocument struct {
	ID   string
	Data map[string]any
}

// DecodeOrders converts documents into orders, dropping malformed ones.
// Input order is preserved.
func DecodeOrders(docs []RawDocument, onInvalid InvalidDocumentFunc) []domain.Order {
	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := DecodeOrder(doc.ID, doc.Data)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"id":   doc.ID,
				"data": doc.Data,
			}).WithError(err).Error("database: invalid order data format")
			if onInvalid != nil {
				onInvalid(doc.ID, err)
			}
			continue
		}
		orders = append(orders, order)
	}
	return orders
}

// DecodeOrder reads one order document field by field
func DecodeOrder(id string, data map[string]any) (domain.Order, error) {
	name, ok := data[models.FieldProductName].(string)
	if !ok {
		return domain.Order{}, fieldError(models.FieldProductName, data[models.FieldProductName])
	}
	price, ok := toFloat(data[models.FieldPrice])
	if !ok {
		return domain.Order{}, fieldError(models.FieldPrice, data[models.FieldPrice])
	}
	quantity, ok := toInt(data[models.FieldQuantity])
	if !ok {
		return domain.Order{}, fieldError(models.FieldQuantity, data[models.FieldQuantity])
	}
	ts, ok := toTime(data[models.FieldTimestamp])
	if !ok {
		return domain.Order{}, fieldError(models.FieldTimestamp, data[models.FieldTimestamp])
	}

	return domain.Order{
		ID:          id,
		ProductName: name,
		Price:       price,
		Quantity:    quantity,
		Timestamp:   ts,
	}, nil
}

func fieldError(field string, value any) error {
	if value == nil {
		return errors.Join(domain.ErrInvalidOrder, fmt.Errorf("%s is missing", field))
	}
	return errors.Join(domain.ErrInvalidOrder, fmt.Errorf("%s has unexpected type %T", field, value))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return toFloat(float64(n))
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// toTime accepts time.Time and driver types exposing Time(), such as the
// BSON DateTime.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case interface{ Time() time.Time }:
		ts := t.Time()
		return ts, !ts.IsZero()
	default:
		return time.Time{}, false
	}
}
