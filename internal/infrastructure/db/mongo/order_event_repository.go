package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

// OrderEventRepository writes the order audit trail.
type OrderEventRepository struct {
	coll *mongo.Collection
}

func NewOrderEventRepository(db *mongo.Database) ports.OrderEventRecorder {
	return &OrderEventRepository{coll: db.Collection(orderEventsCollection)}
}

// Record persists one audit document. Identifiers that fail to parse are
// stored as raw strings; the audit trail must never reject an event the
// ledger already committed.
func (r *OrderEventRepository) Record(ctx context.Context, event *domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"quantity":   event.Quantity,
		"totalPrice": event.TotalPrice,
		"createdAt":  event.CreatedAt.UTC(),
		"recordedAt": time.Now().UTC(),
	}
	doc["orderId"] = hexOrString(event.OrderID)
	doc["userId"] = hexOrString(event.UserID)
	doc["productId"] = hexOrString(event.ProductID)

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func hexOrString(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}
