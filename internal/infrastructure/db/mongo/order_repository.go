package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// txnTimeout bounds the whole order transaction so a stuck session surfaces
// as an error instead of hanging the caller.
const txnTimeout = 10 * time.Second

// OrderRepository persists orders and owns the order/stock transaction.
type OrderRepository struct {
	client   *mongo.Client
	orders   *mongo.Collection
	products *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		client:   client,
		orders:   db.Collection(ordersCollection),
		products: db.Collection(productsCollection),
	}
}

type mongoOrder struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId"`
	ProductID  primitive.ObjectID `bson:"productId"`
	Quantity   int64              `bson:"quantity"`
	TotalPrice float64            `bson:"totalPrice"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

// CreateWithStockDecrement inserts the order and applies a relative stock
// decrement inside a single transaction with snapshot isolation and majority
// write concern. The decrement filter re-asserts stock >= quantity at write
// time, closing the window between the caller's pre-check and the commit.
// The transaction is driven manually so a transient conflict is surfaced as
// domain.ErrOrderConflict instead of being retried behind the caller's back.
func (r *OrderRepository) CreateWithStockDecrement(ctx context.Context, order *domain.Order) error {
	uid, err := primitive.ObjectIDFromHex(order.UserID)
	if err != nil {
		return domain.ErrInvalidInput
	}
	pid, err := primitive.ObjectIDFromHex(order.ProductID)
	if err != nil {
		return domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, txnTimeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	doc := mongoOrder{
		UserID:     uid,
		ProductID:  pid,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt.UTC(),
	}

	var insertedID primitive.ObjectID
	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sess.StartTransaction(txnOpts); err != nil {
			return fmt.Errorf("start transaction: %w", err)
		}

		res, err := r.orders.InsertOne(sc, doc)
		if err != nil {
			_ = sess.AbortTransaction(sc)
			return fmt.Errorf("insert order: %w", err)
		}
		insertedID = res.InsertedID.(primitive.ObjectID)

		// Guarded relative decrement: no match means the stock can no longer
		// cover the quantity, so the whole transaction unwinds.
		upd, err := r.products.UpdateOne(sc,
			bson.M{"_id": pid, "stock": bson.M{"$gte": order.Quantity}},
			bson.M{"$inc": bson.M{"stock": -order.Quantity}},
		)
		if err != nil {
			_ = sess.AbortTransaction(sc)
			return fmt.Errorf("decrement stock: %w", err)
		}
		if upd.MatchedCount == 0 {
			_ = sess.AbortTransaction(sc)
			return &domain.InsufficientStockError{}
		}

		return sess.CommitTransaction(sc)
	})
	if err != nil {
		if isTransientTxnError(err) {
			return domain.ErrOrderConflict
		}
		return err
	}

	order.ID = insertedID.Hex()
	return nil
}

// isTransientTxnError reports whether the server flagged the error as a
// transient transaction failure (typically a write conflict with a
// concurrent transaction on the same product).
func isTransientTxnError(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorLabel("TransientTransactionError")
}

type mongoProductSnapshot struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Price float64            `bson:"price"`
}

type mongoOrderWithProduct struct {
	mongoOrder `bson:",inline"`
	Product    *mongoProductSnapshot `bson:"product,omitempty"`
}

// ListByUser joins each of the user's orders with its product's current
// snapshot. The unwind preserves orders whose product has been deleted; they
// decode with a nil snapshot.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.OrderWithProduct, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": uid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         productsCollection,
			"localField":   "productId",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$product",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"userId":     1,
			"productId":  1,
			"quantity":   1,
			"totalPrice": 1,
			"status":     1,
			"createdAt":  1,
			"product": bson.M{
				"_id":   1,
				"name":  1,
				"price": 1,
			},
		}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*domain.OrderWithProduct, 0)
	for cursor.Next(ctx) {
		var mo mongoOrderWithProduct
		if err := cursor.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, mo.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (mo *mongoOrderWithProduct) toDomain() *domain.OrderWithProduct {
	out := &domain.OrderWithProduct{
		Order: domain.Order{
			ID:         mo.ID.Hex(),
			UserID:     mo.UserID.Hex(),
			ProductID:  mo.ProductID.Hex(),
			Quantity:   mo.Quantity,
			TotalPrice: mo.TotalPrice,
			Status:     domain.OrderStatus(mo.Status),
			CreatedAt:  mo.CreatedAt,
		},
	}
	if mo.Product != nil {
		out.Product = &domain.ProductSnapshot{
			ID:    mo.Product.ID.Hex(),
			Name:  mo.Product.Name,
			Price: mo.Product.Price,
		}
	}
	return out
}

// EnsureIndexes creates the order lookup index.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return err
}
