package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	defaultUsersCollection    = "users"
	defaultProductsCollection = "products"
	mongoOpTimeout            = 3 * time.Second
)

type userDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Email string             `bson:"email"`
}

type productDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Title string             `bson:"title"`
}

// MongoDirectory читает покупателей и товары из коллекций users и products.
type MongoDirectory struct {
	users    *mongo.Collection
	products *mongo.Collection
}

// NewMongoDirectory создаёт справочник поверх базы MongoDB.
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{
		users:    db.Collection(defaultUsersCollection),
		products: db.Collection(defaultProductsCollection),
	}
}

// Connect подключается к MongoDB и проверяет доступность сервера.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (d *MongoDirectory) LookupCustomer(ctx context.Context, id string) (domain.Customer, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var doc userDocument
	opts := options.FindOne().SetProjection(bson.D{{Key: "email", Value: 1}})
	if err := d.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("find user: %w", err)
	}

	return domain.Customer{ID: doc.ID.Hex(), Email: doc.Email}, nil
}

func (d *MongoDirectory) LookupProduct(ctx context.Context, id string) (domain.Product, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var doc productDocument
	opts := options.FindOne().SetProjection(bson.D{{Key: "title", Value: 1}})
	if err := d.products.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("find product: %w", err)
	}

	return domain.Product{ID: doc.ID.Hex(), Title: doc.Title}, nil
}

// parseObjectID: идентификатор не в формате ObjectID заведомо не существует.
func parseObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

var (
	_ domain.CustomerDirectory = (*MongoDirectory)(nil)
	_ domain.ProductCatalog    = (*MongoDirectory)(nil)
)
