package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

const productCounterID = "productid"

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	client   *mongo.Client
	products *mongo.Collection
	users    *mongo.Collection
	counters *mongo.Collection
}

// ConnectMongo connects to MongoDB, pings it, and prepares indexes and the
// product id counter.
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	m := &Mongo{
		client:   client,
		products: db.Collection("products"),
		users:    db.Collection("users"),
		counters: db.Collection("counters"),
	}
	if err := m.ensure(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Disconnect closes the underlying client.
func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) ensure(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user email index: %w", err)
	}
	_, err = m.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create product id index: %w", err)
	}
	return m.seedProductCounter(ctx)
}

// seedProductCounter initializes the id sequence from the highest existing
// product id, or 39 so the first assigned id is 40. A no-op when the counter
// already exists.
func (m *Mongo) seedProductCounter(ctx context.Context) error {
	seed := 39
	var last models.Product
	err := m.products.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	switch {
	case err == nil:
		if last.ID > seed {
			seed = last.ID
		}
	case errors.Is(err, mongo.ErrNoDocuments):
	default:
		return fmt.Errorf("find max product id: %w", err)
	}

	_, err = m.counters.UpdateOne(ctx,
		bson.M{"_id": productCounterID},
		bson.M{"$setOnInsert": bson.M{"seq": seed}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("seed product counter: %w", err)
	}
	return nil
}

// WithTransaction runs fn inside a Mongo session transaction; store calls made
// with the callback's context join it.
func (m *Mongo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// ----- Products -----

func (m *Mongo) AllProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := m.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *Mongo) ProductByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := m.products.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Mongo) InsertProduct(ctx context.Context, p *models.Product) error {
	_, err := m.products.InsertOne(ctx, p)
	return err
}

func (m *Mongo) DeleteProduct(ctx context.Context, id int) error {
	_, err := m.products.DeleteOne(ctx, bson.M{"id": id})
	return err
}

func (m *Mongo) UpdateProduct(ctx context.Context, id int, u ProductUpdate) (*models.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":      u.Name,
		"old_price": u.OldPrice,
		"new_price": u.NewPrice,
		"category":  u.Category,
	}}
	return m.findOneAndUpdate(ctx, id, update)
}

func (m *Mongo) SetPopular(ctx context.Context, id int, popular bool) (*models.Product, error) {
	return m.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"popular": popular}})
}

func (m *Mongo) SetQuantity(ctx context.Context, id, quantity int) (*models.Product, error) {
	return m.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"quantity": quantity}})
}

func (m *Mongo) findOneAndUpdate(ctx context.Context, id int, update bson.M) (*models.Product, error) {
	var p models.Product
	err := m.products.FindOneAndUpdate(ctx, bson.M{"id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Mongo) SetAllPopular(ctx context.Context, popular bool) (int64, error) {
	res, err := m.products.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"popular": popular}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *Mongo) SetAllQuantity(ctx context.Context, quantity int) (int64, error) {
	res, err := m.products.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"quantity": quantity}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *Mongo) NewestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	cursor, err := m.products.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *Mongo) PopularProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := m.products.Find(ctx, bson.M{"popular": true})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *Mongo) NextProductID(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": productCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Counter lost (e.g. dropped collection): reseed and retry once.
		if err := m.seedProductCounter(ctx); err != nil {
			return 0, err
		}
		err = m.counters.FindOneAndUpdate(ctx,
			bson.M{"_id": productCounterID},
			bson.M{"$inc": bson.M{"seq": 1}},
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&counter)
	}
	if err != nil {
		return 0, fmt.Errorf("next product id: %w", err)
	}
	return counter.Seq, nil
}

func (m *Mongo) AdjustStock(ctx context.Context, id, delta int) error {
	filter := bson.M{"id": id}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	res, err := m.products.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"quantity": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, err := m.products.CountDocuments(ctx, bson.M{"id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// ----- Users -----

func (m *Mongo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *Mongo) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := m.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *Mongo) InsertUser(ctx context.Context, u *models.User) error {
	res, err := m.users.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (m *Mongo) UpdateProfile(ctx context.Context, currentEmail, name, address, email string) (*models.User, error) {
	var u models.User
	err := m.users.FindOneAndUpdate(ctx,
		bson.M{"email": currentEmail},
		bson.M{"$set": bson.M{"name": name, "address": address, "email": email}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *Mongo) AllUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := m.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m *Mongo) SetCartQuantity(ctx context.Context, email, productID string, quantity int) error {
	res, err := m.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"cart." + productID: quantity}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (m *Mongo) RemoveCartEntry(ctx context.Context, email, productID string) error {
	res, err := m.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$unset": bson.M{"cart." + productID: ""}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
