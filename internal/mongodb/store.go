// Package mongodb implements the unit record store on MongoDB. Records live
// in one collection keyed by (building_name, unit_number); owner entries are
// an embedded array mutated with $push and positional $addToSet so repeated
// imports stay idempotent at the document level.
package mongodb

import (
	"context"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/logging"
	"github.com/unitbook/unitbook/pkg/store"
	"github.com/unitbook/unitbook/pkg/units"
)

const connectTimeout = 10 * time.Second

// Store is a MongoDB-backed store.Store.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Ensure the interface stays satisfied.
var _ store.Store = (*Store)(nil)

// Connect dials MongoDB and returns a Store over the given database and
// collection. The connection is verified with a ping so an unreachable store
// fails the run up front rather than mid-import.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	if uri == "" {
		return nil, errors.NewConfigError("mongodb", "connection URI is required", nil)
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.WrapStore("connect", "", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.WrapStore("connect", "", err)
	}

	logging.FromContext(ctx).Debug().
		Str("database", database).
		Str("collection", collection).
		Msg("Connected to MongoDB")

	return &Store{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes implements store.Store.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: units.FieldBuildingName, Value: 1}, {Key: units.FieldUnitNumber, Value: 1}}},
		{Keys: bson.D{{Key: "owners.owner_name", Value: 1}}},
		{Keys: bson.D{{Key: "owners.contacts", Value: 1}}},
		{Keys: bson.D{{Key: "owners.registration_date", Value: 1}}},
		{Keys: bson.D{{Key: units.FieldMunicipalityNumber, Value: 1}}},
		{Keys: bson.D{{Key: units.FieldMunicipalitySubNumber, Value: 1}}},
	}

	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return errors.WrapStore("index", "", err)
	}
	return nil
}

// Seed implements store.Store.
func (s *Store) Seed(ctx context.Context) ([]units.Projection, error) {
	projection := bson.M{
		units.FieldBuildingName: 1,
		units.FieldUnitNumber:   1,
		units.FieldOwners:       1,
	}

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, errors.WrapStore("seed", "", err)
	}
	defer cursor.Close(ctx)

	var projections []units.Projection
	if err := cursor.All(ctx, &projections); err != nil {
		return nil, errors.WrapStore("seed", "", err)
	}
	return projections, nil
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, unit *units.Unit) error {
	if _, err := s.collection.InsertOne(ctx, unit); err != nil {
		return errors.WrapStore("insert", unit.Key().String(), err)
	}
	return nil
}

// keyFilter selects the single document for a unit identity.
func keyFilter(key units.Key) bson.M {
	return bson.M{
		units.FieldBuildingName: key.Building,
		units.FieldUnitNumber:   key.UnitNumber,
	}
}

// SetFields implements store.Store.
func (s *Store) SetFields(ctx context.Context, key units.Key, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	set := make(bson.M, len(patch))
	for field, value := range patch {
		set[field] = value
	}

	if _, err := s.collection.UpdateOne(ctx, keyFilter(key), bson.M{"$set": set}); err != nil {
		return errors.WrapStore("update", key.String(), err)
	}
	return nil
}

// AppendOwner implements store.Store.
func (s *Store) AppendOwner(ctx context.Context, key units.Key, owner units.Owner) error {
	update := bson.M{"$push": bson.M{units.FieldOwners: owner}}
	if _, err := s.collection.UpdateOne(ctx, keyFilter(key), update); err != nil {
		return errors.WrapStore("update", key.String(), err)
	}
	return nil
}

// MergeContacts implements store.Store.
func (s *Store) MergeContacts(ctx context.Context, key units.Key, name, role, date string, numbers []string) error {
	if len(numbers) == 0 {
		return nil
	}

	filter := keyFilter(key)
	filter["owners.owner_name"] = name
	filter["owners.role"] = role
	filter["owners.registration_date"] = date

	update := bson.M{
		"$addToSet": bson.M{
			"owners.$.contacts": bson.M{"$each": numbers},
		},
	}

	if _, err := s.collection.UpdateOne(ctx, filter, update); err != nil {
		return errors.WrapStore("update", key.String(), err)
	}
	return nil
}

// Find implements store.Store.
func (s *Store) Find(ctx context.Context, query store.Query) ([]units.Unit, int64, error) {
	q := query.Normalize()
	filter := buildFilter(q)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.WrapStore("find", "", err)
	}

	direction := -1
	if q.Order == store.SortAsc {
		direction = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: direction}}).
		SetSkip(int64((q.Page - 1) * q.PerPage)).
		SetLimit(int64(q.PerPage))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.WrapStore("find", "", err)
	}
	defer cursor.Close(ctx)

	var results []units.Unit
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, errors.WrapStore("find", "", err)
	}
	return results, total, nil
}

// buildFilter translates a store.Query into a Mongo filter document.
func buildFilter(q store.Query) bson.M {
	filter := bson.M{}

	if q.Search != "" {
		rx := bson.M{"$regex": q.Search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{units.FieldBuildingName: rx},
			bson.M{units.FieldCommunity: rx},
			bson.M{"owners.owner_name": rx},
			bson.M{"owners.contacts": rx},
		}
	}

	exact := map[string]string{
		units.FieldPropertyType:          q.PropertyType,
		units.FieldSubType:               q.SubType,
		units.FieldCity:                  q.City,
		units.FieldMunicipalityNumber:    q.MunicipalityNumber,
		units.FieldMunicipalitySubNumber: q.MunicipalitySubNumber,
	}
	for field, value := range exact {
		if value != "" {
			filter[field] = value
		}
	}
	if q.Beds != nil {
		filter[units.FieldBeds] = *q.Beds
	}

	if rng := rangeFilter(q.MinArea, q.MaxArea); rng != nil {
		filter[units.FieldAreaSqft] = rng
	}
	if rng := rangeFilter(q.MinPrice, q.MaxPrice); rng != nil {
		filter[units.FieldPrice] = rng
	}

	return filter
}

func rangeFilter(min, max *float64) bson.M {
	if min == nil && max == nil {
		return nil
	}
	rng := bson.M{}
	if min != nil {
		rng["$gte"] = *min
	}
	if max != nil {
		rng["$lte"] = *max
	}
	return rng
}

// Distinct implements store.Store. Values are cleaned of empties and sorted
// with an English collator so dropdown lists read naturally.
func (s *Store) Distinct(ctx context.Context, field string) ([]string, error) {
	raw, err := s.collection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, errors.WrapStore("distinct", "", err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		switch value := v.(type) {
		case string:
			if value != "" {
				values = append(values, value)
			}
		case float64:
			values = append(values, strconv.FormatFloat(value, 'f', -1, 64))
		case int32:
			values = append(values, strconv.Itoa(int(value)))
		case int64:
			values = append(values, strconv.FormatInt(value, 10))
		}
	}

	collate.New(language.English, collate.Numeric).SortStrings(values)
	return values, nil
}
