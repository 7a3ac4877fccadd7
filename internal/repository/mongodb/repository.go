package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/repository"
)

const trayCollection = "trays"

// Repository implements repository.TrayStore backed by MongoDB.
type Repository struct {
	client *mongo.Client
	dbName string
}

// NewRepository connects to MongoDB, verifies the connection and ensures the
// slot-uniqueness index exists.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &Repository{client: client, dbName: dbName}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// ensureIndexes creates a partial unique index so two active trays can never
// occupy the same (door, row, position) slot, even under concurrent inserts.
func (r *Repository) ensureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "door", Value: 1},
			{Key: "row", Value: 1},
			{Key: "position", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"removed": false}),
	}

	if _, err := r.collection().Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create slot index: %w", err)
	}
	return nil
}

func (r *Repository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(trayCollection)
}

// Insert stores a new tray record. A duplicate-key rejection from the slot
// index surfaces as a SlotConflictError.
func (r *Repository) Insert(ctx context.Context, tray models.Tray) (models.Tray, error) {
	if _, err := r.collection().InsertOne(ctx, tray); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Tray{}, &models.SlotConflictError{Slot: tray.Slot()}
		}
		return models.Tray{}, fmt.Errorf("failed to insert tray: %w", err)
	}
	return tray, nil
}

// FindOne returns the first tray matching the filter.
func (r *Repository) FindOne(ctx context.Context, filter repository.Filter) (models.Tray, error) {
	var tray models.Tray
	err := r.collection().FindOne(ctx, buildFilter(filter)).Decode(&tray)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Tray{}, models.ErrTrayNotFound
		}
		return models.Tray{}, fmt.Errorf("failed to find tray: %w", err)
	}
	return tray, nil
}

// FindMany returns all trays matching the filter in the requested order.
func (r *Repository) FindMany(ctx context.Context, filter repository.Filter, order repository.Sort) ([]models.Tray, error) {
	findOptions := options.Find()
	switch order {
	case repository.SortAddedAsc:
		findOptions.SetSort(bson.D{{Key: "added_date", Value: 1}})
	case repository.SortAddedDesc:
		findOptions.SetSort(bson.D{{Key: "added_date", Value: -1}})
	}

	cursor, err := r.collection().Find(ctx, buildFilter(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query trays: %w", err)
	}
	defer cursor.Close(ctx)

	trays := make([]models.Tray, 0)
	if err := cursor.All(ctx, &trays); err != nil {
		return nil, fmt.Errorf("failed to decode trays: %w", err)
	}
	return trays, nil
}

// FindByID returns the tray with the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (models.Tray, error) {
	var tray models.Tray
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&tray)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Tray{}, models.ErrTrayNotFound
		}
		return models.Tray{}, fmt.Errorf("failed to find tray %s: %w", id, err)
	}
	return tray, nil
}

// UpdateByID applies the non-nil update fields and returns the new record.
func (r *Repository) UpdateByID(ctx context.Context, id string, update repository.Update) (models.Tray, error) {
	set := bson.M{}
	if update.Removed != nil {
		set["removed"] = *update.Removed
	}
	if update.RemovedDate != nil {
		set["removed_date"] = *update.RemovedDate
	}
	if update.NotificationSent != nil {
		set["notification_sent"] = *update.NotificationSent
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	// An empty $set document is rejected by the server; $currentDate alone
	// still bumps updated_at for a no-op patch.
	updateDoc := bson.M{"$currentDate": bson.M{"updated_at": true}}
	if len(set) > 0 {
		updateDoc["$set"] = set
	}

	var tray models.Tray
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		updateDoc,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tray)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Tray{}, models.ErrTrayNotFound
		}
		return models.Tray{}, fmt.Errorf("failed to update tray %s: %w", id, err)
	}
	return tray, nil
}

// DeleteByID removes the tray with the given id.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete tray %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrTrayNotFound
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func buildFilter(filter repository.Filter) bson.M {
	query := bson.M{}
	if filter.Slot != nil {
		query["door"] = filter.Slot.Door
		query["row"] = filter.Slot.Row
		query["position"] = filter.Slot.Position
	}
	if filter.Removed != nil {
		query["removed"] = *filter.Removed
	}
	if filter.NotificationSent != nil {
		query["notification_sent"] = *filter.NotificationSent
	}
	if filter.AddedBefore != nil {
		query["added_date"] = bson.M{"$lte": *filter.AddedBefore}
	}
	return query
}
