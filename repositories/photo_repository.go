// repositories/photo_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rwahyudi/galeri_backend/models"
)

// PhotoRepository stores gallery photos and their moderation state.
type PhotoRepository struct {
	collection *mongo.Collection
}

func NewPhotoRepository(db *mongo.Database) *PhotoRepository {
	return &PhotoRepository{
		collection: db.Collection("photos"),
	}
}

func (r *PhotoRepository) Create(ctx context.Context, p *models.Photo) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, p)
	return err
}

func (r *PhotoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var photo models.Photo
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&photo)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrPhotoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) ListByStatus(ctx context.Context, status string) ([]models.Photo, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *PhotoRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Photo, error) {
	return r.list(ctx, bson.M{"ownerId": ownerID})
}

func (r *PhotoRepository) list(ctx context.Context, filter bson.M) ([]models.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var photos []models.Photo
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// UpdateStatus moves a photo between moderation states with a conditional
// update; the loser of a racing double-decision gets ErrInvalidTransition.
func (r *PhotoRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrPhotoNotFound
	}
	return nil
}
