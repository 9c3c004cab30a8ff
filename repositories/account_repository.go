// repositories/account_repository.go
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

const queryTimeout = 10 * time.Second

// AccountRepository is the Mongo-backed account store. Accounts live in the
// users collection with a unique index on phone.
type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		collection: db.Collection("users"),
	}
}

func (r *AccountRepository) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrPhoneTaken
	}
	return err
}

func (r *AccountRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AccountRepository) ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateStatus applies a status transition as a single conditional update.
// The filter pins the current status, so two racing transitions cannot both
// win; the loser gets models.ErrInvalidTransition.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.AccountStatus) error {
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

func (r *AccountRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, bio string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"fullName": fullName, "bio": bio, "updatedAt": time.Now()}},
	)
	return err
}

func (r *AccountRepository) UpdateProfilePic(ctx context.Context, id primitive.ObjectID, path string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"profilePic": path, "updatedAt": time.Now()}},
	)
	return err
}

func (r *AccountRepository) GrantAdmin(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": models.RoleAdmin, "status": models.StatusActive, "updatedAt": time.Now()}},
	)
	return err
}
