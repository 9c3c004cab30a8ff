// repositories/challenge_repository.go
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rwahyudi/galeri_backend/models"
)

// ChallengeRepository stores the single outstanding OTP challenge per phone
// number in the otp_challenges collection (unique index on phone, TTL index
// on expiresAt). All conditional operations key on {phone, version} so that a
// reissue racing a verification leaves exactly one winner.
type ChallengeRepository struct {
	collection *mongo.Collection
}

func NewChallengeRepository(db *mongo.Database) *ChallengeRepository {
	return &ChallengeRepository{
		collection: db.Collection("otp_challenges"),
	}
}

// Replace upserts the challenge for its phone number, discarding any prior
// one in the same write.
func (r *ChallengeRepository) Replace(ctx context.Context, ch *models.OTPChallenge) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"phone": ch.Phone}, ch, opts)
	return err
}

func (r *ChallengeRepository) Find(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ch models.OTPChallenge
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&ch)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNoActiveChallenge
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// Consume deletes the challenge iff its version still matches. A false return
// with nil error means another issuance replaced the challenge first.
func (r *ChallengeRepository) Consume(ctx context.Context, phone, version string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"phone": phone, "version": version})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

// IncrementAttempts bumps the failure counter iff the version still matches
// and returns the new count. A challenge replaced mid-flight reports 0 without
// error; the failed attempt belongs to a code that no longer exists.
func (r *ChallengeRepository) IncrementAttempts(ctx context.Context, phone, version string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ch models.OTPChallenge
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"phone": phone, "version": version},
		bson.M{"$inc": bson.M{"attempts": 1}},
		opts,
	).Decode(&ch)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ch.Attempts, nil
}
