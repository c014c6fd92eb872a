package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/robog-two/wishlily-db/internal/domain"
)

type userDoc struct {
	UserID  string `bson:"userId"`
	UserKey string `bson:"userKey"`
}

// UserRepo implements domain.UserRepository backed by the users
// collection.
type UserRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a UserRepo from the shared DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{collection: db.database.Collection("users")}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) GetKey(ctx context.Context, userID string) (string, error) {
	var doc userDoc
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", domain.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	return doc.UserKey, nil
}
