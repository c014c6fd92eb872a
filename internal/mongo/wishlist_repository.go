package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/robog-two/wishlily-db/internal/domain"
)

type wishlistDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	UserID string             `bson:"userId"`
}

// WishlistRepo implements domain.WishlistRepository backed by the
// user_wishlists collection.
type WishlistRepo struct {
	collection *mongo.Collection
}

// NewWishlistRepo creates a WishlistRepo from the shared DB.
func NewWishlistRepo(db *DB) *WishlistRepo {
	return &WishlistRepo{collection: db.database.Collection("user_wishlists")}
}

var _ domain.WishlistRepository = (*WishlistRepo)(nil)

// Exists reports whether a wishlist document with that ID is present
// and owned by anyone. A malformed ID is simply a missing wishlist.
func (r *WishlistRepo) Exists(ctx context.Context, wishlistID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(wishlistID)
	if err != nil {
		return false, nil
	}

	var doc wishlistDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find wishlist: %w", err)
	}
	return doc.UserID != "", nil
}
