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

// wishDoc is the wishes collection document. Embed fields are flattened
// into the document the way the wire protocol flattens them.
type wishDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"userId"`
	WishlistID string             `bson:"wishlistId"`
	Title      string             `bson:"title,omitempty"`
	Link       string             `bson:"link,omitempty"`
	Price      string             `bson:"price,omitempty"`
	Cover      string             `bson:"cover,omitempty"`
}

func (d wishDoc) toDomain() domain.Wish {
	return domain.Wish{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		WishlistID: d.WishlistID,
		Embed: domain.Embed{
			Title: d.Title,
			Link:  d.Link,
			Price: d.Price,
			Cover: d.Cover,
		},
	}
}

// WishRepo implements domain.WishRepository backed by the wishes
// collection.
type WishRepo struct {
	collection *mongo.Collection
}

// NewWishRepo creates a WishRepo from the shared DB.
func NewWishRepo(db *DB) *WishRepo {
	return &WishRepo{collection: db.database.Collection("wishes")}
}

var _ domain.WishRepository = (*WishRepo)(nil)

// FindByID filters on both the wish ID and the wishlist ID so a wish
// cannot be read through a foreign wishlist.
func (r *WishRepo) FindByID(ctx context.Context, wishID, wishlistID string) (domain.Wish, error) {
	oid, err := primitive.ObjectIDFromHex(wishID)
	if err != nil {
		return domain.Wish{}, domain.ErrWishNotFound
	}

	var doc wishDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "wishlistId": wishlistID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Wish{}, domain.ErrWishNotFound
	}
	if err != nil {
		return domain.Wish{}, fmt.Errorf("failed to find wish: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *WishRepo) Insert(ctx context.Context, wish domain.Wish) (string, error) {
	doc := wishDoc{
		UserID:     wish.UserID,
		WishlistID: wish.WishlistID,
		Title:      wish.Title,
		Link:       wish.Link,
		Price:      wish.Price,
		Cover:      wish.Cover,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert wish: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// SetEmbed replaces the display snapshot of one wish. Empty fields are
// written as empty strings rather than unset so a shrunk embed does not
// leave stale values behind.
func (r *WishRepo) SetEmbed(ctx context.Context, wishID, wishlistID string, embed domain.Embed) error {
	oid, err := primitive.ObjectIDFromHex(wishID)
	if err != nil {
		return domain.ErrWishNotFound
	}

	update := bson.M{"$set": bson.M{
		"title": embed.Title,
		"link":  embed.Link,
		"price": embed.Price,
		"cover": embed.Cover,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "wishlistId": wishlistID}, update)
	if err != nil {
		return fmt.Errorf("failed to update wish embed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrWishNotFound
	}
	return nil
}

func (r *WishRepo) Delete(ctx context.Context, userID, wishlistID, wishID string) error {
	oid, err := primitive.ObjectIDFromHex(wishID)
	if err != nil {
		return domain.ErrWishNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID, "wishlistId": wishlistID})
	if err != nil {
		return fmt.Errorf("failed to delete wish: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrWishNotFound
	}
	return nil
}

func (r *WishRepo) DeleteAll(ctx context.Context, userID, wishlistID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID, "wishlistId": wishlistID})
	if err != nil {
		return fmt.Errorf("failed to delete wishes: %w", err)
	}
	return nil
}

func (r *WishRepo) List(ctx context.Context, userID, wishlistID string) ([]domain.Wish, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "wishlistId": wishlistID})
	if err != nil {
		return nil, fmt.Errorf("failed to list wishes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []wishDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode wishes: %w", err)
	}

	wishes := make([]domain.Wish, 0, len(docs))
	for _, doc := range docs {
		wishes = append(wishes, doc.toDomain())
	}
	return wishes, nil
}
