package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/robog-two/wishlily-db/internal/domain"
)

// embedDoc is the embeds collection document. The lookup key is the
// link a caller originally requested, which is why the key lives next
// to the cached (possibly canonicalized) embed link.
type embedDoc struct {
	Key   string `bson:"key"`
	Link  string `bson:"link,omitempty"`
	Title string `bson:"title,omitempty"`
	Price string `bson:"price,omitempty"`
	Cover string `bson:"cover,omitempty"`
}

// EmbedRepo implements domain.EmbedCacheRepository backed by the embeds
// collection.
type EmbedRepo struct {
	collection *mongo.Collection
}

// NewEmbedRepo creates an EmbedRepo from the shared DB.
func NewEmbedRepo(db *DB) *EmbedRepo {
	return &EmbedRepo{collection: db.database.Collection("embeds")}
}

var _ domain.EmbedCacheRepository = (*EmbedRepo)(nil)

func (r *EmbedRepo) FindByLink(ctx context.Context, link string) (domain.Embed, error) {
	var doc embedDoc
	err := r.collection.FindOne(ctx, bson.M{"key": link}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Embed{}, domain.ErrEmbedNotFound
	}
	if err != nil {
		return domain.Embed{}, fmt.Errorf("failed to find embed: %w", err)
	}

	return domain.Embed{
		Link:  doc.Link,
		Title: doc.Title,
		Price: doc.Price,
		Cover: doc.Cover,
	}, nil
}

// Upsert writes the full entry under the requested link. Concurrent
// writers for the same link race and the last one wins.
func (r *EmbedRepo) Upsert(ctx context.Context, link string, embed domain.Embed) error {
	update := bson.M{"$set": bson.M{
		"link":  embed.Link,
		"title": embed.Title,
		"price": embed.Price,
		"cover": embed.Cover,
	}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"key": link}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert embed: %w", err)
	}
	return nil
}
