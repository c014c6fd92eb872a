package domain

import "context"

// WishRepository is the wishes collection. FindByID and SetEmbed filter
// on (wishID, wishlistID) so a wish cannot be read or patched through a
// foreign wishlist.
type WishRepository interface {
	FindByID(ctx context.Context, wishID, wishlistID string) (Wish, error)
	Insert(ctx context.Context, wish Wish) (string, error)
	SetEmbed(ctx context.Context, wishID, wishlistID string, embed Embed) error
	Delete(ctx context.Context, userID, wishlistID, wishID string) error
	DeleteAll(ctx context.Context, userID, wishlistID string) error
	List(ctx context.Context, userID, wishlistID string) ([]Wish, error)
}

// EmbedCacheRepository is the per-link embed cache collection. Entries
// are keyed by the requested link, not the resolver's canonical one.
type EmbedCacheRepository interface {
	FindByLink(ctx context.Context, link string) (Embed, error)
	Upsert(ctx context.Context, link string, embed Embed) error
}

// UserRepository exposes the single lookup the wish flows need.
type UserRepository interface {
	GetKey(ctx context.Context, userID string) (string, error)
}

// WishlistRepository exposes the existence check the wish flows need.
type WishlistRepository interface {
	Exists(ctx context.Context, wishlistID string) (bool, error)
}

// Resolver is the external product-metadata service.
type Resolver interface {
	Fetch(ctx context.Context, link, locale string) (EmbedResult, error)
}

// EmbedResolver is the fetch-or-reuse embed cache. It never fails:
// resolver and store problems degrade to an empty embed with the raw
// link as display fallback.
type EmbedResolver interface {
	Resolve(ctx context.Context, link, locale string) Embed
}

// Broadcaster fans a message out to every connection registered under a
// channel. Delivery is best effort.
type Broadcaster interface {
	Send(channel Channel, message any)
}

// WishService is the wish CRUD surface the HTTP handlers call.
type WishService interface {
	AddWish(ctx context.Context, userID, userKey, wishlistID, link string) (Wish, error)
	DeleteWish(ctx context.Context, userID, userKey, wishlistID, wishID string) error
	DeleteAllWishes(ctx context.Context, userID, userKey, wishlistID string) error
	ListWishes(ctx context.Context, userID, wishlistID string) ([]Wish, error)
}
