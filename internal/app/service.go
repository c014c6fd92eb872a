package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/protocol"
)

// Service implements the wish flows. Every mutation broadcasts a
// reload hint to the wishlist's channel so other live viewers re-fetch.
type Service struct {
	wishes      domain.WishRepository
	users       domain.UserRepository
	wishlists   domain.WishlistRepository
	embeds      domain.EmbedResolver
	broadcaster domain.Broadcaster
	imageCDNURL string
	locale      string
}

var _ domain.WishService = (*Service)(nil)

func NewService(
	wishes domain.WishRepository,
	users domain.UserRepository,
	wishlists domain.WishlistRepository,
	embeds domain.EmbedResolver,
	broadcaster domain.Broadcaster,
	imageCDNURL string,
	locale string,
) *Service {
	return &Service{
		wishes:      wishes,
		users:       users,
		wishlists:   wishlists,
		embeds:      embeds,
		broadcaster: broadcaster,
		imageCDNURL: imageCDNURL,
		locale:      locale,
	}
}

// AddWish resolves the link through the embed cache and inserts the
// wish with the resolved display snapshot. The cover is routed through
// the image CDN so clients get a uniformly sized webp.
func (s *Service) AddWish(ctx context.Context, userID, userKey, wishlistID, link string) (domain.Wish, error) {
	if err := s.authorize(ctx, userID, userKey, wishlistID); err != nil {
		return domain.Wish{}, err
	}

	embed := s.embeds.Resolve(ctx, link, s.locale)
	embed.Cover = coverURL(s.imageCDNURL, embed.Cover)

	wish := domain.Wish{
		UserID:     userID,
		WishlistID: wishlistID,
		Embed:      embed,
	}

	id, err := s.wishes.Insert(ctx, wish)
	if err != nil {
		return domain.Wish{}, fmt.Errorf("insert wish: %w", err)
	}
	wish.ID = id

	s.broadcaster.Send(domain.Channel{UserID: userID, WishlistID: wishlistID}, protocol.NewReloadEvent())

	return wish, nil
}

// DeleteWish removes one wish and hints viewers to reload.
func (s *Service) DeleteWish(ctx context.Context, userID, userKey, wishlistID, wishID string) error {
	if err := s.authorize(ctx, userID, userKey, wishlistID); err != nil {
		return err
	}

	if err := s.wishes.Delete(ctx, userID, wishlistID, wishID); err != nil {
		return fmt.Errorf("delete wish: %w", err)
	}

	s.broadcaster.Send(domain.Channel{UserID: userID, WishlistID: wishlistID}, protocol.NewReloadEvent())

	return nil
}

// DeleteAllWishes clears a wishlist's wishes in one pass.
func (s *Service) DeleteAllWishes(ctx context.Context, userID, userKey, wishlistID string) error {
	if err := s.authorize(ctx, userID, userKey, wishlistID); err != nil {
		return err
	}

	if err := s.wishes.DeleteAll(ctx, userID, wishlistID); err != nil {
		return fmt.Errorf("delete wishes: %w", err)
	}

	s.broadcaster.Send(domain.Channel{UserID: userID, WishlistID: wishlistID}, protocol.NewReloadEvent())

	return nil
}

// ListWishes returns the display projection of a wishlist's wishes.
// Store failures list as empty rather than erroring, matching the
// degraded-metadata-over-error principle of the read path.
func (s *Service) ListWishes(ctx context.Context, userID, wishlistID string) ([]domain.Wish, error) {
	exists, err := s.wishlists.Exists(ctx, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("check wishlist: %w", err)
	}
	if !exists {
		return nil, domain.ErrWishlistNotFound
	}

	wishes, err := s.wishes.List(ctx, userID, wishlistID)
	if err != nil {
		slog.Warn("Listing wishes failed, returning empty list",
			"user_id", userID, "wishlist_id", wishlistID, "error", err)
		return []domain.Wish{}, nil
	}
	return wishes, nil
}

func (s *Service) authorize(ctx context.Context, userID, userKey, wishlistID string) error {
	exists, err := s.wishlists.Exists(ctx, wishlistID)
	if err != nil {
		return fmt.Errorf("check wishlist: %w", err)
	}
	if !exists {
		return domain.ErrWishlistNotFound
	}

	storedKey, err := s.users.GetKey(ctx, userID)
	if err != nil {
		return err
	}
	if storedKey == "" || storedKey != userKey {
		return domain.ErrKeyMismatch
	}

	return nil
}

// coverURL routes a cover image through the image CDN so every client
// sees the same 400x200 webp. An empty cover stays empty. Both the add
// flow and the reconciler must use this so their persisted covers
// compare equal.
func coverURL(cdnBase, cover string) string {
	if cover == "" {
		return ""
	}
	return fmt.Sprintf("%s/v2/image/%s?width=400&height=200&format=webp&fit=cover",
		cdnBase, url.QueryEscape(cover))
}
