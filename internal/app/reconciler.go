package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/logging"
	"github.com/robog-two/wishlily-db/internal/metrics"
	"github.com/robog-two/wishlily-db/internal/protocol"
)

// Reconciler detects drift between a stored wish and a freshly
// resolved embed and propagates the change to every live viewer of the
// wishlist. It is invoked on demand through the upgrade action, never
// on a timer.
type Reconciler struct {
	wishes      domain.WishRepository
	resolver    domain.Resolver
	broadcaster domain.Broadcaster
	imageCDNURL string
	locale      string
}

func NewReconciler(wishes domain.WishRepository, resolver domain.Resolver, broadcaster domain.Broadcaster, imageCDNURL, locale string) *Reconciler {
	return &Reconciler{
		wishes:      wishes,
		resolver:    resolver,
		broadcaster: broadcaster,
		imageCDNURL: imageCDNURL,
		locale:      locale,
	}
}

// Reconcile re-resolves the wish's link directly against the resolver,
// bypassing the embed cache read: this path trades cached consistency
// for freshness on demand. A missing wish is a silent no-op. When any
// of title, link, price, or cover drifted, the new embed is persisted
// field-by-field and a replace-embed event goes out to the wish's
// channel; otherwise nothing is written and nothing is broadcast.
func (r *Reconciler) Reconcile(ctx context.Context, userID, wishlistID, wishID string) error {
	wish, err := r.wishes.FindByID(ctx, wishID, wishlistID)
	if errors.Is(err, domain.ErrWishNotFound) {
		metrics.ReconcileRuns.WithLabelValues("missing").Inc()
		return nil
	}
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("load wish %s: %w", wishID, err)
	}

	// Literal '}' collides with the legacy reload channel delimiter;
	// strip it before the link hits the resolver query.
	link := strings.ReplaceAll(wish.Link, "}", "")

	result, err := r.resolver.Fetch(ctx, link, r.locale)
	if err != nil {
		logging.WithWish(wishID).Warn("Resolver failed during reconcile, degrading to empty embed", "error", err)
		metrics.ResolverFailures.Inc()
		result = domain.EmbedResult{}
	}

	fresh := result.Normalized().Display(wish.Link)
	// The stored cover is CDN-wrapped by the add flow; wrap the fresh
	// one the same way or identical resolver data reads as drift.
	fresh.Cover = coverURL(r.imageCDNURL, fresh.Cover)

	if wish.Embed.Equal(fresh) {
		metrics.ReconcileRuns.WithLabelValues("clean").Inc()
		return nil
	}

	if err := r.wishes.SetEmbed(ctx, wishID, wishlistID, fresh); err != nil {
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("persist embed for wish %s: %w", wishID, err)
	}

	channel := domain.Channel{UserID: userID, WishlistID: wishlistID}
	r.broadcaster.Send(channel, protocol.NewReplaceEmbedEvent(wishID, fresh))

	metrics.ReconcileRuns.WithLabelValues("drift").Inc()
	metrics.WishDriftDetected.Inc()
	logging.WithChannel(channel).Info("Wish embed drift repaired", "wish_id", wishID)

	return nil
}
