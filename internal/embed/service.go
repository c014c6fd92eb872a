// Package embed resolves product links to display metadata through a
// persistent one-entry-per-link cache backed by the document store.
package embed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/metrics"
)

const upsertTimeout = 5 * time.Second

// Service implements fetch-or-reuse embed resolution: cached entries
// are returned as stored, misses trigger a live resolve whose
// normalized result is written back in the background.
type Service struct {
	store    domain.EmbedCacheRepository
	resolver domain.Resolver
}

var _ domain.EmbedResolver = (*Service)(nil)

func NewService(store domain.EmbedCacheRepository, resolver domain.Resolver) *Service {
	return &Service{store: store, resolver: resolver}
}

// Resolve returns display metadata for a link. It never fails: store
// problems degrade to the live-resolve path, resolver problems degrade
// to an empty embed, and the requested link stands in for a missing
// link and title.
func (s *Service) Resolve(ctx context.Context, link, locale string) domain.Embed {
	cached, err := s.store.FindByLink(ctx, link)
	if err == nil {
		metrics.EmbedCacheHits.Inc()
		return cached.Display(link)
	}
	if !errors.Is(err, domain.ErrEmbedNotFound) {
		slog.Warn("Embed cache lookup failed, resolving live", "link", link, "error", err)
	}
	metrics.EmbedCacheMisses.Inc()

	result, err := s.resolver.Fetch(ctx, link, locale)
	if err != nil {
		slog.Warn("Resolver failed, degrading to empty embed", "link", link, "error", err)
		metrics.ResolverFailures.Inc()
		result = domain.EmbedResult{}
	}

	normalized := result.Normalized()

	entry := normalized
	if entry.Link == "" {
		// The cache key doubles as the stored link when the resolver
		// produced no canonical one.
		entry.Link = link
	}

	// Best-effort background write, deliberately not awaited: two
	// concurrent misses for the same link both resolve and both
	// upsert, last writer wins. No coalescing.
	go s.persist(link, entry)

	return normalized.Display(link)
}

func (s *Service) persist(link string, entry domain.Embed) {
	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()

	if err := s.store.Upsert(ctx, link, entry); err != nil {
		slog.Warn("Embed cache upsert failed", "link", link, "error", err)
		metrics.EmbedCacheUpsertFailures.Inc()
	}
}
