package server

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/robog-two/wishlily-db/internal/config"
	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/hub"
	"github.com/robog-two/wishlily-db/internal/protocol"
)

const (
	testUserID     = "11111111-2222-3333-4444-555555555555"
	testUserKey    = "secret-key"
	testWishlistID = "0123456789abcdef01234567"
	testWishID     = "fedcba987654321001234567"
)

// mockWishService records calls and returns canned results.
type mockWishService struct {
	addResult      domain.Wish
	addErr         error
	deleteErr      error
	deleteAllErr   error
	listResult     []domain.Wish
	listErr        error
	addCalls       int
	deleteCalls    int
	deleteAllCalls int
	listCalls      int
	lastUserID     string
	lastUserKey    string
	lastWishlist   string
	lastLink       string
	lastWishID     string
}

func (m *mockWishService) AddWish(_ context.Context, userID, userKey, wishlistID, link string) (domain.Wish, error) {
	m.addCalls++
	m.lastUserID, m.lastUserKey, m.lastWishlist, m.lastLink = userID, userKey, wishlistID, link
	return m.addResult, m.addErr
}

func (m *mockWishService) DeleteWish(_ context.Context, userID, userKey, wishlistID, wishID string) error {
	m.deleteCalls++
	m.lastUserID, m.lastUserKey, m.lastWishlist, m.lastWishID = userID, userKey, wishlistID, wishID
	return m.deleteErr
}

func (m *mockWishService) DeleteAllWishes(_ context.Context, userID, userKey, wishlistID string) error {
	m.deleteAllCalls++
	m.lastUserID, m.lastUserKey, m.lastWishlist = userID, userKey, wishlistID
	return m.deleteAllErr
}

func (m *mockWishService) ListWishes(_ context.Context, userID, wishlistID string) ([]domain.Wish, error) {
	m.listCalls++
	m.lastUserID, m.lastWishlist = userID, wishlistID
	return m.listResult, m.listErr
}

type mockStoreHealth struct {
	err error
}

func (m *mockStoreHealth) HealthCheck(_ context.Context) error {
	return m.err
}

type testServerOption func(*Server)

func withStoreHealth(checker storeHealthChecker) testServerOption {
	return func(s *Server) { s.store = checker }
}

func withAppEnv(env string) testServerOption {
	return func(s *Server) { s.config.AppEnv = env }
}

func newTestServer(t *testing.T, app domain.WishService, opts ...testServerOption) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:      "test",
		Port:        "0",
		ImageCDNURL: "https://imagecdn.app",
	}

	clock := clockwork.NewRealClock()
	h := hub.NewHub(clock)
	t.Cleanup(h.Stop)

	handler := protocol.NewHandler(h, nopReconciler{})

	srv := NewServer(cfg, app, h, handler, &mockStoreHealth{}, clock)
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

type nopReconciler struct{}

func (nopReconciler) Reconcile(_ context.Context, _, _, _ string) error { return nil }
