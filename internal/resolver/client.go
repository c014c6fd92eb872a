package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/metrics"
)

// Client calls the external product resolver. Every call runs through
// a circuit breaker so a dead resolver fails fast instead of tying up
// request handlers; callers treat any returned error as an empty embed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker[any]
	timeout    time.Duration
}

var _ domain.Resolver = (*Client)(nil)

// NewClient creates a resolver client. timeout bounds each individual
// resolver call.
func NewClient(baseURL string, timeout time.Duration) *Client {
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(0.6, 5, 10*time.Second).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "resolver",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			metrics.CircuitBreakerStateChanges.WithLabelValues("resolver", e.NewState.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues("resolver").Set(stateToFloat(e.NewState))
		}).
		Build()

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    cb,
		timeout:    timeout,
	}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

type productResponse struct {
	Success  bool   `json:"success"`
	IsSearch bool   `json:"isSearch"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Price    string `json:"price"`
	Cover    string `json:"cover"`
}

// Fetch resolves a raw product link into embed metadata via
// GET <base>/generic/product?id=<url-encoded link> with the locale as
// Accept-Language. Transport errors, non-2xx statuses, and undecodable
// bodies all count as resolver failures.
func (c *Client) Fetch(ctx context.Context, link, locale string) (domain.EmbedResult, error) {
	if !c.breaker.TryAcquirePermit() {
		return domain.EmbedResult{}, fmt.Errorf("resolver circuit open: %w", circuitbreaker.ErrOpen)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/generic/product?id=" + url.QueryEscape(link)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.breaker.RecordError(err)
		return domain.EmbedResult{}, fmt.Errorf("build resolver request: %w", err)
	}
	req.Header.Set("Accept-Language", locale)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ResolverRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.breaker.RecordError(err)
		return domain.EmbedResult{}, fmt.Errorf("resolver request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("resolver returned status %d", resp.StatusCode)
		c.breaker.RecordError(err)
		return domain.EmbedResult{}, err
	}

	var payload productResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.breaker.RecordError(err)
		return domain.EmbedResult{}, fmt.Errorf("decode resolver response: %w", err)
	}

	c.breaker.RecordSuccess()

	return domain.EmbedResult{
		Success:  payload.Success,
		IsSearch: payload.IsSearch,
		Embed: domain.Embed{
			Link:  payload.Link,
			Title: payload.Title,
			Price: payload.Price,
			Cover: payload.Cover,
		},
	}, nil
}
