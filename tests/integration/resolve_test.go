package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vitidata/vitibrasil-api/internal/testutil"
	"github.com/vitidata/vitibrasil-api/pkg/cache"
	"github.com/vitidata/vitibrasil-api/pkg/scraper"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newScraper(site *testutil.MockSite) *scraper.Client {
	return scraper.New(scraper.Config{
		BaseURL:           site.URL(),
		UserAgent:         "vitibrasil-api-integration/0.0",
		RequestTimeout:    5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
		Retry: scraper.RetryConfig{
			MaxAttempts:       2,
			InitialBackoff:    10 * time.Millisecond,
			MaxBackoff:        50 * time.Millisecond,
			BackoffMultiplier: 2.0,
		},
	})
}

func fetchFor(client *scraper.Client, endpoint, year, subOption string) cache.FetchFunc {
	return func(ctx context.Context) (json.RawMessage, error) {
		rec, err := client.Fetch(ctx, endpoint, year, subOption)
		if err != nil {
			return nil, err
		}
		return json.Marshal(rec)
	}
}

// TestFullResolutionFlow exercises the complete flow: scrape on cold cache,
// warm both Redis tiers, then serve the short-term tier without touching the
// site again.
func TestFullResolutionFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	site := testutil.NewMockSite()
	defer site.Close()

	store := cache.NewRedisStore(redisClient)
	coordinator := cache.NewCoordinator(store, nil, cache.NewStats(), cache.DefaultConfig())
	client := newScraper(site)

	ctx := context.Background()
	params := map[string]string{"year": "2023"}
	fetch := fetchFor(client, "producao", "2023", "")

	entry, err := coordinator.Resolve(ctx, "producao", params, fetch)
	if err != nil {
		t.Fatalf("cold resolve failed: %v", err)
	}
	if entry.Provenance != cache.Fresh {
		t.Errorf("provenance = %v, want fresh on cold cache", entry.Provenance)
	}
	if site.GetRequestCount() != 1 {
		t.Errorf("site requests = %d, want 1", site.GetRequestCount())
	}

	entry, err = coordinator.Resolve(ctx, "producao", params, fetch)
	if err != nil {
		t.Fatalf("warm resolve failed: %v", err)
	}
	if entry.Provenance != cache.ShortTerm {
		t.Errorf("provenance = %v, want short_term on warm cache", entry.Provenance)
	}
	if site.GetRequestCount() != 1 {
		t.Errorf("site requests = %d, want still 1 (served from cache)", site.GetRequestCount())
	}

	var rec scraper.Record
	if err := json.Unmarshal(entry.Data, &rec); err != nil {
		t.Fatalf("cached payload is not a record: %v", err)
	}
	if rec.Empty() {
		t.Error("cached record is empty")
	}
}

// TestOutageServedFromLongTermTier warms the caches, expires the short-term
// entry, takes the site down, and expects the long-term tier to answer.
func TestOutageServedFromLongTermTier(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	site := testutil.NewMockSite()
	defer site.Close()

	store := cache.NewRedisStore(redisClient)
	coordinator := cache.NewCoordinator(store, nil, cache.NewStats(), cache.Config{
		ShortTTL: 200 * time.Millisecond,
	})
	client := newScraper(site)

	ctx := context.Background()
	fetch := fetchFor(client, "comercializacao", "", "")

	if _, err := coordinator.Resolve(ctx, "comercializacao", nil, fetch); err != nil {
		t.Fatalf("warming resolve failed: %v", err)
	}

	// Let the short-term entry expire in Redis, then break the site.
	time.Sleep(300 * time.Millisecond)
	site.SetResponse("opt_04", testutil.MockResponse{StatusCode: 200, Body: testutil.MaintenancePage()})

	entry, err := coordinator.Resolve(ctx, "comercializacao", nil, fetch)
	if err != nil {
		t.Fatalf("outage resolve failed: %v", err)
	}
	if entry.Provenance != cache.LongTerm {
		t.Errorf("provenance = %v, want long-term fallback during outage", entry.Provenance)
	}
}

// TestDistinctParamsDistinctEntries verifies that requests differing only in
// parameters do not share cache entries.
func TestDistinctParamsDistinctEntries(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	site := testutil.NewMockSite()
	defer site.Close()

	store := cache.NewRedisStore(redisClient)
	coordinator := cache.NewCoordinator(store, nil, cache.NewStats(), cache.DefaultConfig())
	client := newScraper(site)

	ctx := context.Background()

	for _, year := range []string{"2020", "2021"} {
		fetch := fetchFor(client, "producao", year, "")
		if _, err := coordinator.Resolve(ctx, "producao", map[string]string{"year": year}, fetch); err != nil {
			t.Fatalf("resolve year %s failed: %v", year, err)
		}
	}

	if site.GetRequestCount() != 2 {
		t.Errorf("site requests = %d, want 2 (one per distinct year)", site.GetRequestCount())
	}
}

// TestTransientFailureRetried verifies that a single 502 from the site is
// absorbed by the retry layer.
func TestTransientFailureRetried(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	site := testutil.NewMockSite()
	defer site.Close()

	site.FailNext(1)

	store := cache.NewRedisStore(redisClient)
	coordinator := cache.NewCoordinator(store, nil, cache.NewStats(), cache.DefaultConfig())
	client := newScraper(site)

	entry, err := coordinator.Resolve(context.Background(), "exportacao", nil,
		fetchFor(client, "exportacao", "", ""))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if entry.Provenance != cache.Fresh {
		t.Errorf("provenance = %v, want fresh after retried fetch", entry.Provenance)
	}
	if site.GetRequestCount() != 2 {
		t.Errorf("site requests = %d, want 2 (failure then retry)", site.GetRequestCount())
	}
}
