package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Coordinates is a resolved zip code location.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

var ErrZipNotFound = errors.New("zip code could not be resolved")

// Resolver turns a zip code into coordinates. Implementations talk to an
// external geocoding service; matching logic only sees this interface.
type Resolver interface {
	Resolve(ctx context.Context, zip string) (Coordinates, error)
}

// HTTPResolver resolves zips against a zippopotam-style REST endpoint
// (GET {baseURL}/{zip} returning a places array with latitude/longitude
// strings).
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, zip string) (Coordinates, error) {
	url := fmt.Sprintf("%s/%s", r.baseURL, zip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Coordinates{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("zip resolver request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Coordinates{}, ErrZipNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("zip resolver returned status %d", resp.StatusCode)
	}

	var payload struct {
		Places []struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coordinates{}, fmt.Errorf("zip resolver returned invalid body: %w", err)
	}
	if len(payload.Places) == 0 {
		return Coordinates{}, ErrZipNotFound
	}

	lat, err := strconv.ParseFloat(payload.Places[0].Latitude, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("zip resolver returned invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(payload.Places[0].Longitude, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("zip resolver returned invalid longitude: %w", err)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

// CachedResolver memoizes successful lookups. Zip-to-location mappings
// are effectively static, so entries never expire.
type CachedResolver struct {
	inner Resolver

	mu    sync.RWMutex
	cache map[string]Coordinates
}

func NewCachedResolver(inner Resolver) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: make(map[string]Coordinates),
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, zip string) (Coordinates, error) {
	r.mu.RLock()
	coords, ok := r.cache[zip]
	r.mu.RUnlock()
	if ok {
		return coords, nil
	}

	coords, err := r.inner.Resolve(ctx, zip)
	if err != nil {
		// Failures are not cached: a transient resolver outage should not
		// poison the zip forever.
		return Coordinates{}, err
	}

	r.mu.Lock()
	r.cache[zip] = coords
	r.mu.Unlock()

	return coords, nil
}
