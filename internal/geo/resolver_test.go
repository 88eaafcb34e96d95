package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPResolver_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/60601":
			w.Write([]byte(`{"post code": "60601", "places": [{"latitude": "41.8858", "longitude": "-87.6229"}]}`))
		case "/00000":
			w.WriteHeader(http.StatusNotFound)
		case "/99999":
			w.Write([]byte(`{"places": []}`))
		case "/11111":
			w.Write([]byte(`{"places": [{"latitude": "not-a-number", "longitude": "0"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	resolver := NewHTTPResolver(server.URL, 2*time.Second)
	ctx := context.Background()

	t.Run("known zip", func(t *testing.T) {
		coords, err := resolver.Resolve(ctx, "60601")
		require.NoError(t, err)
		assert.InDelta(t, 41.8858, coords.Latitude, 1e-6)
		assert.InDelta(t, -87.6229, coords.Longitude, 1e-6)
	})

	t.Run("unknown zip", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "00000")
		assert.ErrorIs(t, err, ErrZipNotFound)
	})

	t.Run("empty places", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "99999")
		assert.ErrorIs(t, err, ErrZipNotFound)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "11111")
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "22222")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrZipNotFound)
	})
}

type countingResolver struct {
	calls  int
	coords map[string]Coordinates
}

func (r *countingResolver) Resolve(_ context.Context, zip string) (Coordinates, error) {
	r.calls++
	coords, ok := r.coords[zip]
	if !ok {
		return Coordinates{}, ErrZipNotFound
	}
	return coords, nil
}

func TestCachedResolver_CachesSuccesses(t *testing.T) {
	inner := &countingResolver{coords: map[string]Coordinates{
		"10001": {Latitude: 40.7506, Longitude: -73.9971},
	}}
	resolver := NewCachedResolver(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		coords, err := resolver.Resolve(ctx, "10001")
		require.NoError(t, err)
		assert.InDelta(t, 40.7506, coords.Latitude, 1e-6)
	}

	assert.Equal(t, 1, inner.calls)
}

func TestCachedResolver_DoesNotCacheFailures(t *testing.T) {
	inner := &countingResolver{coords: map[string]Coordinates{}}
	resolver := NewCachedResolver(inner)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, "10001")
	assert.ErrorIs(t, err, ErrZipNotFound)

	// The zip becomes resolvable; the earlier failure must not stick.
	inner.coords["10001"] = Coordinates{Latitude: 40.7506, Longitude: -73.9971}

	_, err = resolver.Resolve(ctx, "10001")
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
