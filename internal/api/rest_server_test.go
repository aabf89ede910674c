package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/generator"
	"github.com/annel0/procgen/internal/logging"
	"github.com/annel0/procgen/internal/metrics"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/storage"
	"github.com/annel0/procgen/internal/vec"
)

type testServer struct {
	srv      *RestServer
	registry *generator.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	quiet := logging.NewDiscardLogger()

	registry := generator.NewRegistry(
		generator.WithMetrics(metrics.New(reg)),
		generator.WithTiles(storage.NewMemoryTileRepo()),
		generator.WithLogger(quiet),
	)
	require.NoError(t, registry.Build(config.Default()))

	srv, err := NewRestServer(Config{
		Registry:        registry,
		MaxRegionPoints: 10000,
		Registerer:      reg,
		Gatherer:        reg,
		Logger:          quiet,
	})
	require.NoError(t, err)
	return &testServer{srv: srv, registry: registry}
}

func (ts *testServer) get(t *testing.T, url string, out interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestNewRestServer_RequiresRegistry(t *testing.T) {
	_, err := NewRestServer(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]interface{}
	assert.Equal(t, http.StatusOK, ts.get(t, "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGenerators(t *testing.T) {
	ts := newTestServer(t)
	var resp GeneratorsResponse
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/generators", &resp))

	require.Len(t, resp.Generators, 5)
	assert.Equal(t, "caves", resp.Generators[0].Name)
	assert.Equal(t, []string{"biomes"}, resp.Voronoi)
	assert.True(t, resp.Biomes)
}

func TestPoint(t *testing.T) {
	ts := newTestServer(t)
	g, err := ts.registry.Get("terrain")
	require.NoError(t, err)

	var resp PointResponse
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/noise/terrain/point?x=3&y=-4.5", &resp))
	assert.Nil(t, resp.Z)
	assert.Equal(t, g.Point2(3, -4.5), resp.Value)

	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/noise/terrain/point?x=3&y=4&z=5", &resp))
	require.NotNil(t, resp.Z)
	assert.Equal(t, g.Point3(3, 4, 5), resp.Value)
}

func TestPoint_Errors(t *testing.T) {
	ts := newTestServer(t)

	var e ErrorResponse
	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/api/v1/noise/terrain/point?x=1", &e))
	assert.Contains(t, e.Error, "y")

	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/api/v1/noise/terrain/point?x=NaN&y=1", &e))
	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/api/v1/noise/terrain/point?x=1&y=abc", &e))
	assert.Equal(t, http.StatusNotFound, ts.get(t, "/api/v1/noise/missing/point?x=1&y=1", &e))
}

func TestRegion2D(t *testing.T) {
	ts := newTestServer(t)
	g, err := ts.registry.Get("caves")
	require.NoError(t, err)

	var resp RegionResponse
	require.Equal(t, http.StatusOK,
		ts.get(t, "/api/v1/noise/caves/region?min_x=-3&min_y=2&max_x=5&max_y=6", &resp))

	r := sampling.Region2{Min: vec.Vec2{X: -3, Y: 2}, Max: vec.Vec2{X: 5, Y: 6}}
	want, err := g.Region2(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, vec.Vec3{X: 9, Y: 5, Z: 1}, resp.Size)
	assert.Equal(t, want, resp.Values)
}

func TestRegion3D(t *testing.T) {
	ts := newTestServer(t)
	g, err := ts.registry.Get("grain")
	require.NoError(t, err)

	var resp RegionResponse
	require.Equal(t, http.StatusOK,
		ts.get(t, "/api/v1/noise/grain/region?min_x=0&min_y=0&max_x=2&max_y=3&min_z=-1&max_z=1", &resp))

	require.Len(t, resp.Values, 3*4*3)
	r := sampling.Region3{Min: vec.Vec3{Z: -1}, Max: vec.Vec3{X: 2, Y: 3, Z: 1}}
	p := vec.Vec3{X: 1, Y: 2, Z: 0}
	assert.Equal(t, g.Point3(1, 2, 0), resp.Values[r.Index(p)])
}

func TestRegion_Errors(t *testing.T) {
	ts := newTestServer(t)
	var e ErrorResponse

	assert.Equal(t, http.StatusBadRequest,
		ts.get(t, "/api/v1/noise/terrain/region?min_x=5&min_y=0&max_x=0&max_y=0", &e), "min > max")
	assert.Equal(t, http.StatusBadRequest,
		ts.get(t, "/api/v1/noise/terrain/region?min_x=0&min_y=0&max_x=1000&max_y=1000", &e), "too many points")
	assert.Equal(t, http.StatusBadRequest,
		ts.get(t, "/api/v1/noise/terrain/region?min_x=0&min_y=0&max_x=1", &e), "missing max_y")
	assert.Equal(t, http.StatusBadRequest,
		ts.get(t, "/api/v1/noise/terrain/region?min_x=0&min_y=0&max_x=1&max_y=1&min_z=0", &e), "missing max_z")
	assert.Equal(t, http.StatusBadRequest,
		ts.get(t, "/api/v1/noise/terrain/region?min_x=-9223372036854775807&min_y=0&max_x=9223372036854775807&max_y=0", &e),
		"overflowing size")
	assert.Equal(t, http.StatusNotFound,
		ts.get(t, "/api/v1/noise/missing/region?min_x=0&min_y=0&max_x=1&max_y=1", &e))
}

func TestClosest(t *testing.T) {
	ts := newTestServer(t)

	var resp ClosestResponse
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/voronoi/biomes/closest?x=10.5&y=-3&n=3", &resp))
	require.Len(t, resp.Features, 3)
	for i := 1; i < len(resp.Features); i++ {
		assert.LessOrEqual(t, resp.Features[i-1].Distance, resp.Features[i].Distance)
	}
	for _, f := range resp.Features {
		assert.InDelta(t, 10.5+f.Delta.X, f.Position.X, 1e-9)
		assert.InDelta(t, -3+f.Delta.Y, f.Position.Y, 1e-9)
	}

	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/voronoi/biomes/closest?x=0&y=0", &resp))
	assert.Len(t, resp.Features, 1)

	var e ErrorResponse
	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/api/v1/voronoi/biomes/closest?x=0&y=0&n=6", &e))
	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/api/v1/voronoi/biomes/closest?x=0&y=0&n=0", &e))
	assert.Equal(t, http.StatusNotFound, ts.get(t, "/api/v1/voronoi/missing/closest?x=0&y=0", &e))
}

func TestBiomes(t *testing.T) {
	ts := newTestServer(t)

	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/biomes/region?min_x=0&min_y=0&max_x=3&max_y=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Biomes []string `json:"biomes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Biomes, 12)
	assert.NotContains(t, resp.Biomes, "")

	var e ErrorResponse
	assert.Equal(t, http.StatusBadRequest,
		ts.get(t, "/api/v1/biomes/region?min_x=0&min_y=0&max_x=3&max_y=2&min_z=0&max_z=1", &e))
}

func TestStatsAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	var stats map[string]interface{}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/v1/stats", &stats))
	assert.Contains(t, stats, "server")
	assert.Contains(t, stats, "registry")

	ts.get(t, "/api/v1/noise/grain/point?x=1&y=2", nil)

	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `procgen_point_queries_total{generator="grain"} 1`), body)
	assert.True(t, strings.Contains(body, "procgen_api_http_request_duration_seconds"))
}
