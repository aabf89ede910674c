package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/annel0/procgen/internal/generator"
	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/observability"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/vec"
	"github.com/annel0/procgen/internal/voronoi"
)

// ErrorResponse — тело ответа при ошибке
type ErrorResponse struct {
	Error string `json:"error"`
}

// GeneratorsResponse — список генераторов и экземпляров Voronoi
type GeneratorsResponse struct {
	Generators []generator.Info `json:"generators"`
	Voronoi    []string         `json:"voronoi"`
	Biomes     bool             `json:"biomes"`
}

// PointResponse — значение шума в точке
type PointResponse struct {
	Name  string   `json:"name"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Z     *float64 `json:"z,omitempty"`
	Value float64  `json:"value"`
}

// RegionResponse — значения шума в области, x меняется быстрее всего
type RegionResponse struct {
	Name   string           `json:"name"`
	Region sampling.Region3 `json:"region"`
	Size   vec.Vec3         `json:"size"`
	Values []float64        `json:"values"`
}

// FeatureResponse — найденная точка-признак
type FeatureResponse struct {
	ID       uint32        `json:"id"`
	Distance float64       `json:"distance"`
	Delta    vec.Vec2Float `json:"delta"`
	Position vec.Vec2Float `json:"position"`
}

// ClosestResponse — ближайшие признаки, по возрастанию расстояния
type ClosestResponse struct {
	Name     string            `json:"name"`
	At       vec.Vec2Float     `json:"at"`
	Features []FeatureResponse `json:"features"`
}

// BiomesResponse — карта биомов
type BiomesResponse struct {
	Region sampling.Region2  `json:"region"`
	Size   vec.Vec2          `json:"size"`
	Biomes []generator.Biome `json:"biomes"`
}

// writeError переводит ошибку в HTTP статус
func (rs *RestServer) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, noise.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, generator.ErrUnknownGenerator), errors.Is(err, generator.ErrUnknownVoronoi):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		rs.logger.Error("Ошибка обработки %s: %v", c.Request.URL.Path, err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// handleGenerators возвращает список генераторов
func (rs *RestServer) handleGenerators(c *gin.Context) {
	c.JSON(http.StatusOK, GeneratorsResponse{
		Generators: rs.registry.List(),
		Voronoi:    rs.registry.VoronoiNames(),
		Biomes:     rs.registry.Biomes() != nil,
	})
}

// handlePoint вычисляет шум в точке; z необязателен
func (rs *RestServer) handlePoint(c *gin.Context) {
	g, err := rs.registry.Get(c.Param("name"))
	if err != nil {
		rs.writeError(c, err)
		return
	}

	x, err := queryFloat(c, "x")
	if err != nil {
		rs.writeError(c, err)
		return
	}
	y, err := queryFloat(c, "y")
	if err != nil {
		rs.writeError(c, err)
		return
	}

	resp := PointResponse{Name: g.Name(), X: x, Y: y}
	if _, ok := c.GetQuery("z"); ok {
		z, err := queryFloat(c, "z")
		if err != nil {
			rs.writeError(c, err)
			return
		}
		resp.Z = &z
		resp.Value = g.Point3(x, y, z)
	} else {
		resp.Value = g.Point2(x, y)
	}
	c.JSON(http.StatusOK, resp)
}

// handleRegion вычисляет шум во всей области
func (rs *RestServer) handleRegion(c *gin.Context) {
	g, err := rs.registry.Get(c.Param("name"))
	if err != nil {
		rs.writeError(c, err)
		return
	}

	q, err := parseRegion(c, rs.maxPoints)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	ctx, span := observability.Tracer().Start(c.Request.Context(), "noise.region")
	defer span.End()
	span.SetAttributes(
		attribute.String("procgen.generator", g.Name()),
		attribute.Bool("procgen.region.3d", q.is3D),
		attribute.Int("procgen.region.points", q.r3.Len()),
	)

	start := time.Now()
	var values []float64
	if q.is3D {
		values, err = g.Region3(ctx, q.r3)
	} else {
		values, err = g.Region2(ctx, q.region2())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		rs.writeError(c, err)
		return
	}
	rs.logger.Debug("Область %s %v..%v: %d точек за %s", g.Name(), q.r3.Min, q.r3.Max, len(values), time.Since(start))

	c.JSON(http.StatusOK, RegionResponse{
		Name:   g.Name(),
		Region: q.r3,
		Size:   q.r3.Size(),
		Values: values,
	})
}

// handleClosest ищет ближайшие точки-признаки; n по умолчанию 1
func (rs *RestServer) handleClosest(c *gin.Context) {
	x, err := queryFloat(c, "x")
	if err != nil {
		rs.writeError(c, err)
		return
	}
	y, err := queryFloat(c, "y")
	if err != nil {
		rs.writeError(c, err)
		return
	}
	n, err := queryInt(c, "n", 1)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	at := vec.Vec2Float{X: x, Y: y}
	features, err := rs.registry.Closest(c.Param("name"), at, n)
	if err != nil {
		rs.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ClosestResponse{
		Name:     c.Param("name"),
		At:       at,
		Features: toFeatureResponses(at, features),
	})
}

func toFeatureResponses(at vec.Vec2Float, features []voronoi.Feature) []FeatureResponse {
	out := make([]FeatureResponse, len(features))
	for i, f := range features {
		out[i] = FeatureResponse{
			ID:       f.ID,
			Distance: f.Distance,
			Delta:    f.Delta,
			Position: f.Position(at),
		}
	}
	return out
}

// handleBiomes строит карту биомов для двумерной области
func (rs *RestServer) handleBiomes(c *gin.Context) {
	classifier := rs.registry.Biomes()
	if classifier == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "biome classifier is not configured"})
		return
	}

	q, err := parseRegion(c, rs.maxPoints)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	if q.is3D {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "biome map is two-dimensional"})
		return
	}

	r := q.region2()
	biomes, err := classifier.Region(c.Request.Context(), r)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BiomesResponse{Region: r, Size: r.Size(), Biomes: biomes})
}

// handleHealth обрабатывает health check
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}
