package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegistryStats — сводка по реестру генераторов
type RegistryStats struct {
	Generators int  `json:"generators"`
	Voronoi    int  `json:"voronoi"`
	Biomes     bool `json:"biomes"`
}

// StatsResponse — ответ /api/v1/stats
type StatsResponse struct {
	Registry RegistryStats   `json:"registry"`
	Server   ProcessSnapshot `json:"server"`
}

// handleStats возвращает состояние процесса и реестра
func (rs *RestServer) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		Registry: RegistryStats{
			Generators: len(rs.registry.List()),
			Voronoi:    len(rs.registry.VoronoiNames()),
			Biomes:     rs.registry.Biomes() != nil,
		},
		Server: rs.stats.Snapshot(),
	})
}
