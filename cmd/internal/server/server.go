// Package server реализует минимальный отладочный HTTP-сервер: health-check,
// статистику обработки тендеров и ручное сопоставление позиций — всё
// остальное вне области ответственности этого сервиса (см. Non-goals).
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/services/matching"
	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
	"github.com/zhukovvlad/tender-matching-service/internal/store"
)

// Server — тонкая gin-обёртка: health/stats/ручное сопоставление.
type Server struct {
	store           *store.Store
	router          *gin.Engine
	logger          *logging.Logger
	matchingService *matching.MatchingService
}

// NewServer строит сервер и регистрирует маршруты.
func NewServer(st *store.Store, logger *logging.Logger, matchingService *matching.MatchingService) *Server {
	server := &Server{store: st, logger: logger, matchingService: matchingService}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	router.GET("/healthz", server.healthzHandler)
	router.GET("/api/stats", server.getStatsHandler)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/positions/unmatched", server.listUnmatchedPositionsHandler)
		v1.POST("/positions/match", server.matchPositionHandler)
	}

	server.router = router
	return server
}

// Start запускает HTTP-сервер на указанном адресе (блокирующий вызов).
func (s *Server) Start(address string) error {
	return s.router.Run(address)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
