package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/api_models"
	"github.com/zhukovvlad/tender-matching-service/cmd/internal/services/apierrors"
)

func (s *Server) healthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getStatsHandler(c *gin.Context) {
	stats, err := s.store.GetStats(c.Request.Context())
	if err != nil {
		s.logger.Errorf("ошибка при получении статистики: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_matches":   stats.TotalMatches,
		"unmatched_count": stats.UnmatchedCount,
	})
}

func (s *Server) listUnmatchedPositionsHandler(c *gin.Context) {
	limit := int32(100)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = int32(parsed)
		}
	}

	positions, err := s.matchingService.GetUnmatchedPositions(c.Request.Context(), limit)
	if err != nil {
		var valErr *apierrors.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

func (s *Server) matchPositionHandler(c *gin.Context) {
	var req api_models.MatchPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err := s.matchingService.MatchPosition(c.Request.Context(), req); err != nil {
		var valErr *apierrors.ValidationError
		if errors.As(err, &valErr) {
			c.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "matched"})
}
