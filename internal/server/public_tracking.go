package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TrackRepair serves the anonymous tracking view. Any failure (bad
// token, unknown token, projection error) produces the same generic
// 404 so the endpoint cannot confirm or deny that a token exists.
func (s *Server) TrackRepair(c *gin.Context) {
	if !s.trackingLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	view, err := s.trackingSvc.Track(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: errorPayload{
			Type:    "not_found",
			Message: "not found",
		}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}
