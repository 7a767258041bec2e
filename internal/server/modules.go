package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListRegistryModules(c *gin.Context) {
	modules, err := s.registryRepo.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": modules})
}
