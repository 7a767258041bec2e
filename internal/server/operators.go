package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	globaladmindomain "github.com/std-1224/payper-tenant/internal/globaladmin/domain"
)

func (s *Server) ListOperators(c *gin.Context) {
	admins, err := s.adminSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": admins})
}

type grantOperatorRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s *Server) GrantOperator(c *gin.Context) {
	var req grantOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid user_id"))
		return
	}

	admin, err := s.adminSvc.Grant(c.Request.Context(), userID, globaladmindomain.Role(strings.TrimSpace(req.Role)))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

type setOperatorActiveRequest struct {
	Active bool `json:"active"`
}

func (s *Server) SetOperatorActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setOperatorActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.adminSvc.SetActive(c.Request.Context(), id, req.Active); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
