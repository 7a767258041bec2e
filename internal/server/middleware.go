package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/std-1224/payper-tenant/internal/auditcontext"
	"github.com/std-1224/payper-tenant/internal/authorization"
)

const (
	contextUserIDKey = "user_id"
	contextRoleKey   = "operator_role"
)

// WebAuthRequired authenticates the session cookie and stores the user
// id on the request.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, sess.UserID)
		c.Next()
	}
}

// OperatorContext resolves the caller's operator role. Requests without
// an active role never reach the console handlers.
func (s *Server) OperatorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		admin, err := s.adminSvc.Resolve(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		role := string(admin.Role)
		c.Set(contextRoleKey, role)

		ctx := auditcontext.WithActor(c.Request.Context(), userID.String(), role)
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// authorize gates a route on the caller's operator role.
func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		role := c.GetString(contextRoleKey)

		if err := s.authzSvc.Authorize(c.Request.Context(), userID.String(), role, object, action); err != nil {
			if err == authorization.ErrForbidden {
				AbortWithError(c, ErrForbidden)
				return
			}
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

func parseIDParam(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		AbortWithError(c, newValidationError(name, "invalid_id", "invalid identifier"))
		return 0, false
	}
	return id, true
}
