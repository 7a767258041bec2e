package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/std-1224/payper-tenant/internal/auth/domain"
	globaladmindomain "github.com/std-1224/payper-tenant/internal/globaladmin/domain"
	"go.uber.org/zap"
)

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type operatorView struct {
	UserID      string  `json:"user_id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Role        *string `json:"role,omitempty"`
}

// Signup registers an operator account and signs them in. The first
// account ever created becomes super_admin when bootstrap is enabled.
func (s *Server) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.authsvc.CreateUser(c.Request.Context(), authdomain.CreateUserRequest{
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.DisplayName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	view := operatorView{
		UserID:      user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	if admin, err := s.adminSvc.ResolveOnSignup(c.Request.Context(), user.ID); err == nil {
		role := string(admin.Role)
		view.Role = &role
	} else if !errors.Is(err, globaladmindomain.ErrNoRole) {
		zap.L().Warn("role resolution failed on signup", zap.Error(err))
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	view := operatorView{
		UserID:      result.User.ID.String(),
		Email:       result.User.Email,
		DisplayName: result.User.DisplayName,
	}
	if admin, err := s.adminSvc.Resolve(c.Request.Context(), result.User.ID); err == nil {
		role := string(admin.Role)
		view.Role = &role
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		_ = s.authsvc.Logout(c.Request.Context(), token)
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
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

	user, err := s.authsvc.GetUser(c.Request.Context(), sess.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view := operatorView{
		UserID:      user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	if admin, err := s.adminSvc.Resolve(c.Request.Context(), user.ID); err == nil {
		role := string(admin.Role)
		view.Role = &role
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	user, err := s.authsvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Re-verify the current password before rotating. The throwaway
	// session from the check is revoked immediately.
	verify, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    user.Email,
		Password: req.CurrentPassword,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	_ = s.authsvc.Logout(c.Request.Context(), verify.RawToken)

	if err := s.authsvc.ChangePassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
