package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/std-1224/payper-tenant/internal/onboarding"
	tenantdomain "github.com/std-1224/payper-tenant/internal/tenant/domain"
)

type draftView struct {
	ID        string                     `json:"id"`
	Step      onboarding.Step            `json:"step"`
	Basic     tenantdomain.BasicInfo     `json:"basic"`
	Contacts  []onboarding.ContactEntry  `json:"contacts"`
	Modules   []string                   `json:"module_ids"`
	Invite    *tenantdomain.InviteDraft  `json:"invite,omitempty"`
	ExpiresAt string                     `json:"expires_at"`
}

func toDraftView(d *onboarding.Draft) draftView {
	modules := make([]string, 0, len(d.Selected))
	for id, selected := range d.Selected {
		if selected {
			modules = append(modules, id.String())
		}
	}
	return draftView{
		ID:        d.ID,
		Step:      d.Step,
		Basic:     d.Basic,
		Contacts:  d.Contacts,
		Modules:   modules,
		Invite:    d.Invite,
		ExpiresAt: d.ExpiresAt.Format(time.RFC3339),
	}
}

func (s *Server) StartDraft(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	draft := s.onboardingSvc.Start(c.Request.Context(), ownerID)
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) GetDraft(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	draft, err := s.onboardingSvc.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) DiscardDraft(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if err := s.onboardingSvc.Discard(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) UpdateDraftBasic(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var input onboarding.BasicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := s.onboardingSvc.UpdateBasic(c.Request.Context(), ownerID, c.Param("id"), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) AdvanceDraft(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	draft, err := s.onboardingSvc.Advance(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) BackDraft(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	draft, err := s.onboardingSvc.Back(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) AddDraftContact(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var contact tenantdomain.ContactDraft
	if err := c.ShouldBindJSON(&contact); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := s.onboardingSvc.AddContact(c.Request.Context(), ownerID, c.Param("id"), contact)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) RemoveDraftContact(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	draft, err := s.onboardingSvc.RemoveContact(c.Request.Context(), ownerID, c.Param("id"), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) SetDraftPrimaryContact(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	draft, err := s.onboardingSvc.SetPrimaryContact(c.Request.Context(), ownerID, c.Param("id"), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) ToggleDraftModule(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	moduleID, ok := parseIDParam(c, "moduleId")
	if !ok {
		return
	}
	draft, err := s.onboardingSvc.ToggleModule(c.Request.Context(), ownerID, c.Param("id"), moduleID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

type setInviteRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) SetDraftInvite(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req setInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := s.onboardingSvc.SetInviteEnabled(c.Request.Context(), ownerID, c.Param("id"), req.Enabled)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

type updateInviteRequest struct {
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (s *Server) UpdateDraftInvite(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req updateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, err := s.onboardingSvc.UpdateInvite(c.Request.Context(), ownerID, c.Param("id"), req.Email, req.Role)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftView(draft))
}

func (s *Server) SubmitDraft(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	tenant, err := s.onboardingSvc.Submit(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}
