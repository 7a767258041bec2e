package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/std-1224/payper-tenant/internal/tenant/domain"
)

type listTenantsQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (s *Server) ListTenants(c *gin.Context) {
	var query listTenantsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := tenantdomain.Status(strings.TrimSpace(query.Status))
	if status != "" && !status.IsValid() {
		AbortWithError(c, tenantdomain.ErrInvalidStatus)
		return
	}

	items, err := s.tenantSvc.List(c.Request.Context(), tenantdomain.ListFilter{
		Status: status,
		Search: strings.TrimSpace(query.Search),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetTenant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := s.tenantSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) UpdateTenant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req tenantdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

type setTenantStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) SetTenantStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req setTenantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.SetStatus(c.Request.Context(), id, tenantdomain.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (s *Server) DeleteTenant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.tenantSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) AddTenantContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var draft tenantdomain.ContactDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contact, err := s.tenantSvc.AddContact(c.Request.Context(), id, draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (s *Server) RemoveTenantContact(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "contactId")
	if !ok {
		return
	}

	if err := s.tenantSvc.RemoveContact(c.Request.Context(), tenantID, contactID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type setTenantModuleRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) SetTenantModule(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	moduleID, ok := parseIDParam(c, "moduleId")
	if !ok {
		return
	}

	var req setTenantModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view, err := s.tenantSvc.SetModuleEnabled(c.Request.Context(), tenantID, moduleID, req.Enabled)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) AddTenantUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req tenantdomain.AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.tenantSvc.AddUser(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type updateTenantUserRequest struct {
	Status *string `json:"status,omitempty"`
	Role   *string `json:"role,omitempty"`
}

func (s *Server) UpdateTenantUser(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req updateTenantUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if req.Status != nil {
		if err := s.tenantSvc.SetUserStatus(c.Request.Context(), tenantID, userID, tenantdomain.UserStatus(*req.Status)); err != nil {
			AbortWithError(c, err)
			return
		}
	}
	if req.Role != nil {
		if err := s.tenantSvc.SetUserRole(c.Request.Context(), tenantID, userID, tenantdomain.UserRole(*req.Role)); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) RemoveTenantUser(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := s.tenantSvc.RemoveUser(c.Request.Context(), tenantID, userID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type addLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func (s *Server) AddTenantLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	location, err := s.tenantSvc.AddLocation(c.Request.Context(), id, req.Name, req.Address, req.City, req.Country)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}
