package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	venuedomain "github.com/std-1224/payper-tenant/internal/venue/domain"
)

type listVenuesQuery struct {
	TenantID string `form:"tenant_id"`
}

func (s *Server) ListVenues(c *gin.Context) {
	var query listVenuesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var tenantID snowflake.ID
	if value := strings.TrimSpace(query.TenantID); value != "" {
		parsed, err := snowflake.ParseString(value)
		if err != nil {
			AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "invalid tenant_id"))
			return
		}
		tenantID = parsed
	}

	venues, err := s.venueSvc.ListVenues(c.Request.Context(), tenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": venues})
}

func (s *Server) GetVenueDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := s.venueSvc.GetDetail(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type listOrdersQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

func (s *Server) ListVenueOrders(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var query listOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orders, err := s.venueSvc.ListOrders(c.Request.Context(), venuedomain.OrderFilter{
		VenueID: id,
		Status:  strings.TrimSpace(query.Status),
		Limit:   query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

type listAlertsQuery struct {
	VenueID        string `form:"venue_id"`
	UnresolvedOnly bool   `form:"unresolved_only"`
}

func (s *Server) ListAlerts(c *gin.Context) {
	var query listAlertsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var venueID *snowflake.ID
	if value := strings.TrimSpace(query.VenueID); value != "" {
		parsed, err := snowflake.ParseString(value)
		if err != nil {
			AbortWithError(c, newValidationError("venue_id", "invalid_venue_id", "invalid venue_id"))
			return
		}
		venueID = &parsed
	}

	alerts, err := s.venueSvc.ListAlerts(c.Request.Context(), venueID, query.UnresolvedOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

func (s *Server) ResolveAlert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	alert, err := s.venueSvc.ResolveAlert(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}
