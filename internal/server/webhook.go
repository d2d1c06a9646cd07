package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	webhookdomain "github.com/holaplex/hub-orgs/internal/webhook/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type createWebhookRequest struct {
	URL         string   `json:"endpoint" binding:"required"`
	Description string   `json:"description"`
	ProjectIDs  []string `json:"projects"`
	FilterTypes []string `json:"filter_types" binding:"required,min=1"`
}

func (s *Server) CreateWebhook(c *gin.Context) {
	var req createWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	projectIDs, err := parseIDList("projects", req.ProjectIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filters := make([]webhookdomain.FilterType, 0, len(req.FilterTypes))
	for _, f := range req.FilterTypes {
		filters = append(filters, webhookdomain.FilterType(f))
	}

	orgID, _ := orgIDFromContext(c)
	created, err := s.webhookSvc.Create(c.Request.Context(), orgID, callerFromContext(c), webhookdomain.CreateWebhookRequest{
		URL:         strings.TrimSpace(req.URL),
		Description: strings.TrimSpace(req.Description),
		ProjectIDs:  projectIDs,
		FilterTypes: filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": created})
}

func (s *Server) ListWebhooks(c *gin.Context) {
	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	webhooks, err := s.webhookSvc.List(c.Request.Context(), orgID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": webhooks})
}

func (s *Server) GetWebhook(c *gin.Context) {
	id, err := parseIDParam(c, "webhook")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	webhook, err := s.webhookSvc.Get(c.Request.Context(), orgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": webhook})
}

func (s *Server) DeleteWebhook(c *gin.Context) {
	id, err := parseIDParam(c, "webhook")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	if err := s.webhookSvc.Delete(c.Request.Context(), orgID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}})
}

func (s *Server) ListEventTypes(c *gin.Context) {
	types, err := s.webhookSvc.ListEventTypes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": types})
}
