package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	credentialdomain "github.com/holaplex/hub-orgs/internal/credential/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type createCredentialRequest struct {
	Name       string   `json:"name" binding:"required"`
	ProjectIDs []string `json:"project_ids"`
}

func (s *Server) CreateCredential(c *gin.Context) {
	var req createCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	projectIDs, err := parseIDList("project_ids", req.ProjectIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	created, err := s.credentialSvc.Create(c.Request.Context(), orgID, callerFromContext(c), credentialdomain.CreateCredentialRequest{
		Name:       strings.TrimSpace(req.Name),
		ProjectIDs: projectIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": created})
}

func (s *Server) ListCredentials(c *gin.Context) {
	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	credentials, err := s.credentialSvc.List(c.Request.Context(), orgID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": credentials})
}

func (s *Server) GetCredential(c *gin.Context) {
	id, err := parseIDParam(c, "credential")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	credential, err := s.credentialSvc.Get(c.Request.Context(), orgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": credential})
}

func (s *Server) DeleteCredential(c *gin.Context) {
	id, err := parseIDParam(c, "credential")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	if err := s.credentialSvc.Delete(c.Request.Context(), orgID, id, callerFromContext(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}})
}
