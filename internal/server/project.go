package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	projectdomain "github.com/holaplex/hub-orgs/internal/project/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type createProjectRequest struct {
	Name            string  `json:"name" binding:"required"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type editProjectRequest struct {
	Name            *string `json:"name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	project, err := s.projectSvc.Create(c.Request.Context(), orgID, callerFromContext(c), projectdomain.CreateProjectRequest{
		Name:            strings.TrimSpace(req.Name),
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) ListProjects(c *gin.Context) {
	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	projects, err := s.projectSvc.List(c.Request.Context(), orgID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": projects})
}

func (s *Server) GetProject(c *gin.Context) {
	id, err := parseIDParam(c, "project")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	project, err := s.projectSvc.Get(c.Request.Context(), orgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) EditProject(c *gin.Context) {
	id, err := parseIDParam(c, "project")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req editProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	project, err := s.projectSvc.Edit(c.Request.Context(), orgID, id, projectdomain.EditProjectRequest{
		Name:            req.Name,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) DeactivateProject(c *gin.Context) {
	id, err := parseIDParam(c, "project")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	project, err := s.projectSvc.Deactivate(c.Request.Context(), orgID, id, callerFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}
