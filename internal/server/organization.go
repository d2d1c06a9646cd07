package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	affiliationdomain "github.com/holaplex/hub-orgs/internal/affiliation/domain"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type createOrganizationRequest struct {
	Name            string  `json:"name" binding:"required"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type editOrganizationRequest struct {
	Name            *string `json:"name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), callerFromContext(c), orgdomain.CreateOrganizationRequest{
		Name:            strings.TrimSpace(req.Name),
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) GetOrganization(c *gin.Context) {
	orgID, _ := orgIDFromContext(c)

	org, err := s.organizationSvc.Get(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) EditOrganization(c *gin.Context) {
	var req editOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	org, err := s.organizationSvc.Edit(c.Request.Context(), orgID, orgdomain.EditOrganizationRequest{
		Name:            req.Name,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": org})
}

// GetOrganizationBySlug only resolves organizations the caller owns or belongs
// to. Any other slug reads as not found.
func (s *Server) GetOrganizationBySlug(c *gin.Context) {
	userID, err := callerFromContext(c).RequireUser()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	org, err := s.organizationSvc.GetBySlug(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.affiliationSvc.SelectOrganization(c.Request.Context(), userID, org.ID); err != nil {
		if errors.Is(err, affiliationdomain.ErrNotAffiliated) {
			err = orgdomain.ErrNotFound
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) ListAffiliations(c *gin.Context) {
	userID, err := callerFromContext(c).RequireUser()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	affiliations, err := s.affiliationSvc.List(c.Request.Context(), userID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": affiliations})
}
