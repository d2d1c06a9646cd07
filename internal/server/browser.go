package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	affiliationdomain "github.com/holaplex/hub-orgs/internal/affiliation/domain"
)

type redirectResponse struct {
	RedirectPath string `json:"redirect_path"`
}

// BrowserLogin tells the front-end where to go after sign-in and pins the
// organization cookie when there is exactly one to choose.
func (s *Server) BrowserLogin(c *gin.Context) {
	userID, err := callerFromContext(c).RequireUser()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	route, err := s.affiliationSvc.LoginRoute(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if route.Organization != nil {
		s.setOrganizationCookie(c, *route.Organization)
	}

	c.JSON(http.StatusOK, redirectResponse{RedirectPath: route.Path})
}

func (s *Server) SelectOrganization(c *gin.Context) {
	userID, err := callerFromContext(c).RequireUser()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, err := parseIDParam(c, "organization")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.affiliationSvc.SelectOrganization(c.Request.Context(), userID, orgID); err != nil {
		AbortWithError(c, err)
		return
	}
	s.setOrganizationCookie(c, orgID)

	c.JSON(http.StatusOK, redirectResponse{RedirectPath: affiliationdomain.PathProjects})
}

func (s *Server) setOrganizationCookie(c *gin.Context, orgID uuid.UUID) {
	cfg := s.sessions.Get()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, orgID.String(), cfg.MaxAge, cfg.CookiePath, cfg.CookieDomain, cfg.Secure, true)
}
