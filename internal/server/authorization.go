package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/holaplex/hub-orgs/internal/identity"
)

func (s *Server) authorizeOrgAction(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorizeOrgActionWithContext(c, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) authorizeOrgActionWithContext(c *gin.Context, object string, action string) error {
	userID, err := callerFromContext(c).RequireUser()
	if err != nil {
		return err
	}

	orgID, ok := orgIDFromContext(c)
	if !ok {
		return identity.ErrMissingOrganizationID
	}

	if s.authzSvc == nil {
		return ErrForbidden
	}
	return s.authzSvc.Authorize(c.Request.Context(), userID, orgID, strings.TrimSpace(object), strings.TrimSpace(action))
}
