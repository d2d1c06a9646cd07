package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/holaplex/hub-orgs/internal/identity"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	"github.com/holaplex/hub-orgs/pkg/db/pagination"
)

type inviteMemberRequest struct {
	Email string `json:"email" binding:"required"`
}

func (s *Server) InviteMember(c *gin.Context) {
	var req inviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	invite, err := s.membershipSvc.InviteMember(c.Request.Context(), orgID, callerFromContext(c), memberdomain.InviteMemberRequest{
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invite})
}

func (s *Server) ListInvites(c *gin.Context) {
	var query struct {
		pagination.Page
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status, err := parseOptionalInviteStatus(query.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	invites, err := s.membershipSvc.ListInvites(c.Request.Context(), orgID, memberdomain.ListInvitesRequest{
		Status: status,
		Page:   query.Page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invites})
}

func (s *Server) GetInvite(c *gin.Context) {
	id, err := parseIDParam(c, "invite")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invite, err := s.membershipSvc.GetInvite(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invite})
}

func (s *Server) AcceptInvite(c *gin.Context) {
	id, err := parseIDParam(c, "invite")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invite, err := s.membershipSvc.AcceptInvite(c.Request.Context(), id, callerFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invite})
}

func (s *Server) RevokeInvite(c *gin.Context) {
	id, err := parseIDParam(c, "invite")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	invite, err := s.membershipSvc.RevokeInvite(c.Request.Context(), orgID, id, callerFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invite})
}

func (s *Server) ListMembers(c *gin.Context) {
	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, _ := orgIDFromContext(c)
	members, err := s.membershipSvc.ListMembers(c.Request.Context(), orgID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (s *Server) GetMember(c *gin.Context) {
	id, err := parseIDParam(c, "member")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	member, err := s.membershipSvc.GetMember(c.Request.Context(), orgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": member})
}

func (s *Server) DeactivateMember(c *gin.Context) {
	s.changeMemberState(c, s.membershipSvc.DeactivateMember)
}

func (s *Server) ReactivateMember(c *gin.Context) {
	s.changeMemberState(c, s.membershipSvc.ReactivateMember)
}

type memberStateFunc func(ctx context.Context, orgID, memberID uuid.UUID, caller identity.Identity) (*memberdomain.Member, error)

func (s *Server) changeMemberState(c *gin.Context, apply memberStateFunc) {
	id, err := parseIDParam(c, "member")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgID, _ := orgIDFromContext(c)
	member, err := apply(c.Request.Context(), orgID, id, callerFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": member})
}
