package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
)

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || parsed == uuid.Nil {
		return uuid.Nil, newValidationError(name, "invalid_"+name+"_id", "invalid "+name+" id")
	}
	return parsed, nil
}

func parseIDList(field string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		parsed, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, newValidationError(field, "invalid_"+field, "invalid "+field)
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}

func parseOptionalInviteStatus(value string) (*memberdomain.InviteStatus, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return nil, nil
	}
	status := memberdomain.InviteStatus(trimmed)
	if !status.Valid() {
		return nil, memberdomain.ErrInvalidStatus
	}
	return &status, nil
}
