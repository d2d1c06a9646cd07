package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/holaplex/hub-orgs/internal/affiliation/domain"
	"github.com/holaplex/hub-orgs/internal/authorization"
	credentialdomain "github.com/holaplex/hub-orgs/internal/credential/domain"
	"github.com/holaplex/hub-orgs/internal/identity"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	projectdomain "github.com/holaplex/hub-orgs/internal/project/domain"
	"github.com/holaplex/hub-orgs/internal/providers"
	webhookdomain "github.com/holaplex/hub-orgs/internal/webhook/domain"
	"github.com/holaplex/hub-orgs/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: messageFor(err, ErrUnauthorized),
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: messageFor(err, ErrForbidden),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: messageFor(err, ErrNotFound),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: messageFor(err, ErrConflict),
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "rate limited",
		}
	case providers.IsUpstream(err):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: err.Error(),
		}
	default:
		// Callers are trusted services, so persistence failures are not masked.
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: err.Error(),
		}
	}
}

// messageFor keeps the domain wording ("user email does not match the invite")
// and falls back to the generic sentinel text for transport errors.
func messageFor(err, generic error) string {
	if errors.Is(err, generic) {
		return strings.ReplaceAll(generic.Error(), "_", " ")
	}
	return strings.ReplaceAll(rootError(err).Error(), "_", " ")
}

func rootError(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, identity.ErrInvalidUserID),
		errors.Is(err, identity.ErrInvalidOrganizationID),
		errors.Is(err, identity.ErrMissingOrganizationID),
		errors.Is(err, authorization.ErrInvalidActor),
		errors.Is(err, authorization.ErrInvalidOrganization):
		return true
	case isOrganizationValidationError(err),
		isProjectValidationError(err),
		isMembershipValidationError(err),
		isCredentialValidationError(err),
		isWebhookValidationError(err):
		return true
	default:
		return false
	}
}

func isOrganizationValidationError(err error) bool {
	return errors.Is(err, orgdomain.ErrInvalidName) ||
		errors.Is(err, orgdomain.ErrInvalidSlug)
}

func isProjectValidationError(err error) bool {
	return errors.Is(err, projectdomain.ErrInvalidName)
}

func isMembershipValidationError(err error) bool {
	return errors.Is(err, memberdomain.ErrInvalidEmail) ||
		errors.Is(err, memberdomain.ErrInvalidStatus)
}

func isCredentialValidationError(err error) bool {
	return errors.Is(err, credentialdomain.ErrInvalidName)
}

func isWebhookValidationError(err error) bool {
	return errors.Is(err, webhookdomain.ErrInvalidURL) ||
		errors.Is(err, webhookdomain.ErrInvalidFilterType)
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identity.ErrAuthenticationRequired),
		errors.Is(err, domain.ErrNotAffiliated):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, memberdomain.ErrEmailMismatch):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, memberdomain.ErrInviteNotFound),
		errors.Is(err, memberdomain.ErrMemberNotFound),
		errors.Is(err, credentialdomain.ErrNotFound),
		errors.Is(err, webhookdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, memberdomain.ErrInviteAlreadyExists),
		errors.Is(err, memberdomain.ErrInviteNotPending),
		errors.Is(err, memberdomain.ErrInviteAlreadyUsed),
		errors.Is(err, projectdomain.ErrAlreadyDeactivated),
		errors.Is(err, webhookdomain.ErrApplicationMissing),
		db.IsDuplicateKeyErr(err):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return rootError(err).Error()
	}
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case identity.ErrInvalidUserID.Error():
		return identity.HeaderUserID
	case identity.ErrInvalidOrganizationID.Error(), identity.ErrMissingOrganizationID.Error():
		return identity.HeaderOrganizationID
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case identity.ErrMissingOrganizationID.Error():
		return "missing organization header"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog reuses the response mapping so logs and bodies agree.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError && payload.Type == "internal_error" {
		return "internal", code
	}
	return payload.Type, code
}
