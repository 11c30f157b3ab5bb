package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unmapped errors
// return nil and pass through unchanged.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		return &APIError{
			Code:         "VALIDATION_ERROR",
			Message:      verr.Message,
			Details:      map[string]any{"field": verr.Field},
			RecoveryHint: "Fix the named parameter and retry",
		}
	}

	var nferr *errs.NotFoundError
	if errors.As(err, &nferr) {
		return &APIError{
			Code:         "NOT_FOUND",
			Message:      nferr.Error(),
			Details:      map[string]any{"resource": nferr.Resource, "id": nferr.ID},
			RecoveryHint: "Check the ID; the resource may have been deleted upstream",
		}
	}

	var terr *errs.TransportError
	if errors.As(err, &terr) {
		if terr.Retriable {
			return &APIError{
				Code:         "UPSTREAM_UNAVAILABLE",
				Message:      terr.Error(),
				Details:      map[string]any{"status": terr.Status},
				RecoveryHint: "The upstream service is rate limiting or degraded; retry after a short delay",
			}
		}
		return &APIError{
			Code:    "UPSTREAM_ERROR",
			Message: terr.Error(),
			Details: map[string]any{"status": terr.Status},
		}
	}

	return nil
}

// mapError converts a domain error for the tool response, passing
// through errors that carry no mapping.
func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
