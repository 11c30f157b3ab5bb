package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/errs"
)

func TestValidationError(t *testing.T) {
	err := errs.Validation("limit", "must be positive, got %d", -3)
	require.Equal(t, "limit: must be positive, got -3", err.Error())
	require.True(t, errs.IsValidation(err))
	require.True(t, errs.IsValidation(fmt.Errorf("wrapped: %w", err)))
	require.False(t, errs.IsNotFound(err))
}

func TestNotFoundError(t *testing.T) {
	err := errs.NotFound("ticket", 42)
	require.Equal(t, "ticket 42 not found", err.Error())
	require.True(t, errs.IsNotFound(err))

	zero := &errs.NotFoundError{Resource: "sla policies"}
	require.Equal(t, "sla policies not found", zero.Error())
}

func TestTransportError(t *testing.T) {
	withStatus := &errs.TransportError{Op: "search", Status: 503, Body: "down", Retriable: true}
	require.Equal(t, "search: upstream returned 503: down", withStatus.Error())
	require.True(t, errs.IsTemporary(withStatus))

	inner := errors.New("connection refused")
	noStatus := &errs.TransportError{Op: "search", Err: inner}
	require.Equal(t, "search: connection refused", noStatus.Error())
	require.ErrorIs(t, noStatus, inner)
	require.False(t, errs.IsTemporary(noStatus))
}

func TestWrapOp(t *testing.T) {
	require.Nil(t, errs.WrapOp("op", nil))

	terr := &errs.TransportError{Op: "inner", Status: 429, Retriable: true}
	wrapped := errs.WrapOp("fetch candidates", terr)
	require.True(t, errs.IsTemporary(wrapped), "wrapping keeps the typed kind")

	var out *errs.TransportError
	require.ErrorAs(t, wrapped, &out)
	require.Equal(t, "fetch candidates", out.Op)

	plain := errs.WrapOp("fetch", errors.New("boom"))
	require.EqualError(t, plain, "fetch: boom")
}
