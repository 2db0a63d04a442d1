package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
)

// RequestType names a query on the message surface.
type RequestType string

const (
	// RequestGetState returns the persisted state snapshot.
	RequestGetState RequestType = "getState"
	// RequestResetTotals resets all totals to their defaults.
	RequestResetTotals RequestType = "resetTotals"
)

// ErrUnknownRequest is reported for request types the manager does not serve.
var ErrUnknownRequest = errors.New("unknown request")

// Request is a presentation-layer query.
type Request struct {
	Type RequestType `json:"type"`
}

// Response answers a Request. State is set for getState.
type Response struct {
	OK    bool          `json:"ok"`
	State *models.State `json:"state,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Handle serves one request.
func (m *Manager) Handle(ctx context.Context, req Request) Response {
	switch req.Type {
	case RequestGetState:
		state, err := m.database.ReadState(ctx)
		if err != nil {
			logger.Error("getState failed", "error", err)
			return errorResponse(err)
		}
		return Response{OK: true, State: &state}

	case RequestResetTotals:
		if err := m.tracker.Reset(ctx); err != nil {
			logger.Error("resetTotals failed", "error", err)
			return errorResponse(err)
		}
		m.publishState(ctx)
		return Response{OK: true}

	default:
		return errorResponse(fmt.Errorf("%w: %q", ErrUnknownRequest, req.Type))
	}
}

func errorResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
