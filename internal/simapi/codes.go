package simapi

import (
	"errors"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"predsim/internal/protocol"
	"predsim/internal/sim/config"
	"predsim/internal/sim/control"
)

// CodeFor maps a boundary-layer error to its stable protocol code.
func CodeFor(err error) string {
	if err == nil {
		return ""
	}
	var sve *jsonschema.ValidationError
	switch {
	case config.IsValidation(err), errors.As(err, &sve):
		return protocol.ErrValidation
	case control.IsInvalidState(err):
		return protocol.ErrInvalidState
	case errors.Is(err, ErrUnknownHandle):
		return protocol.ErrUnknownHandle
	case errors.Is(err, ErrHandlesLive):
		return protocol.ErrHandlesLive
	default:
		return protocol.ErrInternal
	}
}

// StatusMsg converts a controller snapshot to its boundary form.
func StatusMsg(s control.Status) protocol.StatusMsg {
	return protocol.StatusMsg{
		PredatorCount: s.PredatorCount,
		PreyCount:     s.PreyCount,
		CurrentStep:   s.CurrentStep,
		IsRunning:     s.Running,
		IsPaused:      s.Paused,
	}
}

// ResultMsg converts a result snapshot to its boundary form. The histories
// are already copies owned by the caller.
func ResultMsg(res control.Result) protocol.ResultMsg {
	return protocol.ResultMsg{
		FinalPredatorCount:  res.FinalPredatorCount,
		FinalPreyCount:      res.FinalPreyCount,
		NormalizedPreyCount: res.NormalizedPreyCount,
		ExecutionTimeMs:     res.ExecutionTimeMs,
		TimeSteps:           res.TimeSteps,
		PredatorHistory:     res.PredatorHistory,
		PreyHistory:         res.PreyHistory,
	}
}
