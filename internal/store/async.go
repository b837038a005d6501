package store

import (
	"context"
	"errors"
	"maps"

	"github.com/sirupsen/logrus"
)

// Action is a state transition request applied by Store.Dispatch
type Action interface {
	ActionType() string
}

// Phase is the lifecycle stage of an async operation
type Phase string

const (
	PhaseIdle      Phase = ""
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

// AsyncAction reports one phase of an async operation identified by Op.
// Payload is only meaningful when Phase is PhaseFulfilled and Error only
// when Phase is PhaseRejected.
type AsyncAction[T any] struct {
	Op      string
	Phase   Phase
	Payload T
	Error   string
}

// ActionType returns "<op>/<phase>"
func (a AsyncAction[T]) ActionType() string {
	return a.Op + "/" + string(a.Phase)
}

// Pending builds the pending action for op
func Pending[T any](op string) AsyncAction[T] {
	return AsyncAction[T]{Op: op, Phase: PhasePending}
}

// Fulfilled builds the fulfilled action for op carrying payload
func Fulfilled[T any](op string, payload T) AsyncAction[T] {
	return AsyncAction[T]{Op: op, Phase: PhaseFulfilled, Payload: payload}
}

// Rejected builds the rejected action for op carrying a normalized message
func Rejected[T any](op string, message string) AsyncAction[T] {
	return AsyncAction[T]{Op: op, Phase: PhaseRejected, Error: message}
}

// RequestStatus is the per-operation status record kept next to the
// coarse Loading/Error fields of a slice
type RequestStatus struct {
	Phase Phase
	Error string
}

// Requests maps operation names to their last known status
type Requests map[string]RequestStatus

// Status returns the recorded status for op, PhaseIdle when none
func (r Requests) Status(op string) RequestStatus {
	return r[op]
}

// with returns a copy of r with op set to status. r itself is never mutated
// so older state snapshots stay valid.
func (r Requests) with(op string, status RequestStatus) Requests {
	next := make(Requests, len(r)+1)
	maps.Copy(next, r)
	next[op] = status
	return next
}

// track records the phase of a in r
func track[T any](r Requests, a AsyncAction[T]) Requests {
	return r.with(a.Op, RequestStatus{Phase: a.Phase, Error: a.Error})
}

// messageCarrier is implemented by errors that hold a server supplied message
type messageCarrier interface {
	ServerMessage() string
}

// NormalizeError turns a failure cause into the human readable message
// stored in state. A server failure without a message yields fallback.
func NormalizeError(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var mc messageCarrier
	if errors.As(err, &mc) {
		if msg := mc.ServerMessage(); msg != "" {
			return msg
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// runAsync drives one async operation through its lifecycle: it dispatches
// pending, performs call and dispatches fulfilled or rejected. The returned
// error is informational; the state already reflects the outcome.
func runAsync[T any](ctx context.Context, s *Store, op, fallback string, call func(context.Context) (T, error)) (T, error) {
	entry := log.WithField("op", op)
	s.Dispatch(Pending[T](op))
	entry.Debug("Async operation started")

	payload, err := call(ctx)
	if err != nil {
		message := NormalizeError(err, fallback)
		entry.WithFields(logrus.Fields{
			"error":   err.Error(),
			"message": message,
		}).Warn("Async operation rejected")
		s.Dispatch(Rejected[T](op, message))
		var zero T
		return zero, err
	}

	s.Dispatch(Fulfilled(op, payload))
	entry.Debug("Async operation fulfilled")
	return payload, nil
}
