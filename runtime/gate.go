package runtime

import (
	"karaoke-queue/errors"
	"sync/atomic"
)

type GateState int32

const (
	GateIdle GateState = iota
	GateBusy
)

func (s GateState) String() string {
	if s == GateBusy {
		return "busy"
	}
	return "idle"
}

// MutationGate lets at most one queue mutation run at a time.
// It is not a lock: a request arriving while the gate is busy is rejected
// immediately, never queued nor retried.
type MutationGate struct {
	state atomic.Int32
}

func NewMutationGate() *MutationGate {
	return &MutationGate{}
}

// RunExclusive runs action if the gate is idle and reports whether it ran.
// The gate goes back to idle on every exit path of action, including panics,
// which are propagated once the gate is released.
func (g *MutationGate) RunExclusive(action func() error) (bool, error) {
	if !g.state.CompareAndSwap(int32(GateIdle), int32(GateBusy)) {
		return false, errors.ErrMutationInProgress
	}
	defer g.state.Store(int32(GateIdle))
	return true, action()
}

func (g *MutationGate) State() GateState {
	return GateState(g.state.Load())
}
