package runtime

import (
	stderrors "errors"
	"karaoke-queue/errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutationGate_Runs_Action_And_Releases(t *testing.T) {
	req := require.New(t)
	gate := NewMutationGate()
	var stateDuringAction GateState

	ran, err := gate.RunExclusive(func() error {
		stateDuringAction = gate.State()
		return nil
	})

	req.True(ran)
	req.NoError(err)
	req.Equal(GateBusy, stateDuringAction)
	req.Equal(GateIdle, gate.State())
}

func TestMutationGate_Drops_Nested_Request(t *testing.T) {
	req := require.New(t)
	gate := NewMutationGate()
	nestedRan := false

	ran, err := gate.RunExclusive(func() error {
		// When a second mutation is requested from inside the first one
		innerRan, innerErr := gate.RunExclusive(func() error {
			nestedRan = true
			return nil
		})
		// Then it is rejected right away
		req.False(innerRan)
		req.ErrorIs(innerErr, errors.ErrMutationInProgress)
		return nil
	})

	req.True(ran)
	req.NoError(err)
	req.False(nestedRan)
	req.Equal(GateIdle, gate.State())
}

func TestMutationGate_Releases_On_Error(t *testing.T) {
	req := require.New(t)
	gate := NewMutationGate()
	boom := stderrors.New("boom")

	ran, err := gate.RunExclusive(func() error { return boom })

	req.True(ran)
	req.ErrorIs(err, boom)
	req.Equal(GateIdle, gate.State())

	// And the gate accepts the next request
	ran, err = gate.RunExclusive(func() error { return nil })
	req.True(ran)
	req.NoError(err)
}

func TestMutationGate_Releases_On_Panic(t *testing.T) {
	req := require.New(t)
	gate := NewMutationGate()

	req.PanicsWithValue("render exploded", func() {
		_, _ = gate.RunExclusive(func() error { panic("render exploded") })
	})

	req.Equal(GateIdle, gate.State())
}

func TestMutationGate_Contention_Does_Not_Block(t *testing.T) {
	req := require.New(t)
	gate := NewMutationGate()
	entered := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup

	// Given a long mutation holding the gate
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = gate.RunExclusive(func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	// When other goroutines try to mutate
	var ranCount atomic.Int32
	for i := 0; i < 10; i++ {
		ran, err := gate.RunExclusive(func() error {
			ranCount.Add(1)
			return nil
		})
		req.False(ran)
		req.ErrorIs(err, errors.ErrMutationInProgress)
	}

	close(release)
	wg.Wait()

	// Then none of them ran, and the gate is idle again
	req.Equal(int32(0), ranCount.Load())
	req.Equal(GateIdle, gate.State())
}
