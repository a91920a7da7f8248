package form

import (
	"sync"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
)

// Guard admits at most one submission at a time per form.
//
// idle -> submitting -> succeeded (terminal)
// idle -> submitting -> idle (failure recorded, or released unused)
type Guard struct {
	mu          sync.Mutex
	state       entity.SubmissionState
	lastFailure string
}

func NewGuard() *Guard {
	return &Guard{state: entity.StateIdle}
}

// Acquire moves idle to submitting. It returns false when another attempt
// is in flight or the form already succeeded.
func (g *Guard) Acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != entity.StateIdle {
		return false
	}
	g.state = entity.StateSubmitting
	return true
}

// Succeed ends the form's submission life. The guard is not re-armed.
func (g *Guard) Succeed() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == entity.StateSubmitting {
		g.state = entity.StateSucceeded
	}
}

// Release returns an admitted attempt that never dispatched to idle.
// The last failure is left as it was.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == entity.StateSubmitting {
		g.state = entity.StateIdle
	}
}

// Fail records reason and re-arms the guard for a fresh trigger.
func (g *Guard) Fail(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != entity.StateSubmitting {
		return
	}
	g.lastFailure = reason
	g.state = entity.StateIdle
}

// State returns the current state and the reason of the last failure, if any.
func (g *Guard) State() (entity.SubmissionState, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.lastFailure
}
