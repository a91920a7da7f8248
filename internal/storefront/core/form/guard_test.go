package form

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
)

func TestGuard_startsIdle(t *testing.T) {
	g := NewGuard()
	if state, _ := g.State(); state != entity.StateIdle {
		t.Errorf("expected idle, got %s", state)
	}
	if !g.Acquire() {
		t.Error("expected new guard to admit an attempt")
	}
}

func TestGuard_Acquire_isSingleFlight(t *testing.T) {
	g := NewGuard()
	if !g.Acquire() {
		t.Fatal("first Acquire should succeed")
	}
	if g.Acquire() {
		t.Error("second Acquire should be rejected while submitting")
	}
	if state, _ := g.State(); state != entity.StateSubmitting {
		t.Errorf("expected submitting, got %s", state)
	}
}

func TestGuard_Fail_rearms(t *testing.T) {
	g := NewGuard()
	g.Acquire()
	g.Fail("cart service down")

	state, reason := g.State()
	if state != entity.StateIdle {
		t.Errorf("expected idle after failure, got %s", state)
	}
	if reason != "cart service down" {
		t.Errorf("expected failure reason recorded, got %q", reason)
	}
	if !g.Acquire() {
		t.Error("expected guard to admit a retry after failure")
	}
}

func TestGuard_Release_rearmsWithoutRecordingFailure(t *testing.T) {
	g := NewGuard()
	g.Acquire()
	g.Fail("timeout")
	g.Acquire()
	g.Release()

	state, reason := g.State()
	if state != entity.StateIdle {
		t.Errorf("expected idle after release, got %s", state)
	}
	if reason != "timeout" {
		t.Errorf("expected earlier failure kept, got %q", reason)
	}
	if !g.Acquire() {
		t.Error("expected guard to admit an attempt after release")
	}
}

func TestGuard_Release_ignoredAfterSuccess(t *testing.T) {
	g := NewGuard()
	g.Acquire()
	g.Succeed()
	g.Release()

	if state, _ := g.State(); state != entity.StateSucceeded {
		t.Errorf("Release after success changed state to %s", state)
	}
}

func TestGuard_Succeed_isTerminal(t *testing.T) {
	g := NewGuard()
	g.Acquire()
	g.Succeed()

	if state, _ := g.State(); state != entity.StateSucceeded {
		t.Errorf("expected succeeded, got %s", state)
	}
	if g.Acquire() {
		t.Error("expected no new attempt after success")
	}
	g.Fail("late failure")
	if state, _ := g.State(); state != entity.StateSucceeded {
		t.Errorf("Fail after success changed state to %s", state)
	}
}

func TestGuard_Succeed_ignoredWhenIdle(t *testing.T) {
	g := NewGuard()
	g.Succeed()
	if state, _ := g.State(); state != entity.StateIdle {
		t.Errorf("expected idle, got %s", state)
	}
}

func TestGuard_Acquire_concurrentCallersAdmitOne(t *testing.T) {
	g := NewGuard()
	var admitted int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Acquire() {
				atomic.AddInt32(&admitted, 1)
			}
		}()
	}
	wg.Wait()
	if admitted != 1 {
		t.Errorf("expected exactly one admission, got %d", admitted)
	}
}
