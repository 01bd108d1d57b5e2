package ragdoll

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrBackendUnavailable reports that the physics backend failed to
// initialize. Build entry points return it and leave the rig off; the load
// is attempted again on the next call.
var ErrBackendUnavailable = errors.New("physics backend unavailable")

// BackendProbe initializes the physics backend once. The default probe
// stands up the built-in solver and never fails; hosts with an external
// backend substitute their own.
type BackendProbe func() error

type backendState struct {
	err error
}

// backendLoader performs the lazy one-time backend load. The loaded state is
// published through an atomic pointer so readiness checks stay off the lock.
type backendLoader struct {
	mu    sync.Mutex
	probe BackendProbe
	state atomic.Pointer[backendState]
}

func (l *backendLoader) setProbe(probe BackendProbe) {
	l.mu.Lock()
	l.probe = probe
	l.state.Store(nil)
	l.mu.Unlock()
}

func (l *backendLoader) ready() bool {
	st := l.state.Load()
	return st != nil && st.err == nil
}

// ensureReady loads the backend if it is not loaded yet. A failed load is
// not sticky; the next call probes again.
func (l *backendLoader) ensureReady() error {
	if l.ready() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready() {
		return nil
	}
	var err error
	if l.probe != nil {
		err = l.probe()
	}
	if err != nil {
		l.state.Store(&backendState{err: err})
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	l.state.Store(&backendState{})
	return nil
}
