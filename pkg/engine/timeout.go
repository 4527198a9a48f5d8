package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/cornermesh/pkg/meshlog"
)

// DefaultTimeout is the hard limit for a single evaluation.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's limit.
	ErrTimeout = errors.New("engine: evaluation timed out")

	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a later call to Evaluate started.
	ErrSuperseded = errors.New("engine: evaluation superseded by a newer one")
)

// outcome carries what one evaluation goroutine produced.
type outcome struct {
	design *Design
	errors []EvalError
	err    error
}

// await blocks until the evaluation numbered gen reports on ch or the
// engine's timeout elapses. A goroutine left running after a timeout sends
// into a buffered channel nobody reads.
func (e *Engine) await(ch <-chan outcome, gen uint64) (*Design, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		latest := e.generation
		e.mu.Unlock()
		if gen != latest {
			return nil, nil, fmt.Errorf("%w (generation %d, latest %d)", ErrSuperseded, gen, latest)
		}
		return res.design, res.errors, res.err
	case <-timer.C:
		meshlog.Logger().Warn("engine: evaluation timed out", "generation", gen, "timeout", e.timeout)
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
