package jobs

import "time"

// Handle tracks completion of a scheduled job. A nil *Handle is treated
// as already complete, so it can be passed as "no dependency".
type Handle struct {
	done chan struct{}

	// Written before done is closed.
	started, finished time.Time
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Completed returns a handle that is already complete.
func Completed() *Handle {
	h := newHandle()
	h.started = time.Now()
	h.finished = h.started
	close(h.done)
	return h
}

// Complete blocks until the job and everything it depends on has finished.
// Writes made by the job are visible once Complete returns.
func (h *Handle) Complete() {
	if h == nil {
		return
	}
	<-h.done
}

// IsCompleted reports whether the job has finished without blocking.
func (h *Handle) IsCompleted() bool {
	if h == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the job finishes.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		return Completed().done
	}
	return h.done
}

// Elapsed returns how long the job ran once its dependency was met.
// Zero until the job completes.
func (h *Handle) Elapsed() time.Duration {
	if h == nil || !h.IsCompleted() {
		return 0
	}
	return h.finished.Sub(h.started)
}

// Finished returns when the job completed, or the zero time if it has not.
func (h *Handle) Finished() time.Time {
	if h == nil || !h.IsCompleted() {
		return time.Time{}
	}
	return h.finished
}

// CombineDependencies returns a handle that completes once all of hs have.
func CombineDependencies(hs ...*Handle) *Handle {
	pending := make([]*Handle, 0, len(hs))
	for _, h := range hs {
		if !h.IsCompleted() {
			pending = append(pending, h)
		}
	}
	if len(pending) == 0 {
		return Completed()
	}

	combined := newHandle()
	combined.started = time.Now()
	go func() {
		for _, h := range pending {
			h.Complete()
		}
		combined.finished = time.Now()
		close(combined.done)
	}()
	return combined
}
