// Package jobs schedules data-parallel work over a flat index space.
//
// A job is a function of one index. ScheduleParallel splits the index
// range into contiguous batches and hands them to a persistent worker
// pool; the returned Handle completes once every index has run. Jobs can
// depend on other jobs' handles, which gives a happens-before edge from
// everything the dependency wrote to everything the dependent job reads.
package jobs

import (
	"runtime"
	"sync"
	"time"
)

// parallelThreshold is the minimum index count to use the worker pool.
// Below this, running on the dispatching goroutine is faster.
const parallelThreshold = 8

// workChunk is a contiguous index range for a worker to process.
type workChunk struct {
	start, end int
	exec       func(i int)
	done       *sync.WaitGroup
}

// Pool is a set of persistent worker goroutines shared by all jobs.
// Workers start lazily on the first parallel job.
type Pool struct {
	numWorkers int

	// mu is held for reading while a job dispatches and waits on its
	// chunks, and for writing while workers start or stop.
	mu       sync.RWMutex
	workChan chan workChunk
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewPool creates a pool with numWorkers workers, or GOMAXPROCS workers
// if numWorkers < 1.
func NewPool(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: numWorkers}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// start launches the worker goroutines.
func (p *Pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(p.workChan, p.stopChan)
	}
}

// Stop signals all workers to exit and waits for them. Jobs already
// dispatching finish first; a later job restarts the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	p.running = false
}

// worker processes chunks until stopped.
func (p *Pool) worker(work <-chan workChunk, stop <-chan struct{}) {
	defer p.wg.Done()

	for {
		select {
		case <-stop:
			return
		case chunk := <-work:
			for i := chunk.start; i < chunk.end; i++ {
				chunk.exec(i)
			}
			chunk.done.Done()
		}
	}
}

// ScheduleParallel runs exec for every index in [0, length) once dep has
// completed, batch indices per chunk. It returns immediately; chunks run
// in any order on any worker, so exec must only write state owned by its
// index.
func (p *Pool) ScheduleParallel(length, batch int, dep *Handle, exec func(i int)) *Handle {
	h := newHandle()
	go func() {
		dep.Complete()
		h.started = time.Now()
		p.run(length, batch, exec)
		h.finished = time.Now()
		close(h.done)
	}()
	return h
}

// Run is ScheduleParallel followed by Complete.
func (p *Pool) Run(length, batch int, exec func(i int)) {
	p.ScheduleParallel(length, batch, nil, exec).Complete()
}

// run dispatches chunks and waits for all of them.
func (p *Pool) run(length, batch int, exec func(i int)) {
	if length <= 0 {
		return
	}
	if batch < 1 {
		batch = 1
	}

	if length < parallelThreshold {
		for i := 0; i < length; i++ {
			exec(i)
		}
		return
	}

	for {
		p.mu.RLock()
		if p.running {
			break
		}
		p.mu.RUnlock()
		p.start()
	}
	defer p.mu.RUnlock()

	var chunks sync.WaitGroup
	for start := 0; start < length; start += batch {
		end := min(start+batch, length)
		chunks.Add(1)
		p.workChan <- workChunk{start: start, end: end, exec: exec, done: &chunks}
	}
	chunks.Wait()
}
