// Package parallel runs batches of independent tasks on a fixed set of
// goroutines.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of workers with one queue each. An idle worker
// steals from the other queues before it sleeps; every submission wakes
// one sleeping worker.
//
// Pool is safe for concurrent use.
type Pool struct {
	queues []chan func()
	wake   chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
	open   atomic.Bool
}

// NewPool starts workers goroutines. Zero or negative uses GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(workers*4, 8)

	p := &Pool{
		queues: make([]chan func(), workers),
		wake:   make(chan struct{}, workers),
		done:   make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.open.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.work(i)
	}
	return p
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case fn := <-own:
			fn()
			continue
		case <-p.done:
			p.drain(own)
			return
		default:
		}
		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}
		select {
		case fn := <-own:
			fn()
		case <-p.wake:
		case <-p.done:
			p.drain(own)
			return
		}
	}
}

func (p *Pool) drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i, q := range p.queues {
		if i == id {
			continue
		}
		select {
		case fn := <-q:
			return fn
		default:
		}
	}
	return nil
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return len(p.queues) }

// ErrClosed is returned by Run on a closed pool.
var ErrClosed = errors.New("parallel: pool closed")

// Run executes tasks across the workers and waits for all of them. The
// returned slice holds each task's error at the task's index; err is the
// join of the non-nil ones.
func (p *Pool) Run(tasks []func() error) (errs []error, err error) {
	if !p.open.Load() {
		return nil, ErrClosed
	}
	errs = make([]error, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		fn := func() {
			defer wg.Done()
			errs[i] = task()
		}
		select {
		case p.queues[i%len(p.queues)] <- fn:
		case <-p.done:
			errs[i] = ErrClosed
			wg.Done()
			continue
		}
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
	wg.Wait()
	return errs, errors.Join(errs...)
}

// Close stops the workers after the queued tasks finish. It must not be
// called while Run is in progress. It is safe to call more than once.
func (p *Pool) Close() {
	if !p.open.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
