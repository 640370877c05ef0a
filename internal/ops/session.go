// Package ops implements the template store operations on top of a
// persisted StorageData blob.
package ops

import (
	"context"
	"errors"
	"sync"

	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/rs/zerolog/log"
)

// queueSize bounds the number of mutations waiting for the writer.
const queueSize = 64

var (
	// errNoop is returned by a transformation that changed nothing. The
	// copy is discarded and the caller sees success.
	errNoop = errors.New("no change")

	// errSkipSave publishes the copy without writing it back.
	errSkipSave = errors.New("skip save")
)

// Transform mutates a private copy of the state. Returning an error
// discards the copy.
type Transform func(d *model.StorageData) error

type job struct {
	ctx context.Context
	op  string
	// prepare runs on the writer before the state is locked, for I/O the
	// transform depends on.
	prepare func(ctx context.Context) error
	fn      Transform
	result  chan error
}

// Session owns the in-memory state for one store. All mutations pass
// through a FIFO queue drained by a single writer goroutine, so each one
// starts from the result of the previous one.
type Session struct {
	store Store

	mu   sync.RWMutex
	data *model.StorageData

	qmu    sync.RWMutex
	closed bool
	queue  chan *job
	done   chan struct{}
}

// NewSession loads the current state from store and starts the writer.
// An absent blob yields defaults; any other read failure is returned.
func NewSession(ctx context.Context, store Store) (*Session, error) {
	d, err := storage.LoadData(ctx, store)
	if err != nil {
		return nil, &StorageError{Op: "load", Kind: KindRead, Cause: err}
	}

	s := &Session{
		store: store,
		data:  d,
		queue: make(chan *job, queueSize),
		done:  make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Close stops accepting work and waits for queued mutations to finish.
func (s *Session) Close() error {
	s.qmu.Lock()
	if s.closed {
		s.qmu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.qmu.Unlock()

	<-s.done
	return nil
}

// Snapshot returns a deep copy of the visible state.
func (s *Session) Snapshot() *model.StorageData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// view runs fn against the visible state under the read lock. fn must not
// retain d.
func (s *Session) view(fn func(d *model.StorageData)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Submit queues fn and returns a channel that receives its outcome. ctx
// only bounds the wait in the queue: once the writer has started a
// mutation it runs to completion.
func (s *Session) Submit(ctx context.Context, op string, fn Transform) <-chan error {
	return s.enqueue(&job{ctx: ctx, op: op, fn: fn})
}

func (s *Session) enqueue(j *job) <-chan error {
	res := make(chan error, 1)
	j.result = res

	s.qmu.RLock()
	defer s.qmu.RUnlock()
	if s.closed {
		res <- ErrSessionClosed
		return res
	}

	select {
	case s.queue <- j:
	case <-j.ctx.Done():
		res <- j.ctx.Err()
	}
	return res
}

// mutate submits fn and waits for the outcome.
func (s *Session) mutate(ctx context.Context, op string, fn Transform) error {
	return <-s.Submit(ctx, op, fn)
}

func (s *Session) run() {
	defer close(s.done)
	for j := range s.queue {
		j.result <- s.apply(j)
	}
}

// apply is the transactional step: snapshot, transform a copy, publish it,
// persist, and restore the snapshot if persisting fails.
func (s *Session) apply(j *job) error {
	if err := j.ctx.Err(); err != nil {
		log.Debug().Str("op", j.op).Msg("dropped before start")
		return err
	}
	if j.prepare != nil {
		if err := j.prepare(j.ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	before := s.data
	next := before.Clone()
	err := j.fn(next)
	switch {
	case errors.Is(err, errNoop):
		s.mu.Unlock()
		log.Debug().Str("op", j.op).Msg("no change")
		return nil
	case errors.Is(err, errSkipSave):
		s.data = next
		s.mu.Unlock()
		return nil
	case err != nil:
		s.mu.Unlock()
		return err
	}
	s.data = next
	s.mu.Unlock()

	if err := storage.SaveData(context.WithoutCancel(j.ctx), s.store, next); err != nil {
		s.mu.Lock()
		s.data = before
		s.mu.Unlock()
		log.Warn().Err(err).Str("op", j.op).Msg("write failed, state rolled back")
		return &StorageError{Op: j.op, Kind: KindWrite, Cause: err}
	}

	log.Debug().
		Str("op", j.op).
		Int("groups", len(next.Groups)).
		Int("templates", len(next.Templates)).
		Msg("committed")
	return nil
}

// Reload replaces the visible state with the stored blob. It waits behind
// queued mutations; readers are not blocked while the blob loads.
func (s *Session) Reload(ctx context.Context) error {
	var loaded *model.StorageData
	return <-s.enqueue(&job{
		ctx: ctx,
		op:  "reload",
		prepare: func(ctx context.Context) error {
			d, err := storage.LoadData(ctx, s.store)
			if err != nil {
				return &StorageError{Op: "reload", Kind: KindRead, Cause: err}
			}
			loaded = d
			return nil
		},
		fn: func(d *model.StorageData) error {
			*d = *loaded
			return errSkipSave
		},
	})
}
