package store

import (
	"context"
	"slices"
	"sync"

	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/utils"
)

// Backend is the remote collection a Store mirrors
type Backend[T model.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, entity T) (T, model.Alert, error)
	Update(ctx context.Context, entity T) (T, model.Alert, error)
	Delete(ctx context.Context, id int64) (model.Alert, error)
}

// Operation names the backend call behind a state change
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (op Operation) mutating() bool {
	return op == OpCreate || op == OpUpdate || op == OpDelete
}

// Snapshot is an immutable view of the store state. Callers own their copy.
type Snapshot[T model.Entity] struct {
	Entity        T
	Entities      []T
	Loading       bool
	Updating      bool
	UpdateSuccess bool
	Err           error
	Alert         model.Alert
	Version       uint64
}

func (s Snapshot[T]) clone() Snapshot[T] {
	s.Entities = slices.Clone(s.Entities)
	return s
}

// Result is the outcome of a mutating call
type Result[T model.Entity] struct {
	Op        Operation
	Entity    T
	Succeeded bool
	Alert     model.Alert
	Err       error
	Snapshot  Snapshot[T]
}

// Store holds the current state of one entity type. A completion only replaces
// the current snapshot when it belongs to the most recently dispatched call.
type Store[T model.Entity] struct {
	name    string
	backend Backend[T]

	mu       sync.Mutex
	current  Snapshot[T]
	dispatch uint64
	reads    int // list and get-one calls in flight
	writes   int // create, update and delete calls in flight
}

func New[T model.Entity](name string, backend Backend[T]) *Store[T] {
	return &Store[T]{name: name, backend: backend}
}

// Current returns a copy of the current snapshot
func (s *Store[T]) Current() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// Reset returns the store to its initial state. Calls still in flight become stale.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch++
	s.current = Snapshot[T]{Version: s.current.Version + 1}
	s.syncFlags(&s.current)
}

// syncFlags derives the pending flags from the calls still in flight. Callers hold mu.
func (s *Store[T]) syncFlags(snap *Snapshot[T]) {
	snap.Loading = s.reads > 0
	snap.Updating = s.writes > 0
}

// ListAll fetches the full collection
func (s *Store[T]) ListAll(ctx context.Context) (Snapshot[T], error) {
	seq, started := s.begin(OpList)
	entities, err := s.backend.List(ctx)
	snap := s.commit(seq, started, OpList, err, func(snap *Snapshot[T]) {
		snap.Entities = entities
	})
	return snap, err
}

// GetOne fetches a single record into the current entity
func (s *Store[T]) GetOne(ctx context.Context, id int64) (Snapshot[T], error) {
	seq, started := s.begin(OpGet)
	entity, err := s.backend.Get(ctx, id)
	snap := s.commit(seq, started, OpGet, err, func(snap *Snapshot[T]) {
		snap.Entity = entity
	})
	return snap, err
}

// Save creates the entity when it has no id and updates it otherwise
func (s *Store[T]) Save(ctx context.Context, entity T) (Result[T], error) {
	op := OpCreate
	if _, ok := entity.Identifier(); ok {
		op = OpUpdate
	}

	seq, started := s.begin(op)
	var (
		saved T
		alert model.Alert
		err   error
	)
	if op == OpCreate {
		saved, alert, err = s.backend.Create(ctx, entity)
	} else {
		saved, alert, err = s.backend.Update(ctx, entity)
	}
	snap := s.commit(seq, started, op, err, func(snap *Snapshot[T]) {
		snap.Entity = saved
		snap.Alert = alert
	})
	return Result[T]{Op: op, Entity: saved, Succeeded: err == nil, Alert: alert, Err: err, Snapshot: snap}, err
}

// Remove deletes the record with id and drops it from the current state
func (s *Store[T]) Remove(ctx context.Context, id int64) (Result[T], error) {
	seq, started := s.begin(OpDelete)
	alert, err := s.backend.Delete(ctx, id)
	snap := s.commit(seq, started, OpDelete, err, func(snap *Snapshot[T]) {
		var zero T
		snap.Entity = zero
		snap.Alert = alert
		snap.Entities = slices.DeleteFunc(snap.Entities, func(e T) bool {
			eid, ok := e.Identifier()
			return ok && eid == id
		})
	})
	return Result[T]{Op: OpDelete, Succeeded: err == nil, Alert: alert, Err: err, Snapshot: snap}, err
}

// begin marks a call as dispatched and publishes its pending flags
func (s *Store[T]) begin(op Operation) (uint64, Snapshot[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatch++
	snap := s.current.clone()
	snap.Err = nil
	if op.mutating() {
		s.writes++
		snap.UpdateSuccess = false
	} else {
		s.reads++
	}
	s.syncFlags(&snap)
	snap.Version++
	s.current = snap
	return s.dispatch, snap.clone()
}

// commit applies a completion. Stale completions only shape the caller's own
// snapshot, but still release their pending flag on the current one.
func (s *Store[T]) commit(seq uint64, started Snapshot[T], op Operation, err error, apply func(*Snapshot[T])) Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if op.mutating() {
		s.writes--
	} else {
		s.reads--
	}

	latest := seq == s.dispatch
	snap := started
	if latest {
		snap = s.current.clone()
	}
	s.syncFlags(&snap)

	if err != nil {
		snap.Err = err
		if op.mutating() {
			snap.UpdateSuccess = false
		}
		utils.Warn("store call failed", map[string]any{
			"store": s.name,
			"op":    string(op),
			"error": err.Error(),
		})
	} else {
		apply(&snap)
		if op.mutating() {
			snap.UpdateSuccess = true
		}
	}

	if !latest {
		utils.Debug("stale completion dropped", map[string]any{"store": s.name, "op": string(op)})
		s.syncFlags(&s.current)
		s.current.Version++
		return snap
	}

	snap.Version++
	s.current = snap
	return snap.clone()
}
