package views

import (
	"context"
	"fmt"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/store"
)

// ListPage is what a list view renders
type ListPage[T model.Entity] struct {
	Entities []T
	Loading  bool
	Err      error
	State    State
	Trail    []State
}

// ShowTable reports whether rows are rendered. An empty list is hidden while loading.
func (p ListPage[T]) ShowTable() bool {
	return len(p.Entities) > 0
}

// ShowEmptyNotice reports whether the "nothing found" notice is rendered
func (p ListPage[T]) ShowEmptyNotice() bool {
	return !p.Loading && len(p.Entities) == 0
}

// ListView shows every record of one entity type
type ListView[T model.Entity] struct {
	store     *store.Store[T]
	lifecycle *Lifecycle
}

func NewListView[T model.Entity](s *store.Store[T]) *ListView[T] {
	return &ListView[T]{store: s, lifecycle: NewLifecycle()}
}

// Mount fetches the list once when the view appears
func (v *ListView[T]) Mount(ctx context.Context) (ListPage[T], error) {
	if v.lifecycle.State() != Idle {
		return v.page(v.store.Current()), fmt.Errorf("views: list already mounted: %w", catalogerrors.ErrInvalidTransition)
	}
	return v.load(ctx)
}

// Refresh fetches the list again
func (v *ListView[T]) Refresh(ctx context.Context) (ListPage[T], error) {
	return v.load(ctx)
}

func (v *ListView[T]) load(ctx context.Context) (ListPage[T], error) {
	if err := v.lifecycle.To(Loading); err != nil {
		return v.page(v.store.Current()), err
	}
	snap, err := v.store.ListAll(ctx)
	if serr := v.lifecycle.settle(err); serr != nil {
		return v.page(snap), serr
	}
	return v.page(snap), nil
}

func (v *ListView[T]) page(snap store.Snapshot[T]) ListPage[T] {
	return ListPage[T]{
		Entities: snap.Entities,
		Loading:  snap.Loading,
		Err:      snap.Err,
		State:    v.lifecycle.State(),
		Trail:    v.lifecycle.Trail(),
	}
}
