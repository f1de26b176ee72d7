package views

import (
	"context"

	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/store"
)

// DetailPage is what a detail view renders
type DetailPage[T model.Entity] struct {
	Entity T
	Err    error
	State  State
	Trail  []State
}

// DetailView shows one record. Auction details list their offers inline.
type DetailView[T model.Entity] struct {
	store     *store.Store[T]
	lifecycle *Lifecycle
}

func NewDetailView[T model.Entity](s *store.Store[T]) *DetailView[T] {
	return &DetailView[T]{store: s, lifecycle: NewLifecycle()}
}

// Mount fetches the record named by the id path parameter
func (v *DetailView[T]) Mount(ctx context.Context, idParam string) (DetailPage[T], error) {
	if err := v.lifecycle.To(Loading); err != nil {
		return v.page(DetailPage[T]{}), err
	}

	id, err := parseID(idParam)
	if err != nil {
		serr := v.lifecycle.settle(err)
		return v.page(DetailPage[T]{Err: serr}), serr
	}

	snap, err := v.store.GetOne(ctx, id)
	if serr := v.lifecycle.settle(err); serr != nil {
		return v.page(DetailPage[T]{Err: serr}), serr
	}
	return v.page(DetailPage[T]{Entity: snap.Entity}), nil
}

func (v *DetailView[T]) page(p DetailPage[T]) DetailPage[T] {
	p.State = v.lifecycle.State()
	p.Trail = v.lifecycle.Trail()
	return p
}
