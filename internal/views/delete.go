package views

import (
	"context"
	"fmt"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/store"
)

// DeletePage is what the delete confirmation renders
type DeletePage[T model.Entity] struct {
	Entity   T
	Err      error
	Alert    model.Alert
	Redirect string
	State    State
	Trail    []State
}

// DeleteDialog confirms the removal of one record. Create one per interaction.
type DeleteDialog[T model.Entity] struct {
	store     *store.Store[T]
	routes    Routes
	lifecycle *Lifecycle
	page      DeletePage[T]
	ready     bool // set by a successful Mount, cleared by the first navigation
}

func NewDeleteDialog[T model.Entity](s *store.Store[T], routes Routes) *DeleteDialog[T] {
	return &DeleteDialog[T]{store: s, routes: routes, lifecycle: NewLifecycle()}
}

// Mount loads the record to delete
func (d *DeleteDialog[T]) Mount(ctx context.Context, idParam string) (DeletePage[T], error) {
	if err := d.lifecycle.To(Loading); err != nil {
		return d.snapshot(), err
	}

	id, err := parseID(idParam)
	if err != nil {
		return d.fail(err)
	}
	snap, err := d.store.GetOne(ctx, id)
	if err != nil {
		return d.fail(err)
	}

	d.page.Entity = snap.Entity
	d.ready = true
	if err := d.lifecycle.To(Ready); err != nil {
		return d.snapshot(), err
	}
	return d.snapshot(), nil
}

// Cancel leaves the dialog for the list without deleting anything
func (d *DeleteDialog[T]) Cancel() (DeletePage[T], error) {
	if err := d.lifecycle.To(NavigatedAway); err != nil {
		return d.snapshot(), err
	}
	d.ready = false
	d.page.Redirect = d.routes.List()
	return d.snapshot(), nil
}

// Confirm removes the loaded record and navigates to the list once
func (d *DeleteDialog[T]) Confirm(ctx context.Context) (DeletePage[T], error) {
	if !d.ready {
		return d.snapshot(), fmt.Errorf("views: %w", catalogerrors.ErrDialogNotReady)
	}
	id, ok := d.page.Entity.Identifier()
	if !ok {
		return d.snapshot(), fmt.Errorf("views: loaded record has no id: %w", catalogerrors.ErrDialogNotReady)
	}

	if err := d.lifecycle.To(Submitting); err != nil {
		return d.snapshot(), err
	}
	result, err := d.store.Remove(ctx, id)
	if err != nil {
		return d.fail(err)
	}
	d.page.Alert = result.Alert
	if err := d.lifecycle.To(Succeeded); err != nil {
		return d.snapshot(), err
	}

	if d.ready {
		d.ready = false
		if err := d.lifecycle.To(NavigatedAway); err != nil {
			return d.snapshot(), err
		}
		d.page.Redirect = d.routes.List()
	}
	return d.snapshot(), nil
}

func (d *DeleteDialog[T]) fail(err error) (DeletePage[T], error) {
	d.page.Err = err
	if terr := d.lifecycle.To(Failed); terr != nil {
		return d.snapshot(), terr
	}
	return d.snapshot(), err
}

func (d *DeleteDialog[T]) snapshot() DeletePage[T] {
	page := d.page
	page.State = d.lifecycle.State()
	page.Trail = d.lifecycle.Trail()
	return page
}
