package views

import (
	"context"
	"fmt"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/store"
)

// UpdatePage is what the create/edit form renders
type UpdatePage[T model.Entity, F any] struct {
	IsNew    bool
	Entity   T
	Form     F
	Auctions []model.Auction
	Updating bool
	Err      error
	Alert    model.Alert
	Redirect string // set once the view navigated away
	State    State
	Trail    []State
}

// UpdateView drives the create/edit form of one entity type
type UpdateView[T model.Entity, F any] struct {
	store     *store.Store[T]
	auctions  *store.Store[model.Auction]
	binder    Binder[T, F]
	routes    Routes
	lifecycle *Lifecycle
	page      UpdatePage[T, F]
}

// NewUpdateView builds the form controller. auctions may be nil when the binder
// has no auction selector.
func NewUpdateView[T model.Entity, F any](s *store.Store[T], auctions *store.Store[model.Auction], binder Binder[T, F], routes Routes) *UpdateView[T, F] {
	return &UpdateView[T, F]{store: s, auctions: auctions, binder: binder, routes: routes, lifecycle: NewLifecycle()}
}

// Mount prepares the form. An empty idParam opens it in new mode.
func (v *UpdateView[T, F]) Mount(ctx context.Context, idParam string) (UpdatePage[T, F], error) {
	if err := v.lifecycle.To(Loading); err != nil {
		return v.snapshot(), err
	}

	v.page = UpdatePage[T, F]{IsNew: idParam == ""}
	if v.page.IsNew {
		v.store.Reset()
	} else {
		id, err := parseID(idParam)
		if err != nil {
			return v.fail(err)
		}
		snap, err := v.store.GetOne(ctx, id)
		if err != nil {
			return v.fail(err)
		}
		v.page.Entity = snap.Entity
	}

	if v.binder.NeedsAuctions() && v.auctions != nil {
		snap, err := v.auctions.ListAll(ctx)
		if err != nil {
			return v.fail(err)
		}
		v.page.Auctions = snap.Entities
	}

	v.page.Form = v.binder.FormFor(v.page.Entity)
	if err := v.lifecycle.To(Ready); err != nil {
		return v.snapshot(), err
	}
	return v.snapshot(), nil
}

// Submit merges form over the loaded record and saves it
func (v *UpdateView[T, F]) Submit(ctx context.Context, idParam string, form F) (UpdatePage[T, F], error) {
	if v.lifecycle.State() == Idle {
		if page, err := v.Mount(ctx, idParam); err != nil {
			return page, err
		}
	}

	if err := v.lifecycle.To(Submitting); err != nil {
		return v.snapshot(), err
	}

	entity, err := v.binder.Apply(v.page.Entity, form, v.page.Auctions)
	if err != nil {
		v.page.Form = form
		return v.fail(err)
	}
	v.page.Updating = true

	result, err := v.store.Save(ctx, entity)
	v.page.Updating = false
	if err != nil {
		v.page.Form = form
		return v.fail(err)
	}

	v.page.Entity = result.Entity
	v.page.Alert = result.Alert
	if err := v.lifecycle.To(Succeeded); err != nil {
		return v.snapshot(), err
	}
	if err := v.lifecycle.To(NavigatedAway); err != nil {
		return v.snapshot(), err
	}
	v.page.Redirect = v.routes.List()
	return v.snapshot(), nil
}

// Reject renders a posted form that failed request binding
func (v *UpdateView[T, F]) Reject(ctx context.Context, idParam string, form F, bindErr error) (UpdatePage[T, F], error) {
	if v.lifecycle.State() == Idle {
		if page, err := v.Mount(ctx, idParam); err != nil {
			return page, err
		}
	}
	if err := v.lifecycle.To(Submitting); err != nil {
		return v.snapshot(), err
	}
	v.page.Form = form
	return v.fail(fmt.Errorf("views: %w: %v", catalogerrors.ErrInvalidForm, bindErr))
}

func (v *UpdateView[T, F]) fail(err error) (UpdatePage[T, F], error) {
	v.page.Err = err
	if terr := v.lifecycle.To(Failed); terr != nil {
		return v.snapshot(), terr
	}
	return v.snapshot(), err
}

func (v *UpdateView[T, F]) snapshot() UpdatePage[T, F] {
	page := v.page
	page.State = v.lifecycle.State()
	page.Trail = v.lifecycle.Trail()
	return page
}
