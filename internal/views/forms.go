package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
)

// Binder converts between an entity and its edit form
type Binder[T model.Entity, F any] interface {
	FormFor(entity T) F
	// Apply merges form over current. auctions is the known set an offer may reference.
	Apply(current T, form F, auctions []model.Auction) (T, error)
	NeedsAuctions() bool
}

// AuctionForm is the posted auction edit form
type AuctionForm struct {
	ID          string `form:"id"`
	Description string `form:"auctionDescription" binding:"max=255"`
}

// OfferForm is the posted offer edit form. Auction holds the selected auction id.
type OfferForm struct {
	ID      string `form:"id"`
	Value   string `form:"offerValue" binding:"omitempty,numeric"`
	Auction string `form:"offerName" binding:"omitempty,numeric"`
}

type AuctionBinder struct{}

func (AuctionBinder) FormFor(a model.Auction) AuctionForm {
	form := AuctionForm{ID: model.FormatID(a.ID)}
	if a.Description != nil {
		form.Description = *a.Description
	}
	return form
}

func (AuctionBinder) Apply(current model.Auction, form AuctionForm, _ []model.Auction) (model.Auction, error) {
	out := model.Auction{ID: current.ID}
	if d := strings.TrimSpace(form.Description); d != "" {
		out.Description = model.String(d)
	}
	return out, nil
}

func (AuctionBinder) NeedsAuctions() bool { return false }

type OfferBinder struct{}

func (OfferBinder) FormFor(o model.Offer) OfferForm {
	form := OfferForm{ID: model.FormatID(o.ID)}
	if o.Value != nil {
		form.Value = strconv.FormatFloat(*o.Value, 'f', -1, 64)
	}
	if o.Auction != nil {
		form.Auction = model.FormatID(o.Auction.ID)
	}
	return form
}

func (OfferBinder) Apply(current model.Offer, form OfferForm, auctions []model.Auction) (model.Offer, error) {
	out := model.Offer{ID: current.ID}

	if raw := strings.TrimSpace(form.Value); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Offer{}, fmt.Errorf("views: offer value %q: %w", raw, catalogerrors.ErrInvalidForm)
		}
		out.Value = &value
	}

	raw := strings.TrimSpace(form.Auction)
	if raw == "" {
		return out, nil
	}
	auctionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return model.Offer{}, fmt.Errorf("views: auction selection %q: %w", raw, catalogerrors.ErrInvalidForm)
	}
	for _, a := range auctions {
		if id, ok := a.Identifier(); ok && id == auctionID {
			out.Auction = a.Ref()
			return out, nil
		}
	}
	return model.Offer{}, fmt.Errorf("views: auction %d is not a known auction: %w", auctionID, catalogerrors.ErrInvalidForm)
}

func (OfferBinder) NeedsAuctions() bool { return true }
