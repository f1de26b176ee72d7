package catalog

import (
	"context"
	"fmt"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	"github.com/FireRedDev/ebayklon/internal/events"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/repository"
)

// OfferService implements the business rules of the offer resource
type OfferService struct {
	offers    repository.OfferDB
	auctions  repository.AuctionDB
	publisher events.Publisher
}

// NewOfferService creates a new OfferService instance
func NewOfferService(offers repository.OfferDB, auctions repository.AuctionDB, publisher events.Publisher) *OfferService {
	return &OfferService{
		offers:    offers,
		auctions:  auctions,
		publisher: publisher,
	}
}

// Create stores a new offer. The offer must not carry an id yet.
func (s *OfferService) Create(ctx context.Context, offer model.Offer) (model.Offer, error) {
	if offer.ID != nil {
		return model.Offer{}, fmt.Errorf("service: %w - offer %d", catalogerrors.ErrIDExists, *offer.ID)
	}
	if err := s.validateAuctionRef(ctx, offer); err != nil {
		return model.Offer{}, err
	}

	created, err := s.offers.CreateOffer(ctx, offer)
	if err != nil {
		return model.Offer{}, fmt.Errorf("service: failed to create offer: %w", err)
	}

	publish(ctx, s.publisher, offerEntity, events.Created, created.ID)
	return created, nil
}

// Update replaces the offer identified by pathID
func (s *OfferService) Update(ctx context.Context, pathID int64, offer model.Offer) (model.Offer, error) {
	if err := s.validateExisting(ctx, pathID, offer.ID); err != nil {
		return model.Offer{}, err
	}
	if err := s.validateAuctionRef(ctx, offer); err != nil {
		return model.Offer{}, err
	}

	updated, err := s.offers.UpdateOffer(ctx, offer)
	if err != nil {
		return model.Offer{}, fmt.Errorf("service: failed to update offer %d: %w", pathID, err)
	}

	publish(ctx, s.publisher, offerEntity, events.Updated, updated.ID)
	return updated, nil
}

// Patch applies the non-null fields of patch to the offer identified by pathID
func (s *OfferService) Patch(ctx context.Context, pathID int64, patch model.Offer) (model.Offer, error) {
	if err := s.validateExisting(ctx, pathID, patch.ID); err != nil {
		return model.Offer{}, err
	}
	if err := s.validateAuctionRef(ctx, patch); err != nil {
		return model.Offer{}, err
	}

	current, err := s.offers.GetOffer(ctx, pathID)
	if err != nil {
		return model.Offer{}, fmt.Errorf("service: failed to load offer %d: %w", pathID, err)
	}
	if patch.Value != nil {
		current.Value = patch.Value
	}
	if patch.Auction != nil {
		current.Auction = patch.Auction
	}

	updated, err := s.offers.UpdateOffer(ctx, current)
	if err != nil {
		return model.Offer{}, fmt.Errorf("service: failed to patch offer %d: %w", pathID, err)
	}

	publish(ctx, s.publisher, offerEntity, events.Updated, updated.ID)
	return updated, nil
}

// List returns all offers ordered by id
func (s *OfferService) List(ctx context.Context) ([]model.Offer, error) {
	offers, err := s.offers.ListOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list offers: %w", err)
	}
	return offers, nil
}

// Get returns a single offer with its auction
func (s *OfferService) Get(ctx context.Context, id int64) (model.Offer, error) {
	offer, err := s.offers.GetOffer(ctx, id)
	if err != nil {
		return model.Offer{}, fmt.Errorf("service: failed to get offer %d: %w", id, err)
	}
	return offer, nil
}

// Delete removes an offer. Unknown ids are not an error.
func (s *OfferService) Delete(ctx context.Context, id int64) error {
	if err := s.offers.DeleteOffer(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete offer %d: %w", id, err)
	}

	publish(ctx, s.publisher, offerEntity, events.Deleted, &id)
	return nil
}

func (s *OfferService) validateExisting(ctx context.Context, pathID int64, bodyID *int64) error {
	if err := validateIdentity(pathID, bodyID); err != nil {
		return err
	}
	exists, err := s.offers.OfferExists(ctx, pathID)
	if err != nil {
		return fmt.Errorf("service: failed to check offer %d: %w", pathID, err)
	}
	if !exists {
		return fmt.Errorf("service: %w - offer %d", catalogerrors.ErrIDNotFound, pathID)
	}
	return nil
}

// validateAuctionRef checks that a referenced auction exists
func (s *OfferService) validateAuctionRef(ctx context.Context, offer model.Offer) error {
	if offer.Auction == nil {
		return nil
	}
	auctionID, ok := offer.AuctionID()
	if !ok {
		return fmt.Errorf("service: %w - reference without id", catalogerrors.ErrUnknownAuction)
	}
	exists, err := s.auctions.AuctionExists(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to check auction %d: %w", auctionID, err)
	}
	if !exists {
		return fmt.Errorf("service: %w - auction %d", catalogerrors.ErrUnknownAuction, auctionID)
	}
	return nil
}
