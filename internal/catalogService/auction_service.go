package catalog

import (
	"context"
	"fmt"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	"github.com/FireRedDev/ebayklon/internal/events"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/repository"
	"github.com/FireRedDev/ebayklon/utils"
)

const (
	auctionEntity = "auction"
	offerEntity   = "offer"
)

// AuctionService implements the business rules of the auction resource
type AuctionService struct {
	repo      repository.AuctionDB
	publisher events.Publisher
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB, publisher events.Publisher) *AuctionService {
	return &AuctionService{
		repo:      repo,
		publisher: publisher,
	}
}

// Create stores a new auction. The auction must not carry an id yet.
func (s *AuctionService) Create(ctx context.Context, auction model.Auction) (model.Auction, error) {
	if auction.ID != nil {
		return model.Auction{}, fmt.Errorf("service: %w - auction %d", catalogerrors.ErrIDExists, *auction.ID)
	}

	created, err := s.repo.CreateAuction(ctx, model.Auction{Description: auction.Description})
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction: %w", err)
	}

	publish(ctx, s.publisher, auctionEntity, events.Created, created.ID)
	return created, nil
}

// Update replaces the auction identified by pathID
func (s *AuctionService) Update(ctx context.Context, pathID int64, auction model.Auction) (model.Auction, error) {
	if err := s.validateExisting(ctx, pathID, auction.ID); err != nil {
		return model.Auction{}, err
	}

	updated, err := s.repo.UpdateAuction(ctx, model.Auction{ID: auction.ID, Description: auction.Description})
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to update auction %d: %w", pathID, err)
	}

	publish(ctx, s.publisher, auctionEntity, events.Updated, updated.ID)
	return updated, nil
}

// Patch applies the non-null fields of patch to the auction identified by pathID
func (s *AuctionService) Patch(ctx context.Context, pathID int64, patch model.Auction) (model.Auction, error) {
	if err := s.validateExisting(ctx, pathID, patch.ID); err != nil {
		return model.Auction{}, err
	}

	current, err := s.repo.GetAuction(ctx, pathID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to load auction %d: %w", pathID, err)
	}
	if patch.Description != nil {
		current.Description = patch.Description
	}

	updated, err := s.repo.UpdateAuction(ctx, model.Auction{ID: current.ID, Description: current.Description})
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to patch auction %d: %w", pathID, err)
	}

	publish(ctx, s.publisher, auctionEntity, events.Updated, updated.ID)
	return updated, nil
}

// List returns all auctions ordered by id, each with its offers
func (s *AuctionService) List(ctx context.Context) ([]model.Auction, error) {
	auctions, err := s.repo.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// Get returns a single auction with its offers
func (s *AuctionService) Get(ctx context.Context, id int64) (model.Auction, error) {
	auction, err := s.repo.GetAuction(ctx, id)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %d: %w", id, err)
	}
	return auction, nil
}

// Delete removes an auction. Unknown ids are not an error.
func (s *AuctionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteAuction(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete auction %d: %w", id, err)
	}

	publish(ctx, s.publisher, auctionEntity, events.Deleted, &id)
	return nil
}

func (s *AuctionService) validateExisting(ctx context.Context, pathID int64, bodyID *int64) error {
	if err := validateIdentity(pathID, bodyID); err != nil {
		return err
	}
	exists, err := s.repo.AuctionExists(ctx, pathID)
	if err != nil {
		return fmt.Errorf("service: failed to check auction %d: %w", pathID, err)
	}
	if !exists {
		return fmt.Errorf("service: %w - auction %d", catalogerrors.ErrIDNotFound, pathID)
	}
	return nil
}

// validateIdentity checks that an update body names the record of its path
func validateIdentity(pathID int64, bodyID *int64) error {
	if bodyID == nil {
		return fmt.Errorf("service: %w", catalogerrors.ErrIDNull)
	}
	if *bodyID != pathID {
		return fmt.Errorf("service: %w - path %d, body %d", catalogerrors.ErrIDInvalid, pathID, *bodyID)
	}
	return nil
}

// publish reports a mutation. Failures are logged and never fail the caller.
func publish(ctx context.Context, publisher events.Publisher, entity string, action events.Action, id *int64) {
	if publisher == nil || id == nil {
		return
	}
	if err := publisher.Publish(ctx, events.NewEntityEvent(entity, action, *id)); err != nil {
		utils.Warn("failed to publish entity event", map[string]any{
			"entity": entity,
			"action": string(action),
			"id":     *id,
			"error":  err.Error(),
		})
	}
}
