package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB defines the auction storage interface
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction model.Auction) (model.Auction, error)
	UpdateAuction(ctx context.Context, auction model.Auction) (model.Auction, error)
	GetAuction(ctx context.Context, id int64) (model.Auction, error)
	ListAuctions(ctx context.Context) ([]model.Auction, error)
	AuctionExists(ctx context.Context, id int64) (bool, error)
	DeleteAuction(ctx context.Context, id int64) error
}

// OfferDB defines the offer storage interface
type OfferDB interface {
	CreateOffer(ctx context.Context, offer model.Offer) (model.Offer, error)
	UpdateOffer(ctx context.Context, offer model.Offer) (model.Offer, error)
	GetOffer(ctx context.Context, id int64) (model.Offer, error)
	ListOffers(ctx context.Context) ([]model.Offer, error)
	OfferExists(ctx context.Context, id int64) (bool, error)
	DeleteOffer(ctx context.Context, id int64) error
}

// CatalogDB is the full storage interface of the backend
type CatalogDB interface {
	AuctionDB
	OfferDB
}

type auctionRow struct {
	id          int64
	description *string
}

type offerRow struct {
	id        int64
	value     *float64
	auctionID *int64
}

// MemoryRepo is a concurrency-safe in-memory implementation of CatalogDB
type MemoryRepo struct {
	mu       sync.RWMutex
	sequence int64
	auctions map[int64]auctionRow // key: auctionID
	offers   map[int64]offerRow   // key: offerID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[int64]auctionRow),
		offers:   make(map[int64]offerRow),
	}
}

// nextID hands out ids from one sequence shared by both tables. Callers hold mu.
func (r *MemoryRepo) nextID() int64 {
	r.sequence++
	return r.sequence
}

// CreateAuction stores a new auction and assigns its id
func (r *MemoryRepo) CreateAuction(_ context.Context, auction model.Auction) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := auctionRow{id: r.nextID(), description: copyString(auction.Description)}
	r.auctions[row.id] = row
	return r.auctionFromRow(row), nil
}

// UpdateAuction replaces the stored fields of an existing auction
func (r *MemoryRepo) UpdateAuction(_ context.Context, auction model.Auction) (model.Auction, error) {
	id, ok := auction.Identifier()
	if !ok {
		return model.Auction{}, fmt.Errorf("update auction: %w", catalogerrors.ErrIDNull)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[id]; !exists {
		return model.Auction{}, fmt.Errorf("update auction %d: %w", id, catalogerrors.ErrAuctionNotFound)
	}
	row := auctionRow{id: id, description: copyString(auction.Description)}
	r.auctions[id] = row
	return r.auctionFromRow(row), nil
}

// GetAuction returns an auction together with its offers
func (r *MemoryRepo) GetAuction(_ context.Context, id int64) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.auctions[id]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, catalogerrors.ErrAuctionNotFound)
	}
	return r.auctionFromRow(row), nil
}

// ListAuctions returns all auctions ordered by id, each with its offers
func (r *MemoryRepo) ListAuctions(_ context.Context) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctions := make([]model.Auction, 0, len(r.auctions))
	for _, id := range sortedKeys(r.auctions) {
		auctions = append(auctions, r.auctionFromRow(r.auctions[id]))
	}
	return auctions, nil
}

// AuctionExists reports whether an auction with the id is stored
func (r *MemoryRepo) AuctionExists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.auctions[id]
	return ok, nil
}

// DeleteAuction removes an auction. Deleting an unknown id is a no-op.
func (r *MemoryRepo) DeleteAuction(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.offers {
		if o.auctionID != nil && *o.auctionID == id {
			return fmt.Errorf("delete auction %d: %w", id, catalogerrors.ErrAuctionInUse)
		}
	}
	delete(r.auctions, id)
	return nil
}

// CreateOffer stores a new offer and assigns its id
func (r *MemoryRepo) CreateOffer(_ context.Context, offer model.Offer) (model.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// a rejected offer must not consume an id
	row, err := r.offerToRow(0, offer)
	if err != nil {
		return model.Offer{}, fmt.Errorf("create offer: %w", err)
	}
	row.id = r.nextID()
	r.offers[row.id] = row
	return r.offerFromRow(row), nil
}

// UpdateOffer replaces the stored fields of an existing offer
func (r *MemoryRepo) UpdateOffer(_ context.Context, offer model.Offer) (model.Offer, error) {
	id, ok := offer.Identifier()
	if !ok {
		return model.Offer{}, fmt.Errorf("update offer: %w", catalogerrors.ErrIDNull)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.offers[id]; !exists {
		return model.Offer{}, fmt.Errorf("update offer %d: %w", id, catalogerrors.ErrOfferNotFound)
	}
	row, err := r.offerToRow(id, offer)
	if err != nil {
		return model.Offer{}, fmt.Errorf("update offer %d: %w", id, err)
	}
	r.offers[id] = row
	return r.offerFromRow(row), nil
}

// GetOffer returns an offer together with its auction reference
func (r *MemoryRepo) GetOffer(_ context.Context, id int64) (model.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.offers[id]
	if !ok {
		return model.Offer{}, fmt.Errorf("get offer %d: %w", id, catalogerrors.ErrOfferNotFound)
	}
	return r.offerFromRow(row), nil
}

// ListOffers returns all offers ordered by id
func (r *MemoryRepo) ListOffers(_ context.Context) ([]model.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offers := make([]model.Offer, 0, len(r.offers))
	for _, id := range sortedKeys(r.offers) {
		offers = append(offers, r.offerFromRow(r.offers[id]))
	}
	return offers, nil
}

// OfferExists reports whether an offer with the id is stored
func (r *MemoryRepo) OfferExists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.offers[id]
	return ok, nil
}

// DeleteOffer removes an offer. Deleting an unknown id is a no-op.
func (r *MemoryRepo) DeleteOffer(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.offers, id)
	return nil
}

// AddAuction stores an auction with a fixed id. This method is intended for seeding and tests.
func (r *MemoryRepo) AddAuction(id int64, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[id] = auctionRow{id: id, description: &description}
	if id > r.sequence {
		r.sequence = id
	}
}

// AddOffer stores an offer with a fixed id. This method is intended for seeding and tests.
func (r *MemoryRepo) AddOffer(id int64, value float64, auctionID *int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[id] = offerRow{id: id, value: &value, auctionID: auctionID}
	if id > r.sequence {
		r.sequence = id
	}
}

func (r *MemoryRepo) offerToRow(id int64, offer model.Offer) (offerRow, error) {
	row := offerRow{id: id}
	if offer.Value != nil {
		v := *offer.Value
		row.value = &v
	}
	if offer.Auction != nil {
		auctionID, ok := offer.Auction.Identifier()
		if !ok {
			return offerRow{}, catalogerrors.ErrUnknownAuction
		}
		if _, exists := r.auctions[auctionID]; !exists {
			return offerRow{}, fmt.Errorf("auction %d: %w", auctionID, catalogerrors.ErrUnknownAuction)
		}
		row.auctionID = &auctionID
	}
	return row, nil
}

func (r *MemoryRepo) auctionFromRow(row auctionRow) model.Auction {
	id := row.id
	auction := model.Auction{ID: &id, Description: copyString(row.description)}
	for _, offerID := range sortedKeys(r.offers) {
		o := r.offers[offerID]
		if o.auctionID != nil && *o.auctionID == row.id {
			auction.Offers = append(auction.Offers, r.offerFromRow(o).Unlinked())
		}
	}
	return auction
}

func (r *MemoryRepo) offerFromRow(row offerRow) model.Offer {
	id := row.id
	offer := model.Offer{ID: &id}
	if row.value != nil {
		v := *row.value
		offer.Value = &v
	}
	if row.auctionID != nil {
		if a, ok := r.auctions[*row.auctionID]; ok {
			auctionID := a.id
			offer.Auction = &model.Auction{ID: &auctionID, Description: copyString(a.description)}
		}
	}
	return offer
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
