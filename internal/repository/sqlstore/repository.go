package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
)

const (
	selectOffer = `
        SELECT o.id, o.offer_value, a.id, a.auction_description
        FROM offer o LEFT JOIN auction a ON a.id = o.offer_name_id`
)

// Repo implements repository.CatalogDB on database/sql
type Repo struct {
	db      *sql.DB
	dialect Dialect
}

func NewRepo(db *sql.DB, dialect Dialect) *Repo {
	return &Repo{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders to $n for PostgreSQL
func (r *Repo) rebind(query string) string {
	if r.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *Repo) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if r.dialect == Postgres {
		var id int64
		err := r.db.QueryRowContext(ctx, r.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) exists(ctx context.Context, table string, id int64) (bool, error) {
	var found bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", table)
	if err := r.db.QueryRowContext(ctx, r.rebind(query), id).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func (r *Repo) CreateAuction(ctx context.Context, auction model.Auction) (model.Auction, error) {
	id, err := r.insert(ctx, `INSERT INTO auction (auction_description) VALUES (?)`, nullString(auction.Description))
	if err != nil {
		return model.Auction{}, fmt.Errorf("create auction: %w", err)
	}
	return model.Auction{ID: &id, Description: auction.Description}, nil
}

func (r *Repo) UpdateAuction(ctx context.Context, auction model.Auction) (model.Auction, error) {
	id, ok := auction.Identifier()
	if !ok {
		return model.Auction{}, fmt.Errorf("update auction: %w", catalogerrors.ErrIDNull)
	}
	found, err := r.AuctionExists(ctx, id)
	if err != nil {
		return model.Auction{}, err
	}
	if !found {
		return model.Auction{}, fmt.Errorf("update auction %d: %w", id, catalogerrors.ErrAuctionNotFound)
	}

	query := r.rebind(`UPDATE auction SET auction_description = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, nullString(auction.Description), id); err != nil {
		return model.Auction{}, fmt.Errorf("update auction %d: %w", id, err)
	}
	return r.GetAuction(ctx, id)
}

func (r *Repo) GetAuction(ctx context.Context, id int64) (model.Auction, error) {
	var (
		auctionID   int64
		description sql.NullString
	)
	query := r.rebind(`SELECT id, auction_description FROM auction WHERE id = ?`)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&auctionID, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, catalogerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, err)
	}

	auction := model.Auction{ID: &auctionID, Description: fromNullString(description)}

	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT id, offer_value FROM offer WHERE offer_name_id = ? ORDER BY id`), id)
	if err != nil {
		return model.Auction{}, fmt.Errorf("get offers of auction %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			offerID int64
			value   sql.NullFloat64
		)
		if err := rows.Scan(&offerID, &value); err != nil {
			return model.Auction{}, fmt.Errorf("scan offer of auction %d: %w", id, err)
		}
		auction.Offers = append(auction.Offers, model.Offer{ID: model.Int64(offerID), Value: fromNullFloat(value)})
	}
	return auction, rows.Err()
}

func (r *Repo) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, auction_description FROM auction ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	defer rows.Close()

	auctions := []model.Auction{}
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id          int64
			description sql.NullString
		)
		if err := rows.Scan(&id, &description); err != nil {
			return nil, fmt.Errorf("scan auction: %w", err)
		}
		index[id] = len(auctions)
		auctions = append(auctions, model.Auction{ID: model.Int64(id), Description: fromNullString(description)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	offerRows, err := r.db.QueryContext(ctx, `SELECT id, offer_value, offer_name_id FROM offer WHERE offer_name_id IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list auction offers: %w", err)
	}
	defer offerRows.Close()

	for offerRows.Next() {
		var (
			id        int64
			value     sql.NullFloat64
			auctionID int64
		)
		if err := offerRows.Scan(&id, &value, &auctionID); err != nil {
			return nil, fmt.Errorf("scan auction offer: %w", err)
		}
		if i, ok := index[auctionID]; ok {
			auctions[i].Offers = append(auctions[i].Offers, model.Offer{ID: model.Int64(id), Value: fromNullFloat(value)})
		}
	}
	return auctions, offerRows.Err()
}

func (r *Repo) AuctionExists(ctx context.Context, id int64) (bool, error) {
	found, err := r.exists(ctx, "auction", id)
	if err != nil {
		return false, fmt.Errorf("auction %d exists: %w", id, err)
	}
	return found, nil
}

func (r *Repo) DeleteAuction(ctx context.Context, id int64) error {
	var offers int
	if err := r.db.QueryRowContext(ctx, r.rebind(`SELECT COUNT(*) FROM offer WHERE offer_name_id = ?`), id).Scan(&offers); err != nil {
		return fmt.Errorf("delete auction %d: %w", id, err)
	}
	if offers > 0 {
		return fmt.Errorf("delete auction %d: %w", id, catalogerrors.ErrAuctionInUse)
	}
	if _, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM auction WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete auction %d: %w", id, err)
	}
	return nil
}

func (r *Repo) CreateOffer(ctx context.Context, offer model.Offer) (model.Offer, error) {
	auctionID, err := r.auctionRef(ctx, offer)
	if err != nil {
		return model.Offer{}, fmt.Errorf("create offer: %w", err)
	}
	id, err := r.insert(ctx, `INSERT INTO offer (offer_value, offer_name_id) VALUES (?, ?)`, nullFloat(offer.Value), auctionID)
	if err != nil {
		return model.Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return r.GetOffer(ctx, id)
}

func (r *Repo) UpdateOffer(ctx context.Context, offer model.Offer) (model.Offer, error) {
	id, ok := offer.Identifier()
	if !ok {
		return model.Offer{}, fmt.Errorf("update offer: %w", catalogerrors.ErrIDNull)
	}
	found, err := r.OfferExists(ctx, id)
	if err != nil {
		return model.Offer{}, err
	}
	if !found {
		return model.Offer{}, fmt.Errorf("update offer %d: %w", id, catalogerrors.ErrOfferNotFound)
	}
	auctionID, err := r.auctionRef(ctx, offer)
	if err != nil {
		return model.Offer{}, fmt.Errorf("update offer %d: %w", id, err)
	}

	query := r.rebind(`UPDATE offer SET offer_value = ?, offer_name_id = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, nullFloat(offer.Value), auctionID, id); err != nil {
		return model.Offer{}, fmt.Errorf("update offer %d: %w", id, err)
	}
	return r.GetOffer(ctx, id)
}

func (r *Repo) GetOffer(ctx context.Context, id int64) (model.Offer, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(selectOffer+` WHERE o.id = ?`), id)
	offer, err := scanOffer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Offer{}, fmt.Errorf("get offer %d: %w", id, catalogerrors.ErrOfferNotFound)
	}
	if err != nil {
		return model.Offer{}, fmt.Errorf("get offer %d: %w", id, err)
	}
	return offer, nil
}

func (r *Repo) ListOffers(ctx context.Context) ([]model.Offer, error) {
	rows, err := r.db.QueryContext(ctx, selectOffer+` ORDER BY o.id`)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := []model.Offer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func (r *Repo) OfferExists(ctx context.Context, id int64) (bool, error) {
	found, err := r.exists(ctx, "offer", id)
	if err != nil {
		return false, fmt.Errorf("offer %d exists: %w", id, err)
	}
	return found, nil
}

func (r *Repo) DeleteOffer(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM offer WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete offer %d: %w", id, err)
	}
	return nil
}

// auctionRef validates the auction an offer points at and returns its column value
func (r *Repo) auctionRef(ctx context.Context, offer model.Offer) (sql.NullInt64, error) {
	if offer.Auction == nil {
		return sql.NullInt64{}, nil
	}
	id, ok := offer.Auction.Identifier()
	if !ok {
		return sql.NullInt64{}, catalogerrors.ErrUnknownAuction
	}
	found, err := r.AuctionExists(ctx, id)
	if err != nil {
		return sql.NullInt64{}, err
	}
	if !found {
		return sql.NullInt64{}, fmt.Errorf("auction %d: %w", id, catalogerrors.ErrUnknownAuction)
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (model.Offer, error) {
	var (
		id          int64
		value       sql.NullFloat64
		auctionID   sql.NullInt64
		description sql.NullString
	)
	if err := row.Scan(&id, &value, &auctionID, &description); err != nil {
		return model.Offer{}, err
	}
	offer := model.Offer{ID: &id, Value: fromNullFloat(value)}
	if auctionID.Valid {
		offer.Auction = &model.Auction{ID: model.Int64(auctionID.Int64), Description: fromNullString(description)}
	}
	return offer, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return model.String(s.String)
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return model.Float64(f.Float64)
}
