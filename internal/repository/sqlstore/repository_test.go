package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/repository"

	"github.com/stretchr/testify/require"
)

var _ repository.CatalogDB = (*Repo)(nil)

func newMockRepo(t *testing.T, dialect Dialect) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewRepo(db, dialect), mock
}

func q(query string) string {
	return regexp.QuoteMeta(query)
}

func TestRepo_Rebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{name: "mysql_untouched", dialect: MySQL, query: "UPDATE offer SET offer_value = ? WHERE id = ?", want: "UPDATE offer SET offer_value = ? WHERE id = ?"},
		{name: "postgres_numbered", dialect: Postgres, query: "UPDATE offer SET offer_value = ? WHERE id = ?", want: "UPDATE offer SET offer_value = $1 WHERE id = $2"},
		{name: "no_placeholders", dialect: Postgres, query: "SELECT 1", want: "SELECT 1"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := &Repo{dialect: tc.dialect}
			require.Equal(t, tc.want, r.rebind(tc.query))
		})
	}
}

func TestRepo_CreateAuction(t *testing.T) {
	ctx := context.Background()

	t.Run("mysql_last_insert_id", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectExec(q("INSERT INTO auction (auction_description) VALUES (?)")).
			WithArgs("Spring Sale").
			WillReturnResult(sqlmock.NewResult(7, 1))

		created, err := repo.CreateAuction(ctx, model.Auction{Description: model.String("Spring Sale")})
		require.NoError(t, err)
		require.Equal(t, int64(7), *created.ID)
		require.Equal(t, "Spring Sale", *created.Description)
	})

	t.Run("postgres_returning_id", func(t *testing.T) {
		repo, mock := newMockRepo(t, Postgres)
		mock.ExpectQuery(q("INSERT INTO auction (auction_description) VALUES ($1) RETURNING id")).
			WithArgs(nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		created, err := repo.CreateAuction(ctx, model.Auction{})
		require.NoError(t, err)
		require.Equal(t, int64(3), *created.ID)
		require.Nil(t, created.Description)
	})

	t.Run("driver_failure", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectExec(q("INSERT INTO auction")).WillReturnError(errors.New("connection reset"))

		_, err := repo.CreateAuction(ctx, model.Auction{})
		require.Error(t, err)
	})
}

func TestRepo_GetAuction(t *testing.T) {
	ctx := context.Background()

	t.Run("joins_offers", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectQuery(q("SELECT id, auction_description FROM auction WHERE id = ?")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "auction_description"}).AddRow(int64(1), "Spring Sale"))
		mock.ExpectQuery(q("SELECT id, offer_value FROM offer WHERE offer_name_id = ? ORDER BY id")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "offer_value"}).
				AddRow(int64(3), 42.0).
				AddRow(int64(4), nil))

		auction, err := repo.GetAuction(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, "Spring Sale", *auction.Description)
		require.Len(t, auction.Offers, 2)
		require.Equal(t, 42.0, *auction.Offers[0].Value)
		require.Nil(t, auction.Offers[1].Value)
		require.Nil(t, auction.Offers[0].Auction)
	})

	t.Run("not_found", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectQuery(q("SELECT id, auction_description FROM auction WHERE id = ?")).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "auction_description"}))

		_, err := repo.GetAuction(ctx, 9)
		require.True(t, errors.Is(err, catalogerrors.ErrAuctionNotFound))
	})
}

func TestRepo_ListAuctions(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t, Postgres)

	mock.ExpectQuery(q("SELECT id, auction_description FROM auction ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "auction_description"}).
			AddRow(int64(1), "a").
			AddRow(int64(2), nil))
	mock.ExpectQuery(q("SELECT id, offer_value, offer_name_id FROM offer WHERE offer_name_id IS NOT NULL ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "offer_value", "offer_name_id"}).
			AddRow(int64(3), 10.0, int64(1)).
			AddRow(int64(5), 20.0, int64(1)))

	auctions, err := repo.ListAuctions(ctx)
	require.NoError(t, err)
	require.Len(t, auctions, 2)
	require.Len(t, auctions[0].Offers, 2)
	require.Equal(t, int64(5), *auctions[0].Offers[1].ID)
	require.Nil(t, auctions[1].Description)
	require.Empty(t, auctions[1].Offers)
}

func TestRepo_UpdateAuction(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_id", func(t *testing.T) {
		repo, _ := newMockRepo(t, MySQL)
		_, err := repo.UpdateAuction(ctx, model.Auction{})
		require.True(t, errors.Is(err, catalogerrors.ErrIDNull))
	})

	t.Run("unknown_auction", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM auction WHERE id = ?)")).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.UpdateAuction(ctx, model.Auction{ID: model.Int64(4)})
		require.True(t, errors.Is(err, catalogerrors.ErrAuctionNotFound))
	})

	t.Run("existing_auction", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM auction WHERE id = ?)")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(q("UPDATE auction SET auction_description = ? WHERE id = ?")).
			WithArgs("after", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(q("SELECT id, auction_description FROM auction WHERE id = ?")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "auction_description"}).AddRow(int64(1), "after"))
		mock.ExpectQuery(q("SELECT id, offer_value FROM offer WHERE offer_name_id = ?")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "offer_value"}))

		updated, err := repo.UpdateAuction(ctx, model.Auction{ID: model.Int64(1), Description: model.String("after")})
		require.NoError(t, err)
		require.Equal(t, "after", *updated.Description)
	})
}

func TestRepo_DeleteAuction(t *testing.T) {
	ctx := context.Background()

	t.Run("in_use", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectQuery(q("SELECT COUNT(*) FROM offer WHERE offer_name_id = ?")).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.DeleteAuction(ctx, 2)
		require.True(t, errors.Is(err, catalogerrors.ErrAuctionInUse))
	})

	t.Run("free", func(t *testing.T) {
		repo, mock := newMockRepo(t, Postgres)
		mock.ExpectQuery(q("SELECT COUNT(*) FROM offer WHERE offer_name_id = $1")).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(q("DELETE FROM auction WHERE id = $1")).
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.DeleteAuction(ctx, 2))
	})
}

func TestRepo_CreateOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown_auction", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM auction WHERE id = ?)")).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.CreateOffer(ctx, model.Offer{Value: model.Float64(5), Auction: &model.Auction{ID: model.Int64(77)}})
		require.True(t, errors.Is(err, catalogerrors.ErrUnknownAuction))
	})

	t.Run("linked_offer", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM auction WHERE id = ?)")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(q("INSERT INTO offer (offer_value, offer_name_id) VALUES (?, ?)")).
			WithArgs(42.0, int64(1)).
			WillReturnResult(sqlmock.NewResult(8, 1))
		mock.ExpectQuery(q("WHERE o.id = ?")).
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "offer_value", "id", "auction_description"}).
				AddRow(int64(8), 42.0, int64(1), "Spring Sale"))

		created, err := repo.CreateOffer(ctx, model.Offer{Value: model.Float64(42), Auction: &model.Auction{ID: model.Int64(1)}})
		require.NoError(t, err)
		require.Equal(t, int64(8), *created.ID)
		require.Equal(t, "Spring Sale", *created.Auction.Description)
	})

	t.Run("unlinked_offer", func(t *testing.T) {
		repo, mock := newMockRepo(t, MySQL)
		mock.ExpectExec(q("INSERT INTO offer (offer_value, offer_name_id) VALUES (?, ?)")).
			WithArgs(nil, nil).
			WillReturnResult(sqlmock.NewResult(9, 1))
		mock.ExpectQuery(q("WHERE o.id = ?")).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "offer_value", "id", "auction_description"}).
				AddRow(int64(9), nil, nil, nil))

		created, err := repo.CreateOffer(ctx, model.Offer{})
		require.NoError(t, err)
		require.Nil(t, created.Auction)
		require.Nil(t, created.Value)
	})
}

func TestRepo_Offers(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t, MySQL)

	mock.ExpectQuery(q("FROM offer o LEFT JOIN auction a ON a.id = o.offer_name_id ORDER BY o.id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "offer_value", "id", "auction_description"}).
			AddRow(int64(2), 20.0, nil, nil).
			AddRow(int64(5), 10.0, int64(1), "a"))
	mock.ExpectQuery(q("WHERE o.id = ?")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "offer_value", "id", "auction_description"}))
	mock.ExpectExec(q("DELETE FROM offer WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	offers, err := repo.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	require.Nil(t, offers[0].Auction)
	require.Equal(t, int64(1), *offers[1].Auction.ID)

	_, err = repo.GetOffer(ctx, 6)
	require.True(t, errors.Is(err, catalogerrors.ErrOfferNotFound))

	require.NoError(t, repo.DeleteOffer(ctx, 5))
}
