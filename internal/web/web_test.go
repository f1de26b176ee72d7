package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	catalog "github.com/FireRedDev/ebayklon/internal/catalogService"
	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	"github.com/FireRedDev/ebayklon/internal/client"
	"github.com/FireRedDev/ebayklon/internal/config"
	"github.com/FireRedDev/ebayklon/internal/events"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/repository"
	"github.com/FireRedDev/ebayklon/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testApp = "ebayklonApp"

// newTestUI wires the UI to a real backend served from memory, seeded with
// auction 1 and its offer 5.
func newTestUI(t *testing.T) (*gin.Engine, *repository.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	repo.AddAuction(1, "Spring Sale")
	repo.AddOffer(5, 42, model.Int64(1))

	backend := httptest.NewServer(server.SetupRouter(
		catalog.NewAuctionService(repo, events.NopPublisher{}),
		catalog.NewOfferService(repo, repo, events.NopPublisher{}),
		testApp,
	))
	t.Cleanup(backend.Close)

	c := client.New(config.BackendConfig{BaseURL: backend.URL, Timeout: 5 * time.Second, AppName: testApp})
	return SetupRouter(NewStores(c)), repo
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func post(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPages_Get(t *testing.T) {
	router, _ := newTestUI(t)

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
	}{
		{name: "home", path: "/", status: http.StatusOK, contains: []string{"Welcome to ebayklon"}},
		{name: "health", path: "/health", status: http.StatusOK, contains: []string{"UP"}},
		{name: "auction_list", path: "/auction", status: http.StatusOK, contains: []string{"Spring Sale", "/auction/1/edit"}},
		{name: "auction_list_refresh", path: "/auction?refresh=1", status: http.StatusOK, contains: []string{"Spring Sale"}},
		{name: "auction_detail_with_offers", path: "/auction/1", status: http.StatusOK, contains: []string{"Offer 5", "42"}},
		{name: "offer_detail", path: "/offer/5", status: http.StatusOK, contains: []string{"42", `href="/auction/1"`}},
		{name: "offer_edit_preselects_auction", path: "/offer/5/edit", status: http.StatusOK, contains: []string{`value="42"`, `value="1" selected`}},
		{name: "new_offer_form", path: "/offer/new", status: http.StatusOK, contains: []string{"Create a new Offer", `<option value="1"`}},
		{name: "delete_confirm", path: "/auction/1/delete", status: http.StatusOK, contains: []string{"delete Auction 1?"}},
		{name: "unknown_offer", path: "/offer/99", status: http.StatusNotFound},
		{name: "invalid_id", path: "/offer/abc", status: http.StatusNotFound, contains: []string{"Not found."}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := get(router, tc.path)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			for _, s := range tc.contains {
				require.Contains(t, w.Body.String(), s)
			}
		})
	}
}

func TestPages_EmptyList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	backend := httptest.NewServer(server.SetupRouter(
		catalog.NewAuctionService(repo, events.NopPublisher{}),
		catalog.NewOfferService(repo, repo, events.NopPublisher{}),
		testApp,
	))
	defer backend.Close()
	router := SetupRouter(NewStores(client.New(config.BackendConfig{BaseURL: backend.URL, Timeout: time.Second, AppName: testApp})))

	w := get(router, "/offer")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No Offers found")
	require.NotContains(t, w.Body.String(), "<table>")
}

func TestPages_CreateAuction(t *testing.T) {
	router, repo := newTestUI(t)

	w := post(router, "/auction/new", url.Values{"auctionDescription": {"Summer Sale"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, "/auction", w.Header().Get("Location"))

	auctions, err := repo.ListAuctions(context.Background())
	require.NoError(t, err)
	require.Len(t, auctions, 2)
	require.Equal(t, "Summer Sale", *auctions[1].Description)
}

func TestPages_EditAuction(t *testing.T) {
	router, repo := newTestUI(t)

	w := post(router, "/auction/1/edit", url.Values{"id": {"1"}, "auctionDescription": {"Autumn Sale"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	auction, err := repo.GetAuction(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Autumn Sale", *auction.Description)
}

func TestPages_CreateOffer(t *testing.T) {
	tests := []struct {
		name   string
		form   url.Values
		status int
		check  func(t *testing.T, repo *repository.MemoryRepo)
	}{
		{
			name:   "without_auction",
			form:   url.Values{"offerValue": {"7.5"}},
			status: http.StatusSeeOther,
			check: func(t *testing.T, repo *repository.MemoryRepo) {
				offer, err := repo.GetOffer(context.Background(), 6)
				require.NoError(t, err)
				require.Equal(t, 7.5, *offer.Value)
				require.Nil(t, offer.Auction)
			},
		},
		{
			name:   "with_auction",
			form:   url.Values{"offerValue": {"10"}, "offerName": {"1"}},
			status: http.StatusSeeOther,
			check: func(t *testing.T, repo *repository.MemoryRepo) {
				offer, err := repo.GetOffer(context.Background(), 6)
				require.NoError(t, err)
				id, ok := offer.AuctionID()
				require.True(t, ok)
				require.Equal(t, int64(1), id)
			},
		},
		{
			name:   "value_not_numeric",
			form:   url.Values{"offerValue": {"abc"}},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown_auction",
			form:   url.Values{"offerValue": {"1"}, "offerName": {"77"}},
			status: http.StatusBadRequest,
			check: func(t *testing.T, repo *repository.MemoryRepo) {
				offers, err := repo.ListOffers(context.Background())
				require.NoError(t, err)
				require.Len(t, offers, 1)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, repo := newTestUI(t)
			w := post(router, "/offer/new", tc.form)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status == http.StatusSeeOther {
				require.Equal(t, "/offer", w.Header().Get("Location"))
			}
			if tc.check != nil {
				tc.check(t, repo)
			}
		})
	}
}

func TestPages_Delete(t *testing.T) {
	router, repo := newTestUI(t)

	// auction 1 still carries offer 5
	w := post(router, "/auction/1/delete", nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "error.auctioninuse")

	w = post(router, "/offer/5/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, "/offer", w.Header().Get("Location"))

	_, err := repo.GetOffer(context.Background(), 5)
	require.ErrorIs(t, err, catalogerrors.ErrOfferNotFound)

	w = post(router, "/auction/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, "/auction", w.Header().Get("Location"))

	w = post(router, "/auction/99/delete", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid_id", err: catalogerrors.ErrInvalidID, want: http.StatusNotFound},
		{name: "not_found", err: &client.APIError{Status: http.StatusNotFound}, want: http.StatusNotFound},
		{name: "invalid_form", err: fmt.Errorf("bind: %w", catalogerrors.ErrInvalidForm), want: http.StatusBadRequest},
		{name: "rejected", err: &client.APIError{Status: http.StatusBadRequest, Key: "idexists"}, want: http.StatusBadRequest},
		{name: "conflict", err: fmt.Errorf("remove: %w", &client.APIError{Status: http.StatusConflict, Key: "auctioninuse"}), want: http.StatusConflict},
		{name: "server_failure", err: &client.APIError{Status: http.StatusInternalServerError}, want: http.StatusBadGateway},
		{name: "unavailable", err: catalogerrors.ErrBackendUnavailable, want: http.StatusBadGateway},
		{name: "dialog_not_ready", err: catalogerrors.ErrDialogNotReady, want: http.StatusConflict},
		{name: "other", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
