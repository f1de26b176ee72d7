package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	catalog "github.com/FireRedDev/ebayklon/internal/catalogService"
	"github.com/FireRedDev/ebayklon/internal/client"
	"github.com/FireRedDev/ebayklon/internal/config"
	"github.com/FireRedDev/ebayklon/internal/events"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/repository"
	"github.com/FireRedDev/ebayklon/internal/server"
	"github.com/FireRedDev/ebayklon/internal/web"

	"github.com/gin-gonic/gin"
)

const appName = "ebayklonApp"

// SeedCatalog stores auction 1 "Spring Sale" with offer 5 and the unlinked offer 6.
func SeedCatalog(repo *repository.MemoryRepo) {
	repo.AddAuction(1, "Spring Sale")
	repo.AddOffer(5, 42, model.Int64(1))
	repo.AddOffer(6, 7, nil)
}

// SetupTestRouter initializes the REST router with an in-memory repository for integration testing.
func SetupTestRouter(seeds ...func(*repository.MemoryRepo)) (*gin.Engine, *repository.MemoryRepo) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	for _, seed := range seeds {
		seed(repo)
	}

	router := server.SetupRouter(
		catalog.NewAuctionService(repo, events.NopPublisher{}),
		catalog.NewOfferService(repo, repo, events.NopPublisher{}),
		appName,
	)
	return router, repo
}

// SetupTestStack serves the REST router over HTTP and returns the web client routed to it.
func SetupTestStack(t *testing.T, seeds ...func(*repository.MemoryRepo)) (*gin.Engine, *repository.MemoryRepo) {
	t.Helper()
	api, repo := SetupTestRouter(seeds...)
	backend := httptest.NewServer(api)
	t.Cleanup(backend.Close)

	c := client.New(config.BackendConfig{BaseURL: backend.URL, Timeout: 5 * time.Second, AppName: appName})
	return web.SetupRouter(web.NewStores(c)), repo
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the JSON response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// SubmitForm posts an url-encoded form to the web client
func SubmitForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Browse requests a page of the web client
func Browse(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}
