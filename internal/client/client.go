package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	"github.com/FireRedDev/ebayklon/internal/config"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/utils"

	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=client.go -destination=mock_client.go -package=client

// AuctionAPI is the typed view of /api/auctions
type AuctionAPI interface {
	List(ctx context.Context) ([]model.Auction, error)
	Get(ctx context.Context, id int64) (model.Auction, error)
	Create(ctx context.Context, auction model.Auction) (model.Auction, model.Alert, error)
	Update(ctx context.Context, auction model.Auction) (model.Auction, model.Alert, error)
	Delete(ctx context.Context, id int64) (model.Alert, error)
}

// OfferAPI is the typed view of /api/offers
type OfferAPI interface {
	List(ctx context.Context) ([]model.Offer, error)
	Get(ctx context.Context, id int64) (model.Offer, error)
	Create(ctx context.Context, offer model.Offer) (model.Offer, model.Alert, error)
	Update(ctx context.Context, offer model.Offer) (model.Offer, model.Alert, error)
	Delete(ctx context.Context, id int64) (model.Alert, error)
}

// APIError is a non-2xx answer of the backend
type APIError struct {
	Status  int
	Message string
	Detail  string
	Key     string // alert key without the error. prefix, e.g. idexists
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("backend answered %d", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Key != "" {
		msg += " (" + e.Key + ")"
	}
	return msg
}

// Is lets errors.Is classify the error by status class
func (e *APIError) Is(target error) bool {
	switch target {
	case catalogerrors.ErrNotFound:
		return e.Status == http.StatusNotFound
	case catalogerrors.ErrRequestRejected:
		return e.Status >= 400 && e.Status < 500 && e.Status != http.StatusNotFound
	case catalogerrors.ErrServerFailure:
		return e.Status >= 500
	}
	return false
}

// errorBody is the JSON error document of the backend
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client talks to the REST backend
type Client struct {
	http    *resty.Client
	appName string
}

// New creates a client for the configured backend. Requests are never retried.
func New(cfg config.BackendConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(utils.Logger())

	return &Client{http: httpClient, appName: cfg.AppName}
}

// Auctions returns the auction resource
func (c *Client) Auctions() *Auctions {
	return &Auctions{resource[model.Auction]{client: c, path: "/api/auctions"}}
}

// Offers returns the offer resource
func (c *Client) Offers() *Offers {
	return &Offers{resource[model.Offer]{client: c, path: "/api/offers"}}
}

// Health checks that the backend answers GET /health
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, c.http.R(), http.MethodGet, "/health")
	return err
}

type Auctions struct {
	resource[model.Auction]
}

type Offers struct {
	resource[model.Offer]
}

// resource implements the CRUD calls of one entity collection
type resource[T model.Entity] struct {
	client *Client
	path   string
}

func (r resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if _, err := r.client.do(ctx, r.client.http.R().SetResult(&out), http.MethodGet, r.path); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	_, err := r.client.do(ctx, r.client.http.R().SetResult(&out), http.MethodGet, fmt.Sprintf("%s/%d", r.path, id))
	return out, err
}

func (r resource[T]) Create(ctx context.Context, entity T) (T, model.Alert, error) {
	var out T
	resp, err := r.client.do(ctx, r.client.http.R().SetBody(entity).SetResult(&out), http.MethodPost, r.path)
	if err != nil {
		return out, model.Alert{}, err
	}
	return out, r.client.alert(resp), nil
}

func (r resource[T]) Update(ctx context.Context, entity T) (T, model.Alert, error) {
	var out T
	id, ok := entity.Identifier()
	if !ok {
		return out, model.Alert{}, fmt.Errorf("client: update %s: %w", r.path, catalogerrors.ErrInvalidID)
	}
	resp, err := r.client.do(ctx, r.client.http.R().SetBody(entity).SetResult(&out), http.MethodPut, fmt.Sprintf("%s/%d", r.path, id))
	if err != nil {
		return out, model.Alert{}, err
	}
	return out, r.client.alert(resp), nil
}

func (r resource[T]) Delete(ctx context.Context, id int64) (model.Alert, error) {
	resp, err := r.client.do(ctx, r.client.http.R(), http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id))
	if err != nil {
		return model.Alert{}, err
	}
	return r.client.alert(resp), nil
}

// do executes req and turns transport failures and non-2xx answers into errors
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string) (*resty.Response, error) {
	var body errorBody
	resp, err := req.SetContext(ctx).SetError(&body).Execute(method, path)
	if err != nil {
		if resp != nil && resp.StatusCode() != 0 {
			return nil, fmt.Errorf("client: %s %s: %w: %w", method, path, catalogerrors.ErrServerFailure, err)
		}
		utils.Warn("backend unreachable", map[string]any{"method": method, "path": path, "error": err.Error()})
		return nil, fmt.Errorf("client: %s %s: %w: %w", method, path, catalogerrors.ErrBackendUnavailable, err)
	}

	utils.Debug("backend call", map[string]any{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode(),
		"latency": resp.Time().String(),
	})

	if resp.IsError() {
		apiErr := &APIError{
			Status:  resp.StatusCode(),
			Message: body.Message,
			Detail:  body.Error,
			Key:     strings.TrimPrefix(resp.Header().Get(model.ErrorHeader(c.appName)), "error."),
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(apiErr.Status)
		}
		return nil, fmt.Errorf("client: %s %s: %w", method, path, apiErr)
	}
	return resp, nil
}

func (c *Client) alert(resp *resty.Response) model.Alert {
	return model.Alert{
		Message: resp.Header().Get(model.AlertHeader(c.appName)),
		Param:   resp.Header().Get(model.ParamsHeader(c.appName)),
	}
}

// AsAPIError extracts the backend answer from err, if any
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
