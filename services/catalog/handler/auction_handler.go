package handler

import (
	"context"
	"fmt"
	"net/http"

	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/services/catalog/helpers"
	"github.com/FireRedDev/ebayklon/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=auction_handler.go -destination=mock_auction_service.go -package=handler

const auctionEntity = "auction"

type AuctionServiceInterface interface {
	Create(ctx context.Context, auction model.Auction) (model.Auction, error)
	Update(ctx context.Context, pathID int64, auction model.Auction) (model.Auction, error)
	Patch(ctx context.Context, pathID int64, patch model.Auction) (model.Auction, error)
	List(ctx context.Context) ([]model.Auction, error)
	Get(ctx context.Context, id int64) (model.Auction, error)
	Delete(ctx context.Context, id int64) error
}

type AuctionHandler struct {
	service AuctionServiceInterface
	alerts  helpers.Alerts
}

func NewAuctionHandler(service AuctionServiceInterface, appName string) *AuctionHandler {
	return &AuctionHandler{service: service, alerts: helpers.NewAlerts(appName)}
}

// CreateAuctionHandler handles POST /api/auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req model.Auction
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, h.alerts, auctionEntity, "CreateAuctionHandler", err)
		return
	}

	auction, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, "CreateAuctionHandler", err, nil)
		return
	}

	id, _ := auction.Identifier()
	h.alerts.Created(c, auctionEntity, id)
	c.Header("Location", fmt.Sprintf("/api/auctions/%d", id))
	utils.JSONEntity(c, http.StatusCreated, auction)
	helpers.LogSuccess("CreateAuctionHandler", "auction created", map[string]any{"auction_id": id})
}

// UpdateAuctionHandler handles PUT /api/auctions/:id
func (h *AuctionHandler) UpdateAuctionHandler(c *gin.Context) {
	h.update(c, "UpdateAuctionHandler", h.service.Update)
}

// PatchAuctionHandler handles PATCH /api/auctions/:id
func (h *AuctionHandler) PatchAuctionHandler(c *gin.Context) {
	h.update(c, "PatchAuctionHandler", h.service.Patch)
}

func (h *AuctionHandler) update(c *gin.Context, handlerName string, apply func(context.Context, int64, model.Auction) (model.Auction, error)) {
	pathID, err := helpers.ParseID(c)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, handlerName, err, map[string]any{"id": c.Param("id")})
		return
	}

	var req model.Auction
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, h.alerts, auctionEntity, handlerName, err)
		return
	}

	auction, err := apply(c.Request.Context(), pathID, req)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, handlerName, err, map[string]any{"auction_id": pathID})
		return
	}

	h.alerts.Updated(c, auctionEntity, pathID)
	utils.JSONEntity(c, http.StatusOK, auction)
	helpers.LogSuccess(handlerName, "auction updated", map[string]any{"auction_id": pathID})
}

// ListAuctionsHandler handles GET /api/auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.List(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, "ListAuctionsHandler", err, nil)
		return
	}

	if auctions == nil {
		auctions = []model.Auction{}
	}

	utils.JSONEntity(c, http.StatusOK, auctions)
	utils.Debug("ListAuctionsHandler: auctions retrieved", map[string]any{"count": len(auctions)})
}

// GetAuctionHandler handles GET /api/auctions/:id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	id, err := helpers.ParseID(c)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, "GetAuctionHandler", err, map[string]any{"id": c.Param("id")})
		return
	}

	auction, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, "GetAuctionHandler", err, map[string]any{"auction_id": id})
		return
	}

	utils.JSONEntity(c, http.StatusOK, auction)
}

// DeleteAuctionHandler handles DELETE /api/auctions/:id
func (h *AuctionHandler) DeleteAuctionHandler(c *gin.Context) {
	id, err := helpers.ParseID(c)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, "DeleteAuctionHandler", err, map[string]any{"id": c.Param("id")})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		helpers.HandleServiceError(c, h.alerts, auctionEntity, "DeleteAuctionHandler", err, map[string]any{"auction_id": id})
		return
	}

	h.alerts.Deleted(c, auctionEntity, id)
	c.Status(http.StatusNoContent)
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted", map[string]any{"auction_id": id})
}
