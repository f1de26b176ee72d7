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

//go:generate mockgen -source=offer_handler.go -destination=mock_offer_service.go -package=handler

const offerEntity = "offer"

type OfferServiceInterface interface {
	Create(ctx context.Context, offer model.Offer) (model.Offer, error)
	Update(ctx context.Context, pathID int64, offer model.Offer) (model.Offer, error)
	Patch(ctx context.Context, pathID int64, patch model.Offer) (model.Offer, error)
	List(ctx context.Context) ([]model.Offer, error)
	Get(ctx context.Context, id int64) (model.Offer, error)
	Delete(ctx context.Context, id int64) error
}

type OfferHandler struct {
	service OfferServiceInterface
	alerts  helpers.Alerts
}

func NewOfferHandler(service OfferServiceInterface, appName string) *OfferHandler {
	return &OfferHandler{service: service, alerts: helpers.NewAlerts(appName)}
}

// CreateOfferHandler handles POST /api/offers
func (h *OfferHandler) CreateOfferHandler(c *gin.Context) {
	var req model.Offer
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, h.alerts, offerEntity, "CreateOfferHandler", err)
		return
	}

	offer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, "CreateOfferHandler", err, nil)
		return
	}

	id, _ := offer.Identifier()
	h.alerts.Created(c, offerEntity, id)
	c.Header("Location", fmt.Sprintf("/api/offers/%d", id))
	utils.JSONEntity(c, http.StatusCreated, offer)
	helpers.LogSuccess("CreateOfferHandler", "offer created", map[string]any{"offer_id": id})
}

// UpdateOfferHandler handles PUT /api/offers/:id
func (h *OfferHandler) UpdateOfferHandler(c *gin.Context) {
	h.update(c, "UpdateOfferHandler", h.service.Update)
}

// PatchOfferHandler handles PATCH /api/offers/:id
func (h *OfferHandler) PatchOfferHandler(c *gin.Context) {
	h.update(c, "PatchOfferHandler", h.service.Patch)
}

func (h *OfferHandler) update(c *gin.Context, handlerName string, apply func(context.Context, int64, model.Offer) (model.Offer, error)) {
	pathID, err := helpers.ParseID(c)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, handlerName, err, map[string]any{"id": c.Param("id")})
		return
	}

	var req model.Offer
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, h.alerts, offerEntity, handlerName, err)
		return
	}

	offer, err := apply(c.Request.Context(), pathID, req)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, handlerName, err, map[string]any{"offer_id": pathID})
		return
	}

	h.alerts.Updated(c, offerEntity, pathID)
	utils.JSONEntity(c, http.StatusOK, offer)
	helpers.LogSuccess(handlerName, "offer updated", map[string]any{"offer_id": pathID})
}

// ListOffersHandler handles GET /api/offers
func (h *OfferHandler) ListOffersHandler(c *gin.Context) {
	offers, err := h.service.List(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, "ListOffersHandler", err, nil)
		return
	}

	if offers == nil {
		offers = []model.Offer{}
	}

	utils.JSONEntity(c, http.StatusOK, offers)
	utils.Debug("ListOffersHandler: offers retrieved", map[string]any{"count": len(offers)})
}

// GetOfferHandler handles GET /api/offers/:id
func (h *OfferHandler) GetOfferHandler(c *gin.Context) {
	id, err := helpers.ParseID(c)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, "GetOfferHandler", err, map[string]any{"id": c.Param("id")})
		return
	}

	offer, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, "GetOfferHandler", err, map[string]any{"offer_id": id})
		return
	}

	utils.JSONEntity(c, http.StatusOK, offer)
}

// DeleteOfferHandler handles DELETE /api/offers/:id
func (h *OfferHandler) DeleteOfferHandler(c *gin.Context) {
	id, err := helpers.ParseID(c)
	if err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, "DeleteOfferHandler", err, map[string]any{"id": c.Param("id")})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		helpers.HandleServiceError(c, h.alerts, offerEntity, "DeleteOfferHandler", err, map[string]any{"offer_id": id})
		return
	}

	h.alerts.Deleted(c, offerEntity, id)
	c.Status(http.StatusNoContent)
	helpers.LogSuccess("DeleteOfferHandler", "offer deleted", map[string]any{"offer_id": id})
}
