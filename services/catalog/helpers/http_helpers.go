package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/utils"

	"github.com/gin-gonic/gin"
)

// Alerts writes the alert headers of one application
type Alerts struct {
	appName string
}

func NewAlerts(appName string) Alerts {
	return Alerts{appName: appName}
}

// Created sets the alert headers of a successful create
func (a Alerts) Created(c *gin.Context, entity string, id int64) {
	a.set(c, fmt.Sprintf("A new %s is created with identifier %d", entity, id), strconv.FormatInt(id, 10))
}

// Updated sets the alert headers of a successful update or patch
func (a Alerts) Updated(c *gin.Context, entity string, id int64) {
	a.set(c, fmt.Sprintf("A %s is updated with identifier %d", entity, id), strconv.FormatInt(id, 10))
}

// Deleted sets the alert headers of a delete
func (a Alerts) Deleted(c *gin.Context, entity string, id int64) {
	a.set(c, fmt.Sprintf("A %s is deleted with identifier %d", entity, id), strconv.FormatInt(id, 10))
}

// Failure sets the error headers of a rejected request
func (a Alerts) Failure(c *gin.Context, entity, key string) {
	c.Header(model.ErrorHeader(a.appName), "error."+key)
	c.Header(model.ParamsHeader(a.appName), entity)
}

func (a Alerts) set(c *gin.Context, message, param string) {
	c.Header(model.AlertHeader(a.appName), message)
	c.Header(model.ParamsHeader(a.appName), param)
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, alerts Alerts, entity, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	alerts.Failure(c, entity, "badrequest")
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleServiceError maps err, writes the error response and logs it
func HandleServiceError(c *gin.Context, alerts Alerts, entity, handlerName string, err error, fields map[string]any) {
	status, message, key := MapErrorToHTTP(err)
	alerts.Failure(c, entity, key)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// ParseID reads the :id path parameter
func ParseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", catalogerrors.ErrIDInvalid, raw)
	}
	return id, nil
}

// MapErrorToHTTP maps domain/service errors to HTTP status code, message and alert key
func MapErrorToHTTP(err error) (int, string, string) {
	switch {
	case errors.Is(err, catalogerrors.ErrIDExists):
		return http.StatusBadRequest, "a new entity cannot already have an ID", "idexists"
	case errors.Is(err, catalogerrors.ErrIDNull):
		return http.StatusBadRequest, "invalid id", "idnull"
	case errors.Is(err, catalogerrors.ErrIDInvalid):
		return http.StatusBadRequest, "invalid ID", "idinvalid"
	case errors.Is(err, catalogerrors.ErrIDNotFound):
		return http.StatusBadRequest, "entity not found", "idnotfound"
	case errors.Is(err, catalogerrors.ErrUnknownAuction):
		return http.StatusBadRequest, "referenced auction does not exist", "unknownauction"
	case errors.Is(err, catalogerrors.ErrAuctionNotFound), errors.Is(err, catalogerrors.ErrOfferNotFound):
		return http.StatusNotFound, "entity not found", "notfound"
	case errors.Is(err, catalogerrors.ErrAuctionInUse):
		return http.StatusConflict, "auction still has offers", "auctioninuse"
	default:
		return http.StatusInternalServerError, "internal server error", "internal"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
