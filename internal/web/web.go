package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
	"github.com/FireRedDev/ebayklon/internal/client"
	model "github.com/FireRedDev/ebayklon/internal/models"
	"github.com/FireRedDev/ebayklon/internal/server"
	"github.com/FireRedDev/ebayklon/internal/store"
	"github.com/FireRedDev/ebayklon/internal/views"
	"github.com/FireRedDev/ebayklon/utils"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcs = template.FuncMap{
	"id": model.FormatID,
	"text": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"number": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	},
}

// Stores are the client-side state containers the pages read and write
type Stores struct {
	Auctions *store.Store[model.Auction]
	Offers   *store.Store[model.Offer]
}

// NewStores wires one store per entity to the backend client
func NewStores(c *client.Client) Stores {
	return Stores{
		Auctions: store.New[model.Auction]("auction", c.Auctions()),
		Offers:   store.New[model.Offer]("offer", c.Offers()),
	}
}

// SetupRouter configures the browser UI routes
func SetupRouter(stores Stores) *gin.Engine {
	router := gin.New()
	server.Use(router)
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")))

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "home.html", gin.H{"Title": "ebayklon"})
	})
	router.GET("/health", server.HealthHandler)

	register(router.Group(views.AuctionRoutes.Base), pages[model.Auction, views.AuctionForm]{
		entity:   "auction",
		title:    "Auction",
		store:    stores.Auctions,
		binder:   views.AuctionBinder{},
		routes:   views.AuctionRoutes,
		template: "auction",
	})
	register(router.Group(views.OfferRoutes.Base), pages[model.Offer, views.OfferForm]{
		entity:   "offer",
		title:    "Offer",
		store:    stores.Offers,
		auctions: stores.Auctions,
		binder:   views.OfferBinder{},
		routes:   views.OfferRoutes,
		template: "offer",
	})

	return router
}

func register[T model.Entity, F any](rg *gin.RouterGroup, p pages[T, F]) {
	rg.GET("", p.list)
	rg.GET("/new", p.edit)
	rg.POST("/new", p.save)
	rg.GET("/:id", p.detail)
	rg.GET("/:id/edit", p.edit)
	rg.POST("/:id/edit", p.save)
	rg.GET("/:id/delete", p.confirmDelete)
	rg.POST("/:id/delete", p.delete)
}

// pages serves the four views of one entity type
type pages[T model.Entity, F any] struct {
	entity   string
	title    string
	store    *store.Store[T]
	auctions *store.Store[model.Auction]
	binder   views.Binder[T, F]
	routes   views.Routes
	template string
}

func (p pages[T, F]) render(c *gin.Context, view string, status int, page any, err error) {
	data := gin.H{
		"Title":  p.title,
		"Routes": p.routes,
		"Page":   page,
	}
	if err != nil {
		data["Error"] = errorMessage(err)
	}
	c.HTML(status, p.template+"_"+view+".html", data)
}

// list handles GET /<entity>; ?refresh=1 fetches the list again
func (p pages[T, F]) list(c *gin.Context) {
	view := views.NewListView(p.store)
	page, err := view.Mount(c.Request.Context())
	if err == nil && c.Query("refresh") == "1" {
		page, err = view.Refresh(c.Request.Context())
	}
	p.render(c, "list", statusFor(err), page, err)
}

// detail handles GET /<entity>/:id
func (p pages[T, F]) detail(c *gin.Context) {
	page, err := views.NewDetailView(p.store).Mount(c.Request.Context(), c.Param("id"))
	p.render(c, "detail", statusFor(err), page, err)
}

// edit handles GET /<entity>/new and GET /<entity>/:id/edit
func (p pages[T, F]) edit(c *gin.Context) {
	page, err := views.NewUpdateView(p.store, p.auctions, p.binder, p.routes).Mount(c.Request.Context(), c.Param("id"))
	p.render(c, "update", statusFor(err), page, err)
}

// save handles POST /<entity>/new and POST /<entity>/:id/edit
func (p pages[T, F]) save(c *gin.Context) {
	view := views.NewUpdateView(p.store, p.auctions, p.binder, p.routes)

	var form F
	if err := c.ShouldBind(&form); err != nil {
		page, rerr := view.Reject(c.Request.Context(), c.Param("id"), form, err)
		utils.Warn("form rejected", map[string]any{"entity": p.entity, "error": err.Error()})
		p.render(c, "update", statusFor(rerr), page, rerr)
		return
	}

	page, err := view.Submit(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		p.render(c, "update", statusFor(err), page, err)
		return
	}

	utils.Info("entity saved", map[string]any{"entity": p.entity, "alert": page.Alert.Message})
	c.Redirect(http.StatusSeeOther, page.Redirect)
}

// confirmDelete handles GET /<entity>/:id/delete
func (p pages[T, F]) confirmDelete(c *gin.Context) {
	page, err := views.NewDeleteDialog(p.store, p.routes).Mount(c.Request.Context(), c.Param("id"))
	p.render(c, "delete", statusFor(err), page, err)
}

// delete handles POST /<entity>/:id/delete
func (p pages[T, F]) delete(c *gin.Context) {
	dialog := views.NewDeleteDialog(p.store, p.routes)
	page, err := dialog.Mount(c.Request.Context(), c.Param("id"))
	if err == nil {
		page, err = dialog.Confirm(c.Request.Context())
	}
	if err != nil {
		p.render(c, "delete", statusFor(err), page, err)
		return
	}

	utils.Info("entity deleted", map[string]any{"entity": p.entity, "alert": page.Alert.Message})
	c.Redirect(http.StatusSeeOther, page.Redirect)
}

// statusFor maps a view error to the status of the rendered page
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, catalogerrors.ErrInvalidID), errors.Is(err, catalogerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalogerrors.ErrInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, catalogerrors.ErrRequestRejected):
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Status == http.StatusConflict {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case errors.Is(err, catalogerrors.ErrBackendUnavailable), errors.Is(err, catalogerrors.ErrServerFailure):
		return http.StatusBadGateway
	case errors.Is(err, catalogerrors.ErrDialogNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.Key != "" {
			return apiErr.Message + " (error." + apiErr.Key + ")"
		}
		return apiErr.Message
	}
	switch {
	case errors.Is(err, catalogerrors.ErrBackendUnavailable):
		return "The backend is not reachable. Please try again later."
	case errors.Is(err, catalogerrors.ErrInvalidForm):
		return "Please check the form input."
	case errors.Is(err, catalogerrors.ErrInvalidID), errors.Is(err, catalogerrors.ErrNotFound):
		return "Not found."
	}
	return err.Error()
}
