package views

import (
	"fmt"
	"strconv"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
)

// Routes builds the browser paths of one entity, e.g. Base "/offer"
type Routes struct {
	Base string
}

var (
	AuctionRoutes = Routes{Base: "/auction"}
	OfferRoutes   = Routes{Base: "/offer"}
)

func (r Routes) List() string { return r.Base }

func (r Routes) New() string { return r.Base + "/new" }

func (r Routes) Detail(id int64) string { return fmt.Sprintf("%s/%d", r.Base, id) }

func (r Routes) Edit(id int64) string { return fmt.Sprintf("%s/%d/edit", r.Base, id) }

func (r Routes) Delete(id int64) string { return fmt.Sprintf("%s/%d/delete", r.Base, id) }

// parseID reads an id path parameter
func parseID(idParam string) (int64, error) {
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("views: %w: %q", catalogerrors.ErrInvalidID, idParam)
	}
	return id, nil
}
