package models

import "strconv"

// Entity is implemented by every record type with a server-assigned identity.
type Entity interface {
	Identifier() (int64, bool)
}

// Auction represents an auction and the offers placed against it
type Auction struct {
	ID          *int64  `json:"id,omitempty"`
	Description *string `json:"auctionDescription,omitempty"`
	// Offers is populated by the server join and ignored on writes.
	Offers []Offer `json:"auctionNames,omitempty"`
}

// Offer represents a value offered for an auction
type Offer struct {
	ID      *int64   `json:"id,omitempty"`
	Value   *float64 `json:"offerValue,omitempty"`
	Auction *Auction `json:"offerName,omitempty"`
}

// Alert is the user-facing notification the backend attaches to a mutation.
type Alert struct {
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
}

// Identifier returns the auction id and whether it has been assigned
func (a Auction) Identifier() (int64, bool) {
	if a.ID == nil {
		return 0, false
	}
	return *a.ID, true
}

// Identifier returns the offer id and whether it has been assigned
func (o Offer) Identifier() (int64, bool) {
	if o.ID == nil {
		return 0, false
	}
	return *o.ID, true
}

// Ref returns the auction as it is embedded in an offer, without its offers.
func (a Auction) Ref() *Auction {
	return &Auction{ID: a.ID, Description: a.Description}
}

// Unlinked returns the offer as it is embedded in an auction, without its auction.
func (o Offer) Unlinked() Offer {
	return Offer{ID: o.ID, Value: o.Value}
}

// AuctionID returns the id of the referenced auction, if any.
func (o Offer) AuctionID() (int64, bool) {
	if o.Auction == nil {
		return 0, false
	}
	return o.Auction.Identifier()
}

// FormatID renders an optional id for display; unassigned ids render empty.
func FormatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func Int64(v int64) *int64 { return &v }

func Float64(v float64) *float64 { return &v }

func String(v string) *string { return &v }

// AlertHeader is the response header carrying the alert message of a mutation.
func AlertHeader(appName string) string { return "X-" + appName + "-alert" }

// ParamsHeader carries the alert parameter, usually the entity id.
func ParamsHeader(appName string) string { return "X-" + appName + "-params" }

// ErrorHeader carries the error.<key> of a rejected request.
func ErrorHeader(appName string) string { return "X-" + appName + "-error" }
