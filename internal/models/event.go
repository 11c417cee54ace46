package models

import (
	"strconv"
	"time"
)

// ActionType identifies the kind of user action an event reports.
type ActionType string

const (
	ActionListing  ActionType = "listing"
	ActionProduct  ActionType = "product"
	ActionBasket   ActionType = "basket"
	ActionPurchase ActionType = "purchase"
)

// EventType is the fixed payload type tag sent with every collector request.
const EventType = "ecommerce"

// Envelope carries the fields common to every action event. The `id` field
// duplicates the visitor identifier; the collector keys customer records on it.
type Envelope struct {
	Type       string     `json:"type"`
	VisitorID  string     `json:"visitorID"`
	UserID     string     `json:"userID"`
	ID         string     `json:"id"`
	DeviceType string     `json:"deviceType"`
	ActionType ActionType `json:"actionType"`
}

// NewEnvelope builds the common envelope for one action.
func NewEnvelope(action ActionType, visitorID, userID, deviceType string) Envelope {
	return Envelope{
		Type:       EventType,
		VisitorID:  visitorID,
		UserID:     userID,
		ID:         visitorID,
		DeviceType: deviceType,
		ActionType: action,
	}
}

// ActionEvent is one reported user interaction. Each variant carries only
// the fields relevant to its action kind and marshals to a flat JSON
// object.
type ActionEvent interface {
	Action() ActionType
}

// ListingEvent reports a category listing page view.
type ListingEvent struct {
	Envelope
	ProductCategory1 string `json:"productCategory1"`
	ProductCategory2 string `json:"productCategory2"`
}

func (ListingEvent) Action() ActionType { return ActionListing }

// ProductEvent reports a product detail page view.
type ProductEvent struct {
	Envelope
	ProductID        string  `json:"productID"`
	ProductCategory2 string  `json:"productCategory2"`
	Price            float64 `json:"price"`
}

func (ProductEvent) Action() ActionType { return ActionProduct }

// BasketEvent reports a product added to the cart.
type BasketEvent struct {
	Envelope
	ProductID string `json:"productID"`
}

func (BasketEvent) Action() ActionType { return ActionBasket }

// LineItem is one purchased product within a basket.
type LineItem struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// PlaceholderLineItem is reported when a purchase is tracked without any
// line items, so an empty call still produces a well-formed basket.
var PlaceholderLineItem = LineItem{ID: "no-id", Quantity: 1, Price: 1}

// PurchaseEvent reports a completed purchase.
type PurchaseEvent struct {
	Envelope
	Products []LineItem `json:"products"`
	BasketID string     `json:"basketID"`
}

func (PurchaseEvent) Action() ActionType { return ActionPurchase }

// NewBasketID derives a basket identifier from the wall clock, matching the
// collector's expectation of a millisecond timestamp string.
func NewBasketID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
