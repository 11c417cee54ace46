package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeListingEvent(t *testing.T) {
	ev := ListingEvent{
		Envelope:         NewEnvelope(ActionListing, "v1s1t0r1", "acct-1", "android"),
		ProductCategory1: "shoes",
	}

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "ecommerce",
		"visitorID": "v1s1t0r1",
		"userID": "acct-1",
		"id": "v1s1t0r1",
		"deviceType": "android",
		"actionType": "listing",
		"productCategory1": "shoes",
		"productCategory2": ""
	}`, string(raw))
}

func TestEncodePurchaseEvent(t *testing.T) {
	ev := PurchaseEvent{
		Envelope: NewEnvelope(ActionPurchase, "v1s1t0r1", "acct-1", "ios"),
		Products: []LineItem{{ID: "sku-42", Quantity: 2, Price: 49.99}},
		BasketID: "1700000000000",
	}

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "purchase", decoded["actionType"])
	assert.Equal(t, "1700000000000", decoded["basketID"])

	products := decoded["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "sku-42", products[0].(map[string]any)["id"])
}

func TestNewBasketID(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	assert.Equal(t, "1700000000000", NewBasketID(at))
}

func TestParseScore(t *testing.T) {
	resp, err := ParseScore(`{
		"audiences": [{"name":"Hot Leads","eventId":"ev-1","adPlatform":"Facebook"}],
		"campaigns": [{"name":"Sale","eventId":"ev-2","adPlatform":"Google",
			"bundles":[{"name":"discount","value":"10"}]}]
	}`)
	require.NoError(t, err)
	require.Len(t, resp.Audiences, 1)
	assert.Equal(t, AdPlatform("Facebook"), resp.Audiences[0].AdPlatform)
	require.Len(t, resp.Campaigns, 1)
	assert.Equal(t, Bundle{Name: "discount", Value: "10"}, resp.Campaigns[0].Bundles[0])
	assert.False(t, resp.Empty())
}

func TestParseScoreMissingKeys(t *testing.T) {
	resp, err := ParseScore(`{}`)
	require.NoError(t, err)
	assert.True(t, resp.Empty())

	resp, err = ParseScore("")
	require.NoError(t, err)
	assert.True(t, resp.Empty())
}

func TestParseScoreMalformed(t *testing.T) {
	_, err := ParseScore("not json")
	assert.Error(t, err)
}
