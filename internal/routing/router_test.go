package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/internal/observability"
	"github.com/shopsignal/sdk-go/sink"
)

func newRouter() (*Router, *sink.Capture, *sink.Capture) {
	fb := sink.NewCapture()
	gl := sink.NewCapture()
	return NewRouter(fb, gl, zap.NewNop(), observability.NewNoOpRegistry()), fb, gl
}

func TestRouteFiltersUnknownPlatforms(t *testing.T) {
	r, fb, gl := newRouter()

	r.Route(`{"audiences":[
		{"name":"Hot Leads","eventId":"ev-1","adPlatform":"Facebook"},
		{"name":"Mystery","eventId":"ev-2","adPlatform":"Unknown"}
	]}`)

	require.Len(t, fb.Events(), 1)
	assert.Empty(t, gl.Events())

	got := fb.Events()[0]
	assert.Equal(t, "Hot Leads", got.Name)
	assert.Equal(t, sink.Params{"eventID": "ev-1", "name": "Hot Leads"}, got.Params)
}

func TestRouteGoogleNormalizesName(t *testing.T) {
	r, fb, gl := newRouter()

	r.Route(`{"audiences":[{"name":"Hot  Summer Leads","eventId":"ev-3","adPlatform":"Google"}]}`)

	assert.Empty(t, fb.Events())
	require.Len(t, gl.Events(), 1)
	assert.Equal(t, "hot__summer_leads", gl.Events()[0].Name)
	assert.Equal(t, sink.Params{"value": "1"}, gl.Events()[0].Params)
}

func TestRouteCampaignFlattensBundles(t *testing.T) {
	r, fb, gl := newRouter()

	r.Route(`{"campaigns":[
		{"name":"Spring Sale","eventId":"ev-4","adPlatform":"Facebook",
		 "bundles":[{"name":"discount","value":"10"},{"name":"region","value":"eu"}]},
		{"name":"Spring Sale","eventId":"ev-4","adPlatform":"Google",
		 "bundles":[{"name":"discount","value":"10"}]}
	]}`)

	require.Len(t, fb.Events(), 1)
	assert.Equal(t, sink.Params{
		"eventID":  "ev-4",
		"name":     "Spring Sale",
		"discount": "10",
		"region":   "eu",
	}, fb.Events()[0].Params)

	require.Len(t, gl.Events(), 1)
	assert.Equal(t, "spring_sale", gl.Events()[0].Name)
	assert.Equal(t, sink.Params{"value": "1", "discount": "10"}, gl.Events()[0].Params)
}

func TestRouteToleratesBadInput(t *testing.T) {
	r, fb, gl := newRouter()

	// None of these may panic or route anything.
	r.Route("")
	r.Route("not json")
	r.Route(`{"audiences": "wrong shape"}`)
	r.Route(`{}`)

	assert.Empty(t, fb.Events())
	assert.Empty(t, gl.Events())
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Hot Leads":      "hot_leads",
		"ALLCAPS":        "allcaps",
		"tab\tseparated": "tab_separated",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeName(in))
	}
}
