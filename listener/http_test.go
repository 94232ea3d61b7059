package listener

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stephenafamo/sentryscope/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe reports a message through the request hub
var probe = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	sentry.GetHubFromContext(r.Context()).CaptureMessage("probe")
	w.WriteHeader(http.StatusNoContent)
})

func TestMiddleware(t *testing.T) {
	hub, events := newTestHub(t)
	storage := &staticStorage{token: identity.StaticToken{Authenticated: true, User: namedUser{name: "foo_user"}}}

	mux := http.NewServeMux()
	mux.Handle("/", Route("homepage", probe))
	handler := Middleware(hub, Options{Tokens: storage})(mux)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, *events, 1)

	event := (*events)[0]
	assert.Equal(t, "127.0.0.1", event.User.IPAddress)
	assert.Equal(t, "foo_user", event.User.Username)
	assert.Equal(t, map[string]string{RouteTag: "homepage"}, event.Tags)
}

func TestMiddlewareDoesNotLeakScope(t *testing.T) {
	hub, events := newTestHub(t)
	handler := Middleware(hub, Options{})(Route("homepage", probe))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Len(t, *events, 1)

	event := lastEvent(t, hub, events)
	assert.Empty(t, event.User.IPAddress)
	assert.Empty(t, event.Tags)
}

func TestMiddlewareAnonymous(t *testing.T) {
	hub, events := newTestHub(t)
	handler := Middleware(hub, Options{Tokens: &staticStorage{}})(Route("", probe))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, *events, 1)
	event := (*events)[0]
	assert.Equal(t, "192.0.2.10", event.User.IPAddress)
	assert.Empty(t, event.User.Username)
	assert.Empty(t, event.Tags)
}

func TestMiddlewareUnsupportedPrincipal(t *testing.T) {
	hub, events := newTestHub(t)
	storage := &staticStorage{token: identity.StaticToken{Authenticated: true, User: 3.14}}

	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	handler := Middleware(hub, Options{Tokens: storage})(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, *events, 1)

	exceptions := (*events)[0].Exception
	require.NotEmpty(t, exceptions)
	assert.True(t, strings.Contains(exceptions[len(exceptions)-1].Value, identity.ErrUnsupportedPrincipal.Error()))
}

func TestMiddlewareRecoversPanics(t *testing.T) {
	hub, events := newTestHub(t)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("handler exploded") })
	handler := Middleware(hub, Options{})(next)

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, *events, 1)
	assert.Equal(t, "handler exploded", (*events)[0].Message)
}

func TestDispatchSubRequest(t *testing.T) {
	hub, events := newTestHub(t)

	fragment := Route("fragment", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	page := Route("page", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MainRequest, RequestTypeFromContext(r.Context()))
		Dispatch(w, r, fragment)
		probe.ServeHTTP(w, r)
	}))

	handler := Middleware(hub, Options{})(page)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, *events, 1)
	assert.Equal(t, map[string]string{RouteTag: "page"}, (*events)[0].Tags)
}

func TestRouteWithoutHub(t *testing.T) {
	called := false
	handler := Route("homepage", http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	assert.NotPanics(t, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.True(t, called)
}
