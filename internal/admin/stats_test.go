package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/jobs"
	mware "github.com/sudo-init-do/bazaar/internal/middleware"
)

var secret = []byte("admin-test-secret")

type stubSource struct {
	vendors []catalog.Vendor
	err     error
}

func (s stubSource) Load(context.Context, catalog.Vertical) ([]catalog.Vendor, error) {
	return s.vendors, s.err
}

func newServer(src catalog.Source) (*echo.Echo, *catalog.Registry) {
	r := catalog.NewRegistry(catalog.NewStore(catalog.RealEstate, []catalog.Vendor{
		{ID: "a", Name: "A", Offerings: []catalog.Offering{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}},
		{ID: "b", Name: "B", Offerings: []catalog.Offering{{ID: "3", Name: "three"}}},
	}))
	h := &Handler{
		Registry:  r,
		Shuffler:  jobs.NewShuffler(r),
		Source:    src,
		Listeners: func(catalog.Vertical) int { return 2 },
	}
	e := echo.New()
	h.Register(e.Group("/admin", mware.JWT(secret)))
	return e, r
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := mware.SignToken(secret, "u-"+role, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func serve(t *testing.T, e *echo.Echo, role, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, role))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStats(t *testing.T) {
	e, _ := newServer(stubSource{})
	want := `{"verticals":[{"vertical":"realestate","version":0,"vendors":2,"offerings":3,"listeners":2}]}`

	for _, role := range []string{"admin", "operator"} {
		rec := serve(t, e, role, http.MethodGet, "/admin/catalog/stats", "")
		require.Equal(t, http.StatusOK, rec.Code, role)
		assert.JSONEq(t, want, rec.Body.String())
	}

	rec := serve(t, e, "viewer", http.MethodGet, "/admin/catalog/stats", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWritesNeedAdminRole(t *testing.T) {
	e, r := newServer(stubSource{})

	for _, tt := range []struct{ method, target, body string }{
		{http.MethodPost, "/admin/catalog/realestate/shuffle", ""},
		{http.MethodPost, "/admin/catalog/realestate/reload", ""},
		{http.MethodPut, "/admin/catalog/realestate/vendors/c", `{"name":"C"}`},
	} {
		rec := serve(t, e, "operator", tt.method, tt.target, tt.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, tt.target)
		assert.JSONEq(t, `{"error":"admin access only"}`, rec.Body.String())
	}
	s, _ := r.Store(catalog.RealEstate)
	assert.Zero(t, s.Snapshot().Version)
}

func TestShuffle(t *testing.T) {
	e, r := newServer(stubSource{})

	rec := serve(t, e, "admin", http.MethodPost, "/admin/catalog/real-estate/shuffle?seed=11", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"vertical":"realestate","version":1}`, rec.Body.String())
	s, _ := r.Store(catalog.RealEstate)
	assert.Equal(t, uint64(1), s.Snapshot().Version)

	assert.Equal(t, http.StatusBadRequest, serve(t, e, "admin", http.MethodPost, "/admin/catalog/realestate/shuffle?seed=x", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, e, "admin", http.MethodPost, "/admin/catalog/insurance/shuffle", "").Code)
}

func TestReload(t *testing.T) {
	e, _ := newServer(stubSource{vendors: []catalog.Vendor{{ID: "z", Offerings: []catalog.Offering{{ID: "9"}}}}})
	rec := serve(t, e, "admin", http.MethodPost, "/admin/catalog/realestate/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Version uint64 `json:"version"`
		Vendors int    `json:"vendors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(1), body.Version)
	assert.Equal(t, 1, body.Vendors)

	e, _ = newServer(stubSource{err: errors.New("db down")})
	rec = serve(t, e, "admin", http.MethodPost, "/admin/catalog/realestate/reload", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
