package notepad

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	h := &Handler{Service: newTestService()}
	h.Register(e.Group("/notepad"))
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNotepadHandlers(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/notepad/construction", `{"text":"steel","amount":"750"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Entry Entry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "n1", created.Entry.ID)

	rec = do(e, http.MethodPost, "/notepad/construction", `{"text":"no price"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPatch, "/notepad/construction/n1", `{"text":"steel","amount":120.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/notepad/construction", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Page    string  `json:"page"`
		Entries []Entry `json:"entries"`
		Total   string  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "construction", list.Page)
	assert.Len(t, list.Entries, 2)
	assert.Equal(t, "120.5", list.Total)

	rec = do(e, http.MethodDelete, "/notepad/construction/n2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/notepad/construction/export.pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	rec = do(e, http.MethodDelete, "/notepad/construction", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodGet, "/notepad/construction", "")
	assert.Contains(t, rec.Body.String(), `"entries":[]`)
}

func TestNotepadHandlerErrors(t *testing.T) {
	e := newTestServer()

	tests := []struct {
		method, target, body string
		status               int
		msg                  string
	}{
		{http.MethodPost, "/notepad/construction", `{"text":""}`, http.StatusBadRequest, "text is required"},
		{http.MethodPost, "/notepad/construction", `{"text":`, http.StatusBadRequest, "invalid request body"},
		{http.MethodPost, "/notepad/construction", `{"text":"x","amount":"abc"}`, http.StatusBadRequest, "invalid request body"},
		{http.MethodPatch, "/notepad/construction/nope", `{"text":"x"}`, http.StatusNotFound, "note not found"},
		{http.MethodDelete, "/notepad/construction/nope", "", http.StatusNotFound, "note not found"},
		{http.MethodGet, "/notepad/Bad%20Page", "", http.StatusBadRequest, "invalid page"},
	}
	for _, tt := range tests {
		rec := do(e, tt.method, tt.target, tt.body)
		assert.Equal(t, tt.status, rec.Code, tt.method+" "+tt.target)
		assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, rec.Body.String())
	}
}
