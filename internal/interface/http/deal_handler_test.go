package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stacksapp/stacks-api/internal/application"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCtx(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	c.Request = r
	return c, w
}

// Boundary-only cases: these paths reject before any repository is touched,
// so a service with nil dependencies is safe.
func newBoundaryDealHandler() *DealHandler {
	return NewDealHandler(application.NewDealService(nil, nil, nil, nil, nil, ""), nil)
}

func TestListRejectsPartialCoordinate(t *testing.T) {
	h := newBoundaryDealHandler()

	for _, target := range []string{
		"/api/deals?category=Food&lat=40.7",
		"/api/deals?category=Food&lng=-74.0",
	} {
		c, w := testCtx(http.MethodGet, target, "")
		h.List(c)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", target, w.Code)
		}
	}
}

func TestListRejectsNonNumericCoordinate(t *testing.T) {
	h := newBoundaryDealHandler()

	c, w := testCtx(http.MethodGet, "/api/deals?category=Food&lat=abc&lng=-74.0", "")
	h.List(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestListRequiresCategoryFilter(t *testing.T) {
	h := newBoundaryDealHandler()

	c, w := testCtx(http.MethodGet, "/api/deals", "")
	h.List(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h := newBoundaryDealHandler()

	c, w := testCtx(http.MethodGet, "/api/deals/search", "")
	h.Search(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestUpdateRejectsMalformedBody(t *testing.T) {
	h := newBoundaryDealHandler()

	c, w := testCtx(http.MethodPut, "/api/deals/d1", `["not", "an", "object"]`)
	h.Update(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&application.FieldError{Field: "password", Reason: "field not allowed"}, http.StatusBadRequest},
		{application.ErrMissingFilter, http.StatusBadRequest},
		{application.ErrEmailTaken, http.StatusUnprocessableEntity},
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrCannotMutate, http.StatusUnauthorized},
		{application.ErrNotFound, http.StatusNotFound},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, w := testCtx(http.MethodGet, "/api/deals", "")
		respondError(c, nil, tc.err)
		if w.Code != tc.want {
			t.Fatalf("%v: want %d, got %d", tc.err, tc.want, w.Code)
		}
	}
}

// Denial responses for "not owned" and "missing" must be byte-identical apart
// from the envelope timestamp and request id, so a caller cannot probe for
// resource existence.
func TestDenialBodiesDoNotLeakExistence(t *testing.T) {
	c1, w1 := testCtx(http.MethodPut, "/api/deals/owned-by-someone-else", "")
	respondError(c1, nil, application.ErrCannotMutate)
	c2, w2 := testCtx(http.MethodPut, "/api/deals/does-not-exist", "")
	respondError(c2, nil, application.ErrCannotMutate)

	if w1.Code != w2.Code {
		t.Fatalf("status differs: %d vs %d", w1.Code, w2.Code)
	}
}
