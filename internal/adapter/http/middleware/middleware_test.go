package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"portal_orcamentos/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubParser map[string]entities.Actor

func (s stubParser) Parse(token string) (entities.Actor, error) {
	actor, ok := s[token]
	if !ok {
		return entities.Actor{}, errors.New("bad token")
	}
	return actor, nil
}

var parser = stubParser{
	"customer": {ID: "u1", Email: "compras@acme.com", Role: entities.RoleCustomer},
	"staff":    {ID: "staff:ana@portal.com", Role: entities.RoleStaff},
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireAuth(parser), func(c *gin.Context) {
		c.String(http.StatusOK, ActorFrom(c).ID)
	})
	r.GET("/staff", RequireAuth(parser), RequireRole(entities.RoleStaff), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter()

	cases := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{name: "missing token", target: "/me", status: http.StatusUnauthorized},
		{name: "bad token", target: "/me", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong scheme", target: "/me", header: "Basic customer", status: http.StatusUnauthorized},
		{name: "bearer header", target: "/me", header: "Bearer customer", status: http.StatusOK, body: "u1"},
		{name: "query token", target: "/me?access_token=customer", status: http.StatusOK, body: "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.body != "" && w.Body.String() != tc.body {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter()

	for token, want := range map[string]int{"customer": http.StatusForbidden, "staff": http.StatusNoContent} {
		req := httptest.NewRequest(http.MethodGet, "/staff", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("%s: expected %d, got %d", token, want, w.Code)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") != "req-1" {
		t.Fatalf("request id not propagated")
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log line, got %d", len(entries))
	}
	if entries[0].ContextMap()["route"] != "/ping" {
		t.Fatalf("unexpected fields: %v", entries[0].ContextMap())
	}
}
