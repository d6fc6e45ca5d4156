package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBasicRouterMethodFiltering(t *testing.T) {
	router := NewBasicRouter()
	router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))

	t.Run("matching method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))

		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("got %d %q, want 200 pong", rec.Code, rec.Body.String())
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/ping", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("got %d, want 405", rec.Code)
		}
	})
}

func TestBasicRouterMiddlewareOrder(t *testing.T) {
	router := NewBasicRouter()

	appendHeader := func(value string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("X-Order", value)
				next.ServeHTTP(w, r)
			})
		}
	}

	router.Use(appendHeader("first"), appendHeader("second"))
	router.Handle("GET", "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	order := rec.Header().Values("X-Order")
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("middleware order = %v, want [first second]", order)
	}
}

type multiRouteHandler struct{}

func (multiRouteHandler) Routes() []string { return []string{"/a", "/b"} }

func (multiRouteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func TestBasicRouterHandlerRegistersAllRoutes(t *testing.T) {
	router := NewBasicRouter()
	router.Handler(multiRouteHandler{})

	for _, path := range []string{"/a", "/b"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		if rec.Body.String() != path {
			t.Errorf("route %s served %q", path, rec.Body.String())
		}
	}
}
