package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/uuid"
)

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging(), Metrics())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	t.Run("assigns_request_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

		id := rec.Header().Get("X-Request-ID")
		if !uuid.IsValid(id) {
			t.Fatalf("expected a UUID request ID, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("handler saw request ID %q, header has %q", rec.Body.String(), id)
		}
	})

	t.Run("reuses_incoming_request_id", func(t *testing.T) {
		incoming := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", incoming)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != incoming {
			t.Errorf("expected request ID %q, got %q", incoming, got)
		}
	})

	t.Run("replaces_malformed_request_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set("X-Request-ID", "<script>")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got == "<script>" || !uuid.IsValid(got) {
			t.Errorf("expected a fresh UUID, got %q", got)
		}
	})
}
