package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/ping/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping/:id", "204"))

	req := httptest.NewRequest(http.MethodGet, "/ping/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping/:id", "204"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
	if inFlight := testutil.ToFloat64(httpInFlight); inFlight != 0 {
		t.Errorf("expected in-flight gauge back at 0, got %v", inFlight)
	}
}

func TestMetrics_PanickingHandlerStillRecorded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.Use(gin.Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("handler exploded")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/boom", "500"))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 from recovery, got %d", w.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/boom", "500"))
	if after != before+1 {
		t.Errorf("expected panicking request counted, got %v -> %v", before, after)
	}
	if inFlight := testutil.ToFloat64(httpInFlight); inFlight != 0 {
		t.Errorf("expected in-flight gauge released after panic, got %v", inFlight)
	}
}
