package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/planora/todo-planner-api/internal/identity"
)

func TestCollector_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCollector()

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/ok", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	count := testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "200"))
	require.Equal(t, float64(3), count)
}

func TestCollector_RecordGatewayError(t *testing.T) {
	c := NewCollector()

	c.RecordGatewayError("NOT_FOUND")
	c.RecordGatewayError("NOT_FOUND")
	c.RecordGatewayError("FORBIDDEN")

	require.Equal(t, float64(2), testutil.ToFloat64(c.gatewayErrors.WithLabelValues("NOT_FOUND")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.gatewayErrors.WithLabelValues("FORBIDDEN")))
}

func TestCollector_ObserveAuthEvents(t *testing.T) {
	c := NewCollector()

	events := make(chan identity.Event, 4)
	events <- identity.Event{Type: identity.EventLogin, UserID: "u1"}
	events <- identity.Event{Type: identity.EventLogin, UserID: "u2"}
	events <- identity.Event{Type: identity.EventLogout, UserID: "u1"}
	close(events)

	// Runs to completion because the channel is closed.
	c.ObserveAuthEvents(events)

	require.Equal(t, float64(2), testutil.ToFloat64(c.authTransitions.WithLabelValues(string(identity.EventLogin))))
	require.Equal(t, float64(1), testutil.ToFloat64(c.authTransitions.WithLabelValues(string(identity.EventLogout))))
}

func TestCollector_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCollector()
	c.RecordGatewayError("NOT_FOUND")

	r := gin.New()
	r.GET("/metrics", c.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "todo_gateway_errors_total"))
}
