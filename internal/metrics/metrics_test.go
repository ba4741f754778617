package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/slots/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/slots/:id", "204"))

	for _, path := range []string{"/slots/1", "/slots/2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/slots/:id", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "400")))
}

func TestBookingCounters(t *testing.T) {
	before := testutil.ToFloat64(reservationsTotal.WithLabelValues("created"))
	ReservationEvent("created")
	assert.Equal(t, before+1, testutil.ToFloat64(reservationsTotal.WithLabelValues("created")))

	SlotsReconciled("released", 0)
	SlotsReconciled("released", 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(slotsReconciledTotal.WithLabelValues("released")))
}
