package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveLoad(t *testing.T) {
	ok := testutil.ToFloat64(DatasetLoadsTotal.WithLabelValues("success"))
	failed := testutil.ToFloat64(DatasetLoadsTotal.WithLabelValues("failure"))

	ObserveLoad(time.Now(), nil)
	ObserveLoad(time.Now(), errors.New("timeout"))

	assert.Equal(t, ok+1, testutil.ToFloat64(DatasetLoadsTotal.WithLabelValues("success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(DatasetLoadsTotal.WithLabelValues("failure")))
}

func TestObserveRenderCountsEmptyResults(t *testing.T) {
	empty := testutil.ToFloat64(EmptyResultsTotal)
	renders := testutil.ToFloat64(RendersTotal.WithLabelValues("ward"))

	ObserveRender("ward", time.Now(), 0)
	ObserveRender("ward", time.Now(), 4)

	assert.Equal(t, empty+1, testutil.ToFloat64(EmptyResultsTotal))
	assert.Equal(t, renders+2, testutil.ToFloat64(RendersTotal.WithLabelValues("ward")))
}

func TestHandler(t *testing.T) {
	FacilitiesLoaded.Set(5)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "phcfinder_facilities_loaded 5")
}
