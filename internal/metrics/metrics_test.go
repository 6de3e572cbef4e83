package metrics

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/model"
)

func quietReport() *core.Report {
	return core.NewReport(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestObserveReport(t *testing.T) {
	r := quietReport()
	r.RowRead("units")
	r.RowRead("units")
	r.RowRead("flows")
	r.Malformed(core.Row{Table: "flows", File: "flows.csv", Line: 3}, errors.New("short row"))
	r.Reference(core.Row{Table: "flows", File: "flows.csv", Line: 4}, "unknown flow property %q", "p-x")

	c := New()
	c.ObserveReport(r)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rowsRead.WithLabelValues("units")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rowsRead.WithLabelValues("flows")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rowsSkipped.WithLabelValues("flows", core.ReasonMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rowsSkipped.WithLabelValues("flows", core.ReasonReference)))

	c.ObserveReport(nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.rowsRead.WithLabelValues("units")))
}

func TestObserveGraph(t *testing.T) {
	d := model.NewRefData()
	d.Units.Put("u-kg", &model.Unit{})
	d.Units.Put("kg", &model.Unit{})

	c := New()
	c.ObserveGraph(d)

	assert.Equal(t, 0.0, testutil.ToFloat64(c.entities.WithLabelValues(string(model.TypeFlow))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.entities.WithLabelValues(string(model.TypeUnit))))
}

func TestObserveExport(t *testing.T) {
	m, err := matrix.FromCOO(2, 3, []matrix.Triplet{{Row: 0, Col: 2, Value: 1}})
	require.NoError(t, err)

	c := New()
	c.ObserveExport(&matrix.Export{Matrix: m})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.matrixNonzeros))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.matrixDim.WithLabelValues("impacts")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.matrixDim.WithLabelValues("flows")))

	c.ObserveExport(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.matrixNonzeros))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.matrixDim.WithLabelValues("flows")))
}

func TestHandler(t *testing.T) {
	c := New()
	c.ObserveBuild(time.Now().Add(-time.Second))
	c.ObserveExport(nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.True(t, strings.Contains(out, MetricBuildDurationSeconds+"_count 1"), out)
	assert.Contains(t, out, MetricMatrixNonzeros+" 0")
	assert.NotContains(t, out, "go_goroutines", "default collectors are not registered")
}

func TestWriteTextfile(t *testing.T) {
	m, err := matrix.FromCOO(1, 2, []matrix.Triplet{{Row: 0, Col: 0, Value: 2}, {Row: 0, Col: 1, Value: 3}})
	require.NoError(t, err)
	r := quietReport()
	r.RowRead("units")

	c := New()
	c.ObserveRun(time.Now(), r, model.NewRefData(), &matrix.Export{Matrix: m})

	path := filepath.Join(t.TempDir(), "refdata.prom")
	require.NoError(t, c.WriteTextfile(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, MetricMatrixNonzeros+" 2")
	assert.Contains(t, out, MetricRowsReadTotal+`{table="units"} 1`)
	assert.Contains(t, out, MetricBuildDurationSeconds+"_count 1")
}
