package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAndCountsDocumentsIndexed(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.DocumentsIndexedTotal.Inc()
	r.DocumentsIndexedTotal.Inc()

	var m dto.Metric
	require.NoError(t, r.DocumentsIndexedTotal.Write(&m))
	require.Equal(t, float64(2), m.GetCounter().GetValue())
}

func TestValidationFailuresTotalTracksByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ValidationFailuresTotal.WithLabelValues("missing_required_field").Inc()

	var m dto.Metric
	require.NoError(t, r.ValidationFailuresTotal.WithLabelValues("missing_required_field").Write(&m))
	require.Equal(t, float64(1), m.GetCounter().GetValue())
}
