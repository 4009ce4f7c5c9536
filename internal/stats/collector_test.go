package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findLabeled(t *testing.T, families []*dto.MetricFamily, name, category, op string) *dto.Metric {
	t.Helper()
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			var gotCat, gotOp string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "category":
					gotCat = l.GetValue()
				case "op":
					gotOp = l.GetValue()
				}
			}
			if gotCat == category && gotOp == op {
				return m
			}
		}
	}
	t.Fatalf("no metric %s{category=%q,op=%q} found", name, category, op)
	return nil
}

func TestCollectorRegistersAndScrapes(t *testing.T) {
	r := New()
	r.Record(Data, "read", 64, true, true)
	r.Record(Data, "read", 0, false, true)
	r.Record(Metadata, "open", 1, true, false)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(r)))

	families, err := reg.Gather()
	require.NoError(t, err)

	ops := findLabeled(t, families, "padll_ops_total", "data", "read")
	assert.Equal(t, float64(1), ops.GetCounter().GetValue())

	errs := findLabeled(t, families, "padll_errors_total", "data", "read")
	assert.Equal(t, float64(1), errs.GetCounter().GetValue())

	bypasses := findLabeled(t, families, "padll_bypasses_total", "metadata", "open")
	assert.Equal(t, float64(1), bypasses.GetCounter().GetValue())
}

func TestCollectorDescribesFourMetrics(t *testing.T) {
	c := NewCollector(New())

	descCh := make(chan *prometheus.Desc, 16)
	c.Describe(descCh)
	close(descCh)

	var descs []*prometheus.Desc
	for d := range descCh {
		descs = append(descs, d)
	}
	assert.Len(t, descs, 4)
}
