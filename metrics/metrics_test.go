package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetricsCountersStartAtZero(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	var out dto.Metric
	if err := m.RegisterTotalCount.Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.GetCounter().GetValue() != 0 {
		t.Errorf("expected fresh counter at 0, got %v", out.GetCounter().GetValue())
	}
}

func TestRegisterTotalIncrements(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	m.RegisterTotal()
	m.RegisterTotal()

	var out dto.Metric
	if err := m.RegisterTotalCount.Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.GetCounter().GetValue() != 2 {
		t.Errorf("expected counter at 2, got %v", out.GetCounter().GetValue())
	}
}

func TestNodeCountSetsGauge(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	m.NodeCount(42)

	var out dto.Metric
	if err := m.Nodes.Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.GetGauge().GetValue() != 42 {
		t.Errorf("expected gauge at 42, got %v", out.GetGauge().GetValue())
	}
}
