package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestJobMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	jobs := NewJobMetrics(reg)

	jobs.ObserveDuration("capacity_reconcile", 250*time.Millisecond)
	jobs.IncSuccess("capacity_reconcile")
	jobs.IncSuccess("capacity_reconcile")
	jobs.IncFailure("capacity_reconcile")

	success := gather(t, reg, "job_success")
	if success == nil || len(success.Metric) != 1 {
		t.Fatalf("expected one job_success series, got %v", success)
	}
	if got := success.Metric[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 successes got %v", got)
	}

	failure := gather(t, reg, "job_failure")
	if failure == nil || failure.Metric[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected 1 failure, got %v", failure)
	}

	duration := gather(t, reg, "job_duration_seconds")
	if duration == nil || duration.Metric[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one duration sample, got %v", duration)
	}
	if label := duration.Metric[0].GetLabel()[0]; label.GetName() != "job" || label.GetValue() != "capacity_reconcile" {
		t.Fatalf("unexpected label %v", label)
	}
}

func TestJobMetricsNilRegistererIsInert(t *testing.T) {
	jobs := NewJobMetrics(nil)
	jobs.ObserveDuration("anything", time.Second)
	jobs.IncSuccess("anything")
	jobs.IncFailure("anything")
}

func TestJobMetricsNormalizesEmptyJobLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	jobs := NewJobMetrics(reg)

	jobs.IncFailure("")

	failure := gather(t, reg, "job_failure")
	if failure == nil {
		t.Fatal("expected job_failure family")
	}
	if got := failure.Metric[0].GetLabel()[0].GetValue(); got != "unknown" {
		t.Fatalf("expected unknown label got %q", got)
	}
}
