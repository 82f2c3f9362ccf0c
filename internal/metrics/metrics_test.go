package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.PageRendered("setup")
	m.PageRendered("setup")
	m.SaveResult("invalid")
	m.ScanResult(4, nil)
	m.ScanResult(0, errors.New("busy"))

	if got := testutil.ToFloat64(m.pageRenders.WithLabelValues("setup")); got != 2 {
		t.Fatalf("setup renders = %v; want 2", got)
	}
	if got := testutil.ToFloat64(m.saves.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid saves = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.scans.WithLabelValues("error")); got != 1 {
		t.Fatalf("scan errors = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.networks); got != 4 {
		t.Fatalf("networks = %v; want 4", got)
	}
}
