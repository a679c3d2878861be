package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRefundOutcomeLabels(t *testing.T) {
	before := testutil.ToFloat64(Refunds.WithLabelValues("refund", "processed"))
	RefundOutcome("refund", true)
	if got := testutil.ToFloat64(Refunds.WithLabelValues("refund", "processed")); got != before+1 {
		t.Fatalf("expected processed counter %v, got %v", before+1, got)
	}
	skipped := testutil.ToFloat64(Refunds.WithLabelValues("chargeback", "skipped"))
	RefundOutcome("chargeback", false)
	if got := testutil.ToFloat64(Refunds.WithLabelValues("chargeback", "skipped")); got != skipped+1 {
		t.Fatalf("expected skipped counter %v, got %v", skipped+1, got)
	}
}

func TestObserveHTTPUsesUnmatchedRoute(t *testing.T) {
	ObserveHTTP("GET", "", 404, 5*time.Millisecond)
	if count := testutil.CollectAndCount(HTTPRequestDuration); count == 0 {
		t.Fatalf("expected histogram series to be recorded")
	}
}
