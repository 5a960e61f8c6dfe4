package observability_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"listing_console/internal/adapters/observability"
	"listing_console/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveTransition("listingProperty", "next", nil)
	observability.ObserveSubmission("create", "Pending", errors.New("boom"))

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"listing_http_requests_total",
		`listing_wizard_transitions_total{direction="next",from="listingProperty",outcome="ok"}`,
		`listing_submissions_total{mode="create",outcome="error",status="Pending"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":       nil,
		"invalid":  domain.ValidationErrors{{Field: "title", Reason: "required"}},
		"upstream": fmt.Errorf("%w: submit: timeout", domain.ErrUpstream),
		"error":    domain.ErrSessionClosed,
	}
	for want, err := range cases {
		if got := observability.Outcome(err); got != want {
			t.Fatalf("Outcome(%v) = %q, want %q", err, got, want)
		}
	}
	if got := observability.Outcome(fmt.Errorf("x: %w", domain.ErrUnknownVariant)); got != "invalid" {
		t.Fatalf("unknown variant should be invalid, got %q", got)
	}
}
