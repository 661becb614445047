package inventory

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestScanErrorMessage(t *testing.T) {
	err := NewScanError(ErrResourceLimit, PhaseQuick, "/repo/huge", errors.New("file-count limit exceeded: 100000 >= 100000"))
	msg := err.Error()
	for _, want := range []string{"resource-limit", "[quick]", "/repo/huge", "100000"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestScanErrorUnwrap(t *testing.T) {
	inner := errors.New("permission denied")
	err := NewScanError(ErrScanFailed, PhaseDeep, "/repo", fmt.Errorf("reading dir: %w", inner))
	if !errors.Is(err, inner) {
		t.Error("wrapped error not reachable through Unwrap chain")
	}
}

func TestIsCode(t *testing.T) {
	err := ClassificationError("/repo/mystery", errors.New("no detector matched"))
	if !IsCode(err, ErrClassification) {
		t.Error("IsCode should match the carried code")
	}
	if IsCode(err, ErrResourceLimit) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(errors.New("plain"), ErrClassification) {
		t.Error("IsCode should not match plain errors")
	}

	// Matching survives wrapping.
	wrapped := fmt.Errorf("during scan: %w", err)
	if !IsCode(wrapped, ErrClassification) {
		t.Error("IsCode should match through wrapping")
	}
}

func TestResourceLimitError(t *testing.T) {
	err := ResourceLimitError(PhaseQuick, "/repo", "memory", 1<<31, 1<<30)
	if err.Code != ErrResourceLimit || err.Phase != PhaseQuick {
		t.Errorf("err = %+v", err)
	}
	if !strings.Contains(err.Error(), "memory limit exceeded") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestComputeCoverage(t *testing.T) {
	cases := []struct {
		total, scanned int
		want           float64
	}{
		{0, 0, 0},
		{100, 100, 100},
		{200, 50, 25},
		{3, 1, 100.0 / 3},
	}
	for _, tc := range cases {
		s := ScanStatistics{TotalFiles: tc.total, ScannedFiles: tc.scanned}
		s.ComputeCoverage()
		if diff := s.Coverage - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("coverage(%d/%d) = %f, want %f", tc.scanned, tc.total, s.Coverage, tc.want)
		}
	}
}
