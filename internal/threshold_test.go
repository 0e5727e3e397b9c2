package internal

import (
	"strings"
	"testing"
)

func TestEvaluate_WarningBoundary(t *testing.T) {
	th := Thresholds{WarningCount: 2}

	sev, _ := Evaluate(ScanResult{TotalMatches: 2, AlertableMatches: 2, LastMatchedLine: "x", FileGrew: true}, th)
	if sev != SeverityWarning {
		t.Fatalf("count at the limit must warn, got %s", sev)
	}

	sev, msg := Evaluate(ScanResult{TotalMatches: 1, AlertableMatches: 1, LastMatchedLine: "x", FileGrew: true}, th)
	if sev != SeverityOK {
		t.Fatalf("one below the limit must be OK, got %s", sev)
	}
	if msg != "No matches found." {
		t.Fatalf("unexpected OK message: %q", msg)
	}
}

func TestEvaluate_CriticalBoundaryAndPrecedence(t *testing.T) {
	th := Thresholds{WarningCount: 1, CriticalCount: 3}

	sev, _ := Evaluate(ScanResult{TotalMatches: 3, AlertableMatches: 3, LastMatchedLine: "x", FileGrew: true}, th)
	if sev != SeverityCritical {
		t.Fatalf("count at the critical limit must be CRITICAL, got %s", sev)
	}

	sev, _ = Evaluate(ScanResult{TotalMatches: 2, AlertableMatches: 2, LastMatchedLine: "x", FileGrew: true}, th)
	if sev != SeverityWarning {
		t.Fatalf("below critical but at warning must be WARNING, got %s", sev)
	}
}

func TestEvaluate_CriticalDisabledByDefault(t *testing.T) {
	th := DefaultThresholds()
	sev, _ := Evaluate(ScanResult{TotalMatches: 500, AlertableMatches: 500, LastMatchedLine: "x", FileGrew: true}, th)
	if sev != SeverityWarning {
		t.Fatalf("critical=0 must never raise CRITICAL, got %s", sev)
	}
}

func TestEvaluate_NoGrowthPolicy(t *testing.T) {
	still := ScanResult{FileGrew: false}

	sev, msg := Evaluate(still, Thresholds{WarningCount: 1, NoGrowthIsCritical: true})
	if sev != SeverityCritical {
		t.Fatalf("no growth with critical flag must be CRITICAL, got %s", sev)
	}
	if msg != "Log file not written to since last check" {
		t.Fatalf("unexpected message: %q", msg)
	}

	// The warn-only flag degrades to UNKNOWN, never WARNING.
	sev, _ = Evaluate(still, Thresholds{WarningCount: 1, NoGrowthIsWarning: true})
	if sev != SeverityUnknown {
		t.Fatalf("no growth with warn flag must be UNKNOWN, got %s", sev)
	}

	// Both flags set: critical wins.
	sev, _ = Evaluate(still, Thresholds{WarningCount: 1, NoGrowthIsWarning: true, NoGrowthIsCritical: true})
	if sev != SeverityCritical {
		t.Fatalf("critical flag must take precedence, got %s", sev)
	}

	// Grown file: the flags are inert.
	sev, _ = Evaluate(ScanResult{FileGrew: true}, Thresholds{WarningCount: 1, NoGrowthIsCritical: true})
	if sev != SeverityOK {
		t.Fatalf("grown file with zero matches must be OK, got %s", sev)
	}
}

func TestEvaluate_ZeroAlertableFallsBackToTotal(t *testing.T) {
	res := ScanResult{TotalMatches: 4, AlertableMatches: 0, LastMatchedLine: "raw line", FileGrew: true}

	sev, msg := Evaluate(res, Thresholds{WarningCount: 1, CriticalCount: 4})
	if sev != SeverityCritical {
		t.Fatalf("raw total at the critical limit must be CRITICAL, got %s", sev)
	}
	if strings.Contains(msg, "Parsed output") {
		t.Fatalf("zero alertable must report the raw line: %q", msg)
	}
	if !strings.Contains(msg, "raw line") {
		t.Fatalf("raw line missing from message: %q", msg)
	}

	sev, _ = Evaluate(res, Thresholds{WarningCount: 2})
	if sev != SeverityWarning {
		t.Fatalf("raw total above warning limit must be WARNING, got %s", sev)
	}
}

func TestEvaluate_AlertMessageFormat(t *testing.T) {
	res := ScanResult{TotalMatches: 3, AlertableMatches: 2, LastMatchedLine: "db timeout", FileGrew: true}
	_, msg := Evaluate(res, Thresholds{WarningCount: 1, CriticalCount: 5})

	want := "Found 3 lines (limit=1/5): Parsed output (2 not OK): db timeout"
	if msg != want {
		t.Fatalf("message mismatch:\n got  %q\n want %q", msg, want)
	}
}

func TestEvaluate_PipeSanitizedInMessage(t *testing.T) {
	res := ScanResult{TotalMatches: 1, AlertableMatches: 1, LastMatchedLine: "key|value|tail", FileGrew: true}
	_, msg := Evaluate(res, DefaultThresholds())

	if strings.Contains(msg, "|") {
		t.Fatalf("pipe must not survive into the status line: %q", msg)
	}
	if !strings.Contains(msg, "key!value!tail") {
		t.Fatalf("pipe must be replaced with bang: %q", msg)
	}
}

func TestSeverity_StringAndExitCode(t *testing.T) {
	cases := []struct {
		sev  Severity
		name string
		code int
	}{
		{SeverityOK, "OK", 0},
		{SeverityWarning, "WARNING", 1},
		{SeverityCritical, "CRITICAL", 2},
		{SeverityUnknown, "UNKNOWN", 3},
	}
	for _, c := range cases {
		if c.sev.String() != c.name {
			t.Errorf("String() = %q, want %q", c.sev.String(), c.name)
		}
		if c.sev.ExitCode() != c.code {
			t.Errorf("%s ExitCode() = %d, want %d", c.name, c.sev.ExitCode(), c.code)
		}
	}
}
