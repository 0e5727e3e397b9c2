package internal

import (
	"fmt"
	"strings"
)

// Severity is the four-state monitoring outcome of one run.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityUnknown
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode maps the severity to the standard plugin exit status.
func (s Severity) ExitCode() int {
	switch s {
	case SeverityOK:
		return 0
	case SeverityWarning:
		return 1
	case SeverityCritical:
		return 2
	default:
		return 3
	}
}

// Thresholds controls how match counts turn into a severity. A
// CriticalCount of zero disables the critical check.
type Thresholds struct {
	WarningCount       int64
	CriticalCount      int64
	NoGrowthIsWarning  bool
	NoGrowthIsCritical bool
}

func DefaultThresholds() Thresholds {
	return Thresholds{WarningCount: 1}
}

const noGrowthMessage = "Log file not written to since last check"

// Evaluate turns one run's counts into a severity and status message.
// No-growth checks run first and short-circuit; the warn-only no-growth
// flag deliberately degrades to UNKNOWN rather than WARNING. When a
// rule left every match non-alertable, the raw match total is held
// against the limits instead.
func Evaluate(res ScanResult, th Thresholds) (Severity, string) {
	if th.NoGrowthIsCritical && !res.FileGrew {
		return SeverityCritical, noGrowthMessage
	}
	if th.NoGrowthIsWarning && !res.FileGrew {
		return SeverityUnknown, noGrowthMessage
	}
	if th.CriticalCount > 0 && reachesLimit(res, th.CriticalCount) {
		return SeverityCritical, alertMessage(res, th)
	}
	if (res.TotalMatches > 0 && res.AlertableMatches >= th.WarningCount) ||
		(res.AlertableMatches == 0 && res.TotalMatches >= th.WarningCount) {
		return SeverityWarning, alertMessage(res, th)
	}
	return SeverityOK, "No matches found."
}

func reachesLimit(res ScanResult, limit int64) bool {
	if res.AlertableMatches >= limit {
		return true
	}
	return res.AlertableMatches == 0 && res.TotalMatches >= limit
}

func alertMessage(res ScanResult, th Thresholds) string {
	detail := res.LastMatchedLine
	if res.AlertableMatches > 0 {
		detail = fmt.Sprintf("Parsed output (%d not OK): %s", res.AlertableMatches, res.LastMatchedLine)
	}
	// The pipe delimits perfdata in the consuming wire format.
	detail = strings.ReplaceAll(detail, "|", "!")
	return fmt.Sprintf("Found %d lines (limit=%d/%d): %s",
		res.TotalMatches, th.WarningCount, th.CriticalCount, detail)
}
