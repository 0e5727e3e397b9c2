package internal

import "errors"

// ScanOptions - public options from CLI.
type ScanOptions struct {
	LogFile         string
	SeekFile        string
	Pattern         string
	Exclusion       string
	ExclusionFile   string
	CaseInsensitive bool
	WarningCount    int64
	CriticalCount   int64
	NoGrowthWarn    bool
	NoGrowthCrit    bool
	EvalExpr        string
	EvalFile        string
}

// Validate checks invariants.
func (o *ScanOptions) Validate() error {
	if o.LogFile == "" {
		return errors.New("logfile is required")
	}
	if o.SeekFile == "" {
		return errors.New("seekfile is required")
	}
	if o.Pattern == "" && !o.NoGrowthWarn && !o.NoGrowthCrit {
		return errors.New("pattern is required unless a no-growth check is requested")
	}
	if o.WarningCount < 1 {
		return errors.New("warning count must be at least 1")
	}
	if o.CriticalCount < 0 {
		return errors.New("critical count must not be negative")
	}
	return nil
}

// Compile builds the matcher and the optional rule from the configured
// sources. Pattern and rule files win over their inline counterparts.
func (o *ScanOptions) Compile() (*Matcher, Rule, error) {
	var mp *MatchPattern
	if o.Pattern != "" {
		var err error
		mp, err = CompilePattern(o.Pattern, o.CaseInsensitive)
		if err != nil {
			return nil, nil, err
		}
	}
	ex, err := LoadExclusions(o.Exclusion, o.ExclusionFile, o.CaseInsensitive)
	if err != nil {
		return nil, nil, err
	}
	rule, err := LoadRule(o.EvalExpr, o.EvalFile)
	if err != nil {
		return nil, nil, err
	}
	return NewMatcher(mp, ex), rule, nil
}

// Thresholds builds the evaluator input from the options.
func (o *ScanOptions) Thresholds() Thresholds {
	return Thresholds{
		WarningCount:       o.WarningCount,
		CriticalCount:      o.CriticalCount,
		NoGrowthIsWarning:  o.NoGrowthWarn,
		NoGrowthIsCritical: o.NoGrowthCrit,
	}
}
