package internal

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// MatchPattern is a compiled match expression. The case-insensitive
// compile is always present and acts as a coarse pre-filter; the
// case-sensitive compile is the confirming gate and is nil when
// insensitive matching was requested.
type MatchPattern struct {
	insensitive *regexp.Regexp
	sensitive   *regexp.Regexp
	expr        string
}

// CompilePattern builds a MatchPattern from a regular expression.
func CompilePattern(expr string, caseInsensitive bool) (*MatchPattern, error) {
	ins, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", expr, err)
	}
	p := &MatchPattern{insensitive: ins, expr: expr}
	if !caseInsensitive {
		sen, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", expr, err)
		}
		p.sensitive = sen
	}
	return p, nil
}

// Match applies the two-stage check: the insensitive probe first, then
// the sensitive confirmation when insensitive mode is off. Both stages
// must pass for the line to count.
func (p *MatchPattern) Match(line string) bool {
	if !p.insensitive.MatchString(line) {
		return false
	}
	if p.sensitive != nil {
		return p.sensitive.MatchString(line)
	}
	return true
}

func (p *MatchPattern) Desc() string { return p.expr }

// Matcher classifies lines against the match pattern and an ordered
// exclusion list.
type Matcher struct {
	pattern    *MatchPattern
	exclusions []*MatchPattern
}

func NewMatcher(pattern *MatchPattern, exclusions []*MatchPattern) *Matcher {
	return &Matcher{pattern: pattern, exclusions: exclusions}
}

// Classify reports whether the line matches the pattern and is not
// vetoed by an exclusion. Exclusions are checked in order, first hit
// wins. With no pattern configured (growth-only mode) nothing matches.
func (m *Matcher) Classify(line string) bool {
	if m.pattern == nil || !m.pattern.Match(line) {
		return false
	}
	for _, ex := range m.exclusions {
		if ex.Match(line) {
			return false
		}
	}
	return true
}

// LoadExclusions builds the exclusion list from an inline pattern or a
// pattern file with one expression per line. The file wins when both
// are given.
func LoadExclusions(single, file string, caseInsensitive bool) ([]*MatchPattern, error) {
	if file != "" {
		return loadExclusionFile(file, caseInsensitive)
	}
	if single == "" {
		return nil, nil
	}
	p, err := CompilePattern(single, caseInsensitive)
	if err != nil {
		return nil, err
	}
	return []*MatchPattern{p}, nil
}

func loadExclusionFile(path string, caseInsensitive bool) ([]*MatchPattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclusion file: %w", err)
	}
	defer f.Close()

	var ps []*MatchPattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := CompilePattern(line, caseInsensitive)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read exclusion file: %w", err)
	}
	logrus.Debugf("Loaded %d exclusion patterns", len(ps))
	return ps, nil
}
