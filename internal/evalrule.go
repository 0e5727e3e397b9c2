package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// EvalVerdict is the outcome of applying a Rule to one matched line.
// A non-empty Display replaces the line in the final report.
type EvalVerdict struct {
	Alertable bool
	Display   string
}

// Rule refines match counting for matched, non-excluded lines. Callers
// may inject any implementation.
type Rule interface {
	Eval(line string) (EvalVerdict, error)
	Desc() string
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(line string) (EvalVerdict, error)

func (f RuleFunc) Eval(line string) (EvalVerdict, error) { return f(line) }
func (f RuleFunc) Desc() string                          { return "func" }

// ExprRule evaluates a compiled expression per line. The program sees
// the current line as `line`. A result of true counts the line as
// alertable; a non-empty string counts it and replaces the reported
// text; anything else leaves the line non-alertable.
type ExprRule struct {
	program *vm.Program
	src     string
}

// CompileExprRule compiles the expression once, up front, so a bad rule
// fails the run before any scanning starts.
func CompileExprRule(src string) (*ExprRule, error) {
	program, err := expr.Compile(src, expr.Env(map[string]any{"line": ""}))
	if err != nil {
		return nil, fmt.Errorf("invalid eval rule %q: %w", src, err)
	}
	return &ExprRule{program: program, src: src}, nil
}

func (r *ExprRule) Desc() string { return r.src }

func (r *ExprRule) Eval(line string) (EvalVerdict, error) {
	out, err := expr.Run(r.program, map[string]any{"line": line})
	if err != nil {
		return EvalVerdict{}, err
	}
	switch v := out.(type) {
	case bool:
		return EvalVerdict{Alertable: v}, nil
	case string:
		return EvalVerdict{Alertable: v != "", Display: v}, nil
	default:
		return EvalVerdict{}, nil
	}
}

// LoadRule resolves the rule source. A rule file wins over the inline
// expression when both are given; the whole file is one expression.
// Returns nil when neither is set.
func LoadRule(inline, file string) (Rule, error) {
	src := inline
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("open eval rule file: %w", err)
		}
		src = strings.TrimSpace(string(b))
	}
	if src == "" {
		return nil, nil
	}
	return CompileExprRule(src)
}
