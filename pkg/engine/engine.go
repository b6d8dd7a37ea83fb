// Package engine provides the Lisp evaluation engine for craft descriptions.
// It wraps zygomys in a sandboxed environment and produces a craft.Craft
// from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/crafthull/internal/logging"
	"github.com/chazu/crafthull/internal/worker"
	"github.com/chazu/crafthull/pkg/craft"
	zygo "github.com/glycerine/zygomys/zygo"
)

var log = logging.Named("Engine")

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

type evalOutput struct {
	craft  *craft.Craft
	errors []EvalError
}

// Engine wraps the zygomys interpreter for craft evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	runner *worker.Runner[evalOutput]
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{runner: worker.New[evalOutput](EvalTimeout)}
}

// Evaluate takes Lisp source code and produces a new Craft.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns craft + nil errors + nil error
//   - On parse/eval failure: returns nil craft + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*craft.Craft, []EvalError, error) {
	out, err := e.runner.Run(context.Background(), func(context.Context) (evalOutput, error) {
		c, evalErrs, err := evaluate(source)
		return evalOutput{craft: c, errors: evalErrs}, err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("evaluation: %w", err)
	}
	return out.craft, out.errors, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func evaluate(source string) (*craft.Craft, []EvalError, error) {
	c := craft.New("")

	// Empty source is a valid program that produces an empty craft.
	if strings.TrimSpace(source) == "" {
		return c, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, c)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if err := c.Validate(); err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	log.Debugf("evaluated craft %q with %d parts", c.Name, len(c.Parts))
	return c, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// Try to extract line numbers from the error message.
	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
