package scenario

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/errors"
)

// Config configures a Runner.
type Config struct {
	// Logger receives one Debug entry per step (default: no-op).
	Logger *zap.Logger
}

// Runner executes scenarios against a bridge. Bound handles persist across
// Run calls so a session can be built up incrementally.
type Runner struct {
	b    *bridge.Bridge
	log  *zap.Logger
	vars map[string]bridge.Handle
}

// Result records the outcome of one step.
type Result struct {
	Err   error
	Value any
	Op    string
	Index int
}

// Rendered returns the value in the form Expect.Value is compared against.
func (r Result) Rendered() string {
	return render(r.Value)
}

// Failure reports a step whose outcome did not match its expectation.
type Failure struct {
	Err    error
	Op     string
	Reason string
	Step   int
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("step %d (%s): %s", f.Step, f.Op, f.Reason)
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewRunner creates a runner driving b.
func NewRunner(b *bridge.Bridge, cfg Config) *Runner {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{b: b, log: log, vars: map[string]bridge.Handle{}}
}

// Handles returns a copy of the bound handles.
func (r *Runner) Handles() map[string]bridge.Handle {
	out := make(map[string]bridge.Handle, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

// Exec runs a single step outside any scenario. The returned error is the
// operation's own error; expectations are not checked.
func (r *Runner) Exec(st Step) Result {
	res := Result{Op: st.Op}
	fn, ok := ops[st.Op]
	if !ok {
		res.Err = errors.InvalidInput(errors.PhaseScenario, fmt.Sprintf("unknown op %q", st.Op))
		return res
	}
	res.Value, res.Err = fn(r.b, args{vars: r.vars, list: st.Args})
	if res.Err == nil && st.Bind != "" {
		h, ok := res.Value.(bridge.Handle)
		if !ok {
			res.Err = errors.InvalidInput(errors.PhaseScenario,
				fmt.Sprintf("%s returns %T, not a handle", st.Op, res.Value))
			return res
		}
		r.vars[st.Bind] = h
	}
	return res
}

// Run executes every step in order and stops at the first step whose
// outcome does not match its expectation. A step without an expectation
// must succeed.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]Result, error) {
	results := make([]Result, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.Exec(st)
		res.Index = i + 1
		results = append(results, res)

		r.log.Debug("scenario step",
			zap.String("scenario", sc.Name),
			zap.Int("step", res.Index),
			zap.String("op", st.Op),
			zap.String("value", res.Rendered()),
			zap.Error(res.Err))

		if f := check(res, st.Expect, r.vars); f != nil {
			return results, f
		}
	}
	return results, nil
}

func check(res Result, want *Expect, vars map[string]bridge.Handle) *Failure {
	fail := func(reason string, err error) *Failure {
		return &Failure{Step: res.Index, Op: res.Op, Reason: reason, Err: err}
	}

	if want == nil || want.Error == "" {
		if res.Err != nil {
			return fail("unexpected error", res.Err)
		}
	} else {
		if res.Err == nil {
			return fail("expected error "+want.Error+", got success", nil)
		}
		if !matchError(res.Err, want.Error) {
			return fail("expected error "+want.Error, res.Err)
		}
	}

	if want != nil && want.Value != nil {
		exp := *want.Value
		if name, ok := strings.CutPrefix(exp, "$"); ok {
			exp = render(vars[name])
		}
		if got := res.Rendered(); got != exp {
			return fail(fmt.Sprintf("value %q, want %q", got, exp), nil)
		}
	}
	return nil
}

// matchError accepts an error kind, honoring the kind hierarchy, or an
// engine outcome name.
func matchError(err error, want string) bool {
	if errors.Is(err, &errors.Error{Kind: errors.Kind(want)}) {
		return true
	}
	var e *errors.Error
	return errors.As(err, &e) && e.Outcome == want
}
