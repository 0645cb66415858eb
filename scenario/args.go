package scenario

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wippyai/otio-bridge/bridge"
	"github.com/wippyai/otio-bridge/engine"
	"github.com/wippyai/otio-bridge/errors"
)

// args decodes positional step arguments.
type args struct {
	vars map[string]bridge.Handle
	list []any
}

func argErr(i int, format string, a ...any) error {
	return errors.InvalidInput(errors.PhaseScenario, fmt.Sprintf("arg %d: ", i+1)+fmt.Sprintf(format, a...))
}

func (a args) get(i int) (any, error) {
	if i >= len(a.list) {
		return nil, argErr(i, "missing")
	}
	return a.list[i], nil
}

func (a args) has(i int) bool {
	return i < len(a.list) && a.list[i] != nil
}

func (a args) handle(i int) (bridge.Handle, error) {
	v, err := a.get(i)
	if err != nil {
		return 0, err
	}
	switch v := v.(type) {
	case nil:
		return 0, nil
	case int:
		return bridge.Handle(v), nil
	case string:
		if name, ok := strings.CutPrefix(v, "$"); ok {
			h, bound := a.vars[name]
			if !bound {
				return 0, argErr(i, "%s is not bound", v)
			}
			return h, nil
		}
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return 0, argErr(i, "want handle, got %q", v)
		}
		return bridge.Handle(n), nil
	}
	return 0, argErr(i, "want handle, got %T", v)
}

func (a args) str(i int) (string, error) {
	v, err := a.get(i)
	if err != nil {
		return "", err
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	return fmt.Sprint(a.list[i]), nil
}

// optStr returns def when the argument is absent.
func (a args) optStr(i int, def string) (string, error) {
	if !a.has(i) {
		return def, nil
	}
	return a.str(i)
}

func (a args) index(i int) (int, error) {
	v, err := a.get(i)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, argErr(i, "want integer, got %T", v)
	}
	return n, nil
}

func (a args) flag(i int) (bool, error) {
	v, err := a.get(i)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, argErr(i, "want bool, got %T", v)
	}
	return b, nil
}

func number(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func (a args) floats(i, n int) ([]float64, error) {
	v, err := a.get(i)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok || len(list) != n {
		return nil, argErr(i, "want a list of %d numbers", n)
	}
	vs := make([]float64, n)
	for j, x := range list {
		if vs[j], ok = number(x); !ok {
			return nil, argErr(i, "element %d is not a number", j+1)
		}
	}
	return vs, nil
}

// timeVal decodes [value, rate].
func (a args) timeVal(i int) (engine.RationalTime, error) {
	vs, err := a.floats(i, 2)
	if err != nil {
		return engine.RationalTime{}, err
	}
	return engine.RationalTime{Value: vs[0], Rate: vs[1]}, nil
}

// rangeVal decodes [start, duration, rate].
func (a args) rangeVal(i int) (engine.TimeRange, error) {
	vs, err := a.floats(i, 3)
	if err != nil {
		return engine.TimeRange{}, err
	}
	return engine.TimeRange{
		Start:    engine.RationalTime{Value: vs[0], Rate: vs[2]},
		Duration: engine.RationalTime{Value: vs[1], Rate: vs[2]},
	}, nil
}

func (a args) optRange(i int) (*engine.TimeRange, error) {
	if !a.has(i) {
		return nil, nil
	}
	r, err := a.rangeVal(i)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// render formats a step result for comparison with Expect.Value.
func render(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case bridge.Handle:
		return strconv.FormatUint(uint64(v), 10)
	case engine.RationalTime:
		return formatTime(v)
	case engine.TimeRange:
		return formatTime(v.Start) + "+" + formatTime(v.Duration)
	case []string:
		return strings.Join(v, ",")
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

func formatTime(t engine.RationalTime) string {
	return strconv.FormatFloat(t.Value, 'f', -1, 64) + "@" + strconv.FormatFloat(t.Rate, 'f', -1, 64)
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
