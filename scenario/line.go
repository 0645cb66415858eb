package scenario

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseStep parses a one-line step of the form
//
//	[bind =] op [arg, arg, ...]
//
// Arguments are a YAML flow sequence without the brackets, so
// "c1 = create_clip C1, [0, 48, 24]" binds the new clip to $c1.
func ParseStep(line string) (Step, error) {
	line = strings.TrimSpace(line)
	var st Step
	if bind, rest, ok := strings.Cut(line, "="); ok && isIdent(strings.TrimSpace(bind)) {
		st.Bind = strings.TrimSpace(bind)
		line = strings.TrimSpace(rest)
	}

	op, rest, _ := strings.Cut(line, " ")
	if op == "" {
		return Step{}, fmt.Errorf("empty step")
	}
	if _, ok := ops[op]; !ok {
		return Step{}, fmt.Errorf("unknown op %q", op)
	}
	st.Op = op

	if rest = strings.TrimSpace(rest); rest != "" {
		if err := yaml.Unmarshal([]byte("["+rest+"]"), &st.Args); err != nil {
			return Step{}, fmt.Errorf("args: %w", err)
		}
	}
	return st, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
