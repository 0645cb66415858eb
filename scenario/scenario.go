package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of host calls.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one host call. Args reference earlier handles as "$name".
type Step struct {
	Expect *Expect `yaml:"expect,omitempty"`
	Op     string  `yaml:"op"`
	Bind   string  `yaml:"bind,omitempty"`
	Args   []any   `yaml:"args,omitempty"`
}

// Expect describes the outcome a step must produce. Error is an error kind
// ("already_parented", "invalid_handle", ...) or an engine outcome
// ("ILLEGAL_INDEX"). Value is compared in rendered form.
type Expect struct {
	Value *string `yaml:"value,omitempty"`
	Error string  `yaml:"error,omitempty"`
}

// Parse decodes a scenario document and validates it.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Validate checks that every step names a known op and binds sensibly.
func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	bound := map[string]bool{}
	for i, st := range sc.Steps {
		if _, ok := ops[st.Op]; !ok {
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
		if strings.HasPrefix(st.Bind, "$") {
			return fmt.Errorf("step %d: bind %q must not start with '$'", i+1, st.Bind)
		}
		for _, a := range st.Args {
			if s, ok := a.(string); ok && strings.HasPrefix(s, "$") && !bound[s[1:]] {
				return fmt.Errorf("step %d: %s is not bound by an earlier step", i+1, s)
			}
		}
		if st.Bind != "" {
			bound[st.Bind] = true
		}
	}
	return nil
}

// Ops returns the names of all supported operations.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	return sortStrings(names)
}
