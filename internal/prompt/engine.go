// Package prompt implements the template variable engine: placeholder
// discovery, name-based type classification, phone validation, and literal
// injection of per-agent prompts and user-supplied values.
package prompt

import (
	"regexp"
	"strings"
)

// ReservedAgentPrompt is the placeholder resolved internally to an agent's
// own prompt text. It is never offered as a user variable.
const ReservedAgentPrompt = "active_agent_prompt"

// ReservedNow is the current-time placeholder. Whether it is discoverable
// (manual selection) or excluded (automatic injection) is deployment policy,
// controlled by Engine.ExcludeNow.
const ReservedNow = "now"

// VarType tags a variable with the input affordance it needs.
type VarType string

const (
	VarPhone VarType = "phone"
	VarTime  VarType = "time"
	VarText  VarType = "text"
)

// Variable is one discovered placeholder with its classified type.
type Variable struct {
	Name string  `json:"name"`
	Type VarType `json:"type"`
}

var placeholderRe = regexp.MustCompile(`\{([^}]+?)\}`)

// phoneHints and timeHints drive Classify. Pure substring matching on the
// variable name; no language understanding.
var (
	phoneHints = []string{"phone", "number", "tel", "mobile", "cell"}
	timeHints  = []string{"time", "date", "timestamp", "when", "datetime"}
)

var phoneStripRe = regexp.MustCompile(`[\s\-()+]`)

// Engine performs discovery and injection. The zero value is ready to use
// and leaves the "now" placeholder discoverable.
type Engine struct {
	ExcludeNow bool
}

// Names returns the distinct injectable placeholder names in template, in
// first-appearance order. The reserved agent-prompt placeholder is always
// excluded; "now" only when ExcludeNow is set.
func (e *Engine) Names(template string) []string {
	if template == "" {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if name == ReservedAgentPrompt {
			continue
		}
		if e.ExcludeNow && name == ReservedNow {
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Variables returns the injectable placeholders with their classified types.
func (e *Engine) Variables(template string) []Variable {
	names := e.Names(template)
	if names == nil {
		return nil
	}
	vars := make([]Variable, len(names))
	for i, n := range names {
		vars[i] = Variable{Name: n, Type: Classify(n)}
	}
	return vars
}

// Classify determines a variable's type from its name alone.
func Classify(name string) VarType {
	lower := strings.ToLower(name)
	if lower == ReservedNow {
		return VarTime
	}
	for _, h := range phoneHints {
		if strings.Contains(lower, h) {
			return VarPhone
		}
	}
	for _, h := range timeHints {
		if strings.Contains(lower, h) {
			return VarTime
		}
	}
	return VarText
}

// ValidPhone reports whether v is a plausible phone number: after stripping
// whitespace, hyphens, parentheses and plus signs, the remainder must be
// all digits and at least 10 characters long.
func ValidPhone(v string) bool {
	if v == "" {
		return false
	}
	cleaned := phoneStripRe.ReplaceAllString(v, "")
	if len(cleaned) < 10 {
		return false
	}
	for _, c := range cleaned {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Inject produces the completed prompt. Substitution is a single literal
// pass over the template: the reserved placeholder becomes agentPrompt,
// known names become their values, unknown placeholders stay verbatim.
// Inserted values are never re-scanned, so a value containing "{text}" is
// carried through unexpanded.
func (e *Engine) Inject(template string, values map[string]string, agentPrompt string) string {
	if template == "" {
		return ""
	}
	return placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		name := ph[1 : len(ph)-1]
		if name == ReservedAgentPrompt {
			return agentPrompt
		}
		if v, ok := values[name]; ok {
			return v
		}
		return ph
	})
}
