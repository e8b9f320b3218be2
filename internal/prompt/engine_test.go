package prompt

import (
	"strings"
	"testing"
)

func TestNames_OrderAndDedup(t *testing.T) {
	e := &Engine{}
	names := e.Names("Call {phone} at {now}. Repeat: {phone}. Greet with {greeting}.")

	want := []string{"phone", "now", "greeting"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

func TestNames_ReservedAgentPromptExcluded(t *testing.T) {
	e := &Engine{}
	names := e.Names("{active_agent_prompt}\n{company}")
	if len(names) != 1 || names[0] != "company" {
		t.Errorf("expected only company, got %v", names)
	}
}

func TestNames_ExcludeNowFlag(t *testing.T) {
	withNow := &Engine{}
	if names := withNow.Names("{now} {x}"); len(names) != 2 {
		t.Errorf("expected now discoverable by default, got %v", names)
	}

	withoutNow := &Engine{ExcludeNow: true}
	names := withoutNow.Names("{now} {x}")
	if len(names) != 1 || names[0] != "x" {
		t.Errorf("expected now excluded, got %v", names)
	}
}

func TestNames_EmptyTemplate(t *testing.T) {
	e := &Engine{}
	if names := e.Names(""); names != nil {
		t.Errorf("expected nil for empty template, got %v", names)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want VarType
	}{
		{"now", VarTime},
		{"customer_phone", VarPhone},
		{"callback_number", VarPhone},
		{"tel_main", VarPhone},
		{"mobile", VarPhone},
		{"cell_contact", VarPhone},
		{"current_time", VarTime},
		{"start_date", VarTime},
		{"timestamp", VarTime},
		{"when_open", VarTime},
		{"company_name", VarText},
		{"greeting", VarText},
	}
	for _, tt := range tests {
		if got := Classify(tt.name); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"555-123-4567", true},
		{"(555) 123-4567", true},
		{"+1 555 123 4567", true},
		{"15551234567", true},
		{"555-1234", false},
		{"555-123-456x", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPhone(tt.in); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInject_Basic(t *testing.T) {
	e := &Engine{}
	out := e.Inject("{active_agent_prompt}\nPhone: {phone}", map[string]string{"phone": "5551234567"}, "You are a dispatcher.")
	want := "You are a dispatcher.\nPhone: 5551234567"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestInject_NoRecursiveExpansion(t *testing.T) {
	e := &Engine{}
	out := e.Inject("{a} {b}", map[string]string{"a": "{b}", "b": "B"}, "")
	if out != "{b} B" {
		t.Errorf("expected inserted value left unexpanded, got %q", out)
	}
}

func TestInject_UnknownPlaceholderKept(t *testing.T) {
	e := &Engine{}
	out := e.Inject("Hello {missing}", map[string]string{}, "")
	if out != "Hello {missing}" {
		t.Errorf("expected unknown placeholder verbatim, got %q", out)
	}
}

func TestInject_EmptyTemplate(t *testing.T) {
	e := &Engine{}
	if out := e.Inject("", map[string]string{"a": "x"}, "prompt"); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestInject_RoundTrip(t *testing.T) {
	e := &Engine{}
	template := "{active_agent_prompt} for {company} at {phone}, open since {now}"

	values := make(map[string]string)
	for _, name := range e.Names(template) {
		values[name] = "v-" + name
	}
	out := e.Inject(template, values, "AGENT")

	if strings.ContainsAny(out, "{}") {
		t.Errorf("expected no unresolved placeholders, got %q", out)
	}
	if !strings.HasPrefix(out, "AGENT") {
		t.Errorf("expected agent prompt substituted first, got %q", out)
	}
}
