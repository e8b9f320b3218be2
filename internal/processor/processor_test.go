package processor

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/MikeSquared-Agency/quill/internal/agentcfg"
	"github.com/MikeSquared-Agency/quill/internal/clock"
	"github.com/MikeSquared-Agency/quill/internal/detector"
	"github.com/MikeSquared-Agency/quill/internal/patterns"
	"github.com/MikeSquared-Agency/quill/internal/prompt"
)

const sampleConfig = `agents:
  - name: dispatcher
    model_name: gpt-4o
    system_prompt: |
      You are a dispatcher for Summit Mechanical.
      Our dispatch fee is $89 for service calls.
      We are open Monday through Friday, 8 AM to 5 PM.
      We accept credit cards and cash.
  - name: scheduler
    system_prompt: |
      NEVER double-book a technician.
global_system_prompt_template: "Agent: {active_agent_prompt}\nCall {customer_phone} at {now}."
`

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	det := detector.New(patterns.Default(), logger)
	return New(nil, det, &prompt.Engine{}, nil, nil, clock.New("UTC", logger), logger)
}

func TestProcess_FullPipeline(t *testing.T) {
	p := newTestProcessor(t)

	result, err := p.Process(context.Background(), sampleConfig, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source != "test" {
		t.Errorf("expected source 'test', got %q", result.Source)
	}
	if len(result.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(result.Agents))
	}
	if result.Agents[1].ModelName != agentcfg.ModelNotSpecified {
		t.Errorf("expected default model, got %q", result.Agents[1].ModelName)
	}
	if len(result.ContentHash) != 64 {
		t.Errorf("expected content hash, got %q", result.ContentHash)
	}
	if result.Reused {
		t.Error("expected fresh run without a store")
	}

	names := make([]string, len(result.Variables))
	for i, v := range result.Variables {
		names[i] = v.Name
	}
	if len(names) != 2 || names[0] != "customer_phone" || names[1] != "now" {
		t.Errorf("expected [customer_phone now], got %v", names)
	}

	if result.ServiceInfo == nil {
		t.Fatal("expected detected service info")
	}
	if len(result.ServiceInfo.DispatchFees) == 0 {
		t.Error("expected dispatch fee to be detected")
	}
	if result.ServiceInfo.Scheduling.TotalHours != "8 AM - 5 PM" {
		t.Errorf("expected business hours, got %q", result.ServiceInfo.Scheduling.TotalHours)
	}
}

func TestProcess_InvalidYAML(t *testing.T) {
	p := newTestProcessor(t)

	_, err := p.Process(context.Background(), "agents:\n  - name: [unclosed", "test")
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestProcess_NoBusinessInfo(t *testing.T) {
	p := newTestProcessor(t)

	result, err := p.Process(context.Background(), "agents:\n  - name: a\n    system_prompt: hello\n", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ServiceInfo != nil {
		t.Errorf("expected nil service info, got %+v", result.ServiceInfo)
	}
}

func TestGeneratePrompts_Valid(t *testing.T) {
	p := newTestProcessor(t)
	template := "Agent: {active_agent_prompt}\nCall {customer_phone} at {now}."
	agents := []agentcfg.Agent{
		{Name: "dispatcher", ModelName: "gpt-4o", SystemPrompt: "You dispatch."},
	}

	prompts, validations, ok := p.GeneratePrompts(template, map[string]string{
		"customer_phone": "555-123-4567",
	}, agents)

	if !ok {
		t.Fatalf("expected valid generation, got validations %+v", validations)
	}
	if len(prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(prompts))
	}
	out := prompts[0].Prompt
	if !contains(out, "You dispatch.") {
		t.Errorf("expected agent prompt injected, got %q", out)
	}
	if !contains(out, "555-123-4567") {
		t.Errorf("expected phone value injected, got %q", out)
	}
	if contains(out, "{now}") {
		t.Errorf("expected now to be auto-filled, got %q", out)
	}
}

func TestGeneratePrompts_InvalidPhone(t *testing.T) {
	p := newTestProcessor(t)
	template := "Call {customer_phone}."
	agents := []agentcfg.Agent{{Name: "a", SystemPrompt: "x"}}

	prompts, validations, ok := p.GeneratePrompts(template, map[string]string{
		"customer_phone": "555-1234",
	}, agents)

	if ok {
		t.Fatal("expected validation failure for short phone")
	}
	if prompts != nil {
		t.Errorf("expected no prompts on validation failure, got %v", prompts)
	}
	if len(validations) != 1 || validations[0].Valid {
		t.Errorf("expected invalid customer_phone, got %+v", validations)
	}
	if validations[0].Type != prompt.VarPhone {
		t.Errorf("expected phone type, got %q", validations[0].Type)
	}
}

func TestGeneratePrompts_MissingValueKept(t *testing.T) {
	p := newTestProcessor(t)
	template := "Visit {service_address}."
	agents := []agentcfg.Agent{{Name: "a", SystemPrompt: "x"}}

	prompts, _, ok := p.GeneratePrompts(template, nil, agents)
	if !ok {
		t.Fatal("expected generation to succeed with missing values")
	}
	if prompts[0].Prompt != "Visit {service_address}." {
		t.Errorf("expected unfilled placeholder kept, got %q", prompts[0].Prompt)
	}
}

func TestHandleConfigSubmitted_BadPayload(t *testing.T) {
	p := newTestProcessor(t)

	// Must not panic on malformed or incomplete events.
	p.HandleConfigSubmitted("swarm.quill.config.submitted", []byte("not json"))
	p.HandleConfigSubmitted("swarm.quill.config.submitted", []byte(`{"request_id":"r1"}`))
}

func TestHandleConfigSubmitted_ProcessesYAML(t *testing.T) {
	p := newTestProcessor(t)

	p.HandleConfigSubmitted("swarm.quill.config.submitted",
		[]byte(`{"request_id":"r2","source":"hermes","yaml":"agents:\n  - name: a\n    system_prompt: hi\n"}`))
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
