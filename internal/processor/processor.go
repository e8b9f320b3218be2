package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/MikeSquared-Agency/quill/internal/agentcfg"
	"github.com/MikeSquared-Agency/quill/internal/clock"
	"github.com/MikeSquared-Agency/quill/internal/detector"
	"github.com/MikeSquared-Agency/quill/internal/hermes"
	"github.com/MikeSquared-Agency/quill/internal/prompt"
	"github.com/MikeSquared-Agency/quill/internal/slack"
	"github.com/MikeSquared-Agency/quill/internal/store"
)

// Processor orchestrates Quill's config processing pipeline. The store,
// hermes, and slack dependencies are optional; a nil value disables that
// stage without affecting extraction itself.
type Processor struct {
	store    *store.Store
	detector *detector.Detector
	engine   *prompt.Engine
	hermes   *hermes.Client
	slack    *slack.Poster
	clock    *clock.Clock
	logger   *slog.Logger
}

// Result is the outcome of one processing run.
type Result struct {
	RunID       uuid.UUID                      `json:"run_id,omitempty"`
	Reused      bool                           `json:"reused"`
	Source      string                         `json:"source"`
	ContentHash string                         `json:"content_hash"`
	Agents      []agentcfg.Agent               `json:"agents"`
	Template    string                         `json:"template,omitempty"`
	Variables   []prompt.Variable              `json:"variables"`
	ServiceInfo *detector.ExtractedServiceInfo `json:"service_info,omitempty"`
}

// AgentPrompt is a completed system prompt for one agent.
type AgentPrompt struct {
	AgentName string `json:"agent_name"`
	ModelName string `json:"model_name"`
	Prompt    string `json:"prompt"`
}

// VariableValidation reports whether a supplied value passed type checks.
type VariableValidation struct {
	Name  string         `json:"name"`
	Type  prompt.VarType `json:"type"`
	Valid bool           `json:"valid"`
}

func New(s *store.Store, det *detector.Detector, eng *prompt.Engine, h *hermes.Client, sl *slack.Poster, clk *clock.Clock, logger *slog.Logger) *Processor {
	return &Processor{
		store:    s,
		detector: det,
		engine:   eng,
		hermes:   h,
		slack:    sl,
		clock:    clk,
		logger:   logger,
	}
}

// Process runs the full pipeline over one raw agent config. Parsing errors
// abort the run; persistence, event, and Slack failures are logged and the
// result is still returned.
func (p *Processor) Process(ctx context.Context, raw, source string) (*Result, error) {
	file, err := agentcfg.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	agents := file.AgentList()
	template := file.Template()

	result := &Result{
		Source:      source,
		ContentHash: store.HashContent(raw),
		Agents:      agents,
		Template:    template,
		Variables:   p.engine.Variables(template),
		ServiceInfo: p.detector.Detect(raw),
	}

	companyName := ""
	if result.ServiceInfo != nil {
		companyName = result.ServiceInfo.CompanyInfo.CompanyName
	}

	if p.store != nil {
		p.persist(ctx, raw, companyName, result)
	}

	if p.hermes != nil {
		evt := hermes.ExtractionCompleted{
			Source:        source,
			CompanyName:   companyName,
			AgentCount:    len(agents),
			VariableCount: len(result.Variables),
			Detected:      result.ServiceInfo != nil,
		}
		if result.RunID != uuid.Nil {
			evt.RunID = result.RunID.String()
		}
		if err := p.hermes.Publish(hermes.SubjectExtractionCompleted, evt); err != nil {
			p.logger.Error("failed to publish extraction event", "error", err)
		}
	}

	if p.slack != nil {
		if _, err := p.slack.PostExtractionSummary(ctx, result.ServiceInfo, source, len(agents)); err != nil {
			p.logger.Error("slack post failed", "error", err)
		}
	}

	p.logger.Info("config processed",
		"source", source,
		"agents", len(agents),
		"variables", len(result.Variables),
		"company", companyName,
		"detected", result.ServiceInfo != nil,
		"reused", result.Reused,
	)

	return result, nil
}

// persist reuses a prior run when the exact same content was already
// processed, and otherwise saves a new run.
func (p *Processor) persist(ctx context.Context, raw, companyName string, result *Result) {
	existing, err := p.store.FindByContentHash(ctx, result.ContentHash)
	if err != nil {
		p.logger.Error("run lookup failed", "error", err)
		return
	}
	if existing != nil {
		result.RunID = existing.ID
		result.Reused = true
		return
	}

	payload, err := json.Marshal(result.ServiceInfo)
	if err != nil {
		p.logger.Error("failed to marshal service info", "error", err)
		return
	}
	id, err := p.store.SaveRun(ctx, store.Run{
		ContentHash:   result.ContentHash,
		ContentLength: len(raw),
		Source:        result.Source,
		CompanyName:   companyName,
		AgentCount:    len(result.Agents),
		Result:        payload,
	})
	if err != nil {
		p.logger.Error("failed to save run", "error", err)
		return
	}
	result.RunID = id
}

// GeneratePrompts validates the supplied values against the template's
// variable types and, when all pass, produces a completed prompt per agent.
// An invalid phone value is a validation outcome, not an error.
func (p *Processor) GeneratePrompts(template string, values map[string]string, agents []agentcfg.Agent) ([]AgentPrompt, []VariableValidation, bool) {
	vars := p.engine.Variables(template)

	validations := make([]VariableValidation, 0, len(vars))
	allValid := true
	for _, v := range vars {
		valid := true
		if v.Type == prompt.VarPhone {
			if val, ok := values[v.Name]; ok && val != "" {
				valid = prompt.ValidPhone(val)
			}
		}
		if !valid {
			allValid = false
		}
		validations = append(validations, VariableValidation{Name: v.Name, Type: v.Type, Valid: valid})
	}

	if !allValid {
		return nil, validations, false
	}

	filled := make(map[string]string, len(values)+1)
	for k, v := range values {
		filled[k] = v
	}
	if _, ok := filled[prompt.ReservedNow]; !ok && p.clock != nil {
		filled[prompt.ReservedNow] = p.clock.Now()
	}

	prompts := make([]AgentPrompt, 0, len(agents))
	for _, agent := range agents {
		prompts = append(prompts, AgentPrompt{
			AgentName: agent.Name,
			ModelName: agent.ModelName,
			Prompt:    p.engine.Inject(template, filled, agent.SystemPrompt),
		})
	}
	return prompts, validations, true
}

// HandleConfigSubmitted is the NATS handler for swarm.quill.config.submitted.
func (p *Processor) HandleConfigSubmitted(subject string, data []byte) {
	ctx := context.Background()

	var evt hermes.ConfigSubmitted
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse config event", "error", err)
		return
	}
	if evt.YAML == "" {
		p.logger.Error("config event without yaml payload", "request_id", evt.RequestID)
		return
	}

	source := evt.Source
	if source == "" {
		source = "hermes"
	}

	p.logger.Info("processing submitted config", "request_id", evt.RequestID, "source", source)

	if _, err := p.Process(ctx, evt.YAML, source); err != nil {
		p.logger.Error("config processing failed", "request_id", evt.RequestID, "error", err)
	}
}
