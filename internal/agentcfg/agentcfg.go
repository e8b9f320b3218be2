// Package agentcfg maps a YAML configuration document to the agent list and
// the optional global prompt template. YAML syntax itself is delegated to
// the standard parser; this layer only shapes the result.
package agentcfg

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ModelNotSpecified is the model label used when a config omits model_name.
const ModelNotSpecified = "Not specified"

// templateKey documents the fixed config key the template is read from.
const templateKey = "global_system_prompt_template"

// Agent is one conversational agent from the configuration.
type Agent struct {
	Name         string `json:"name"`
	ModelName    string `json:"model_name"`
	SystemPrompt string `json:"system_prompt"`
}

type rawAgent struct {
	Name         string `yaml:"name"`
	ModelName    string `yaml:"model_name"`
	SystemPrompt string `yaml:"system_prompt"`
}

// File is a parsed configuration document.
type File struct {
	Agents         []rawAgent `yaml:"agents"`
	GlobalTemplate string     `yaml:"global_system_prompt_template"`
}

// Parse unmarshals a YAML configuration. Malformed documents return a
// wrapped parse error; they never reach the extraction engines.
func Parse(src string) (*File, error) {
	var f File
	if err := yaml.Unmarshal([]byte(src), &f); err != nil {
		return nil, fmt.Errorf("invalid YAML format: %w", err)
	}
	return &f, nil
}

// AgentList returns the usable agents. Name and system_prompt are required;
// records missing either are silently skipped. Model defaults to
// ModelNotSpecified.
func (f *File) AgentList() []Agent {
	var agents []Agent
	for _, a := range f.Agents {
		if a.Name == "" || a.SystemPrompt == "" {
			continue
		}
		model := a.ModelName
		if model == "" {
			model = ModelNotSpecified
		}
		agents = append(agents, Agent{
			Name:         a.Name,
			ModelName:    model,
			SystemPrompt: a.SystemPrompt,
		})
	}
	return agents
}

// Template returns the optional global prompt template, or "".
func (f *File) Template() string {
	return f.GlobalTemplate
}
