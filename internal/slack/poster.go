package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/quill/internal/detector"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostExtractionSummary posts a digest of a finished extraction run to the
// prompts channel. Returns the message timestamp (ts).
func (p *Poster) PostExtractionSummary(ctx context.Context, info *detector.ExtractedServiceInfo, source string, agentCount int) (string, error) {
	text := formatExtractionMessage(info, source, agentCount)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return "", fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return "", fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted extraction summary to slack", "ts", slackResp.TS, "source", source)
	return slackResp.TS, nil
}

func formatExtractionMessage(info *detector.ExtractedServiceInfo, source string, agentCount int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Config processed* (%s, %d agents)\n", source, agentCount)
	if info == nil {
		sb.WriteString("_No business information detected in this config._")
		return sb.String()
	}

	if info.CompanyInfo.CompanyName != "" {
		fmt.Fprintf(&sb, "*Company:* %s\n", info.CompanyInfo.CompanyName)
	}

	if len(info.DispatchFees) > 0 {
		fmt.Fprintf(&sb, "\n*Fees found: %d*\n", len(info.DispatchFees))
		for i, fee := range info.DispatchFees {
			fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, fee.ServiceType, fee.Amount)
		}
	}

	if info.Scheduling.TotalHours != "" || len(info.Scheduling.OperatingDays) > 0 {
		sb.WriteString("\n*Schedule:*")
		if len(info.Scheduling.OperatingDays) > 0 {
			fmt.Fprintf(&sb, " %d operating days", len(info.Scheduling.OperatingDays))
		}
		if info.Scheduling.TotalHours != "" {
			fmt.Fprintf(&sb, " | %s", info.Scheduling.TotalHours)
		}
		sb.WriteString("\n")
	}

	if info.Membership.ProgramName != "" {
		fmt.Fprintf(&sb, "\n*Membership:* %s\n", info.Membership.ProgramName)
	}

	if len(info.Payment.AcceptedMethods) > 0 {
		fmt.Fprintf(&sb, "\n*Payment:* %s\n", strings.Join(info.Payment.AcceptedMethods, ", "))
	}

	if len(info.ServiceCategories) > 0 {
		names := make([]string, len(info.ServiceCategories))
		for i, cat := range info.ServiceCategories {
			names[i] = cat.Name
		}
		fmt.Fprintf(&sb, "\n*Services:* %s\n", strings.Join(names, ", "))
	}

	critical := 0
	for _, rule := range info.SchedulingRules {
		if rule.Priority == "critical" {
			critical++
		}
	}
	if len(info.SchedulingRules) > 0 {
		fmt.Fprintf(&sb, "\n*Rules:* %d (%d critical)\n", len(info.SchedulingRules), critical)
	}

	return sb.String()
}
