package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectConfigSubmitted carries agent configs submitted for extraction.
const SubjectConfigSubmitted = "swarm.quill.config.submitted"

// SubjectExtractionCompleted announces a finished extraction run.
const SubjectExtractionCompleted = "swarm.quill.extraction.completed"

// ConfigSubmitted is the payload consumed from SubjectConfigSubmitted.
type ConfigSubmitted struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source"`
	YAML      string `json:"yaml"`
}

// ExtractionCompleted is emitted after each successful run so downstream
// agents can pick up the detected business profile.
type ExtractionCompleted struct {
	RunID         string `json:"run_id"`
	Source        string `json:"source"`
	CompanyName   string `json:"company_name"`
	AgentCount    int    `json:"agent_count"`
	VariableCount int    `json:"variable_count"`
	Detected      bool   `json:"detected"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
