package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/pkg/clock"
)

// Verificar en tiempo de compilación que AgentNotifier implementa SaleNotifier.
var _ ports.SaleNotifier = (*AgentNotifier)(nil)

const (
	agentRunPath   = "/agent/run"
	triggerSale    = "SALE"
	maxErrBodySize = 512
)

// AgentNotifier avisa al agente de automatización (POST {AGENT_URL}/agent/run) de cada venta nueva.
type AgentNotifier struct {
	endpoint   string
	clock      clock.Clock
	httpClient *http.Client
}

// NewAgentNotifier construye el adaptador. timeout acota la llamada de red completa.
func NewAgentNotifier(baseURL string, timeout time.Duration, clk clock.Clock) *AgentNotifier {
	return &AgentNotifier{
		endpoint:   strings.TrimRight(baseURL, "/") + agentRunPath,
		clock:      clk,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type agentRequest struct {
	Trigger   string       `json:"trigger"`
	Payload   agentPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type agentPayload struct {
	InvoiceID string `json:"invoiceId"`
}

// NotifySale envía el disparador SALE. Cualquier respuesta distinta de 2xx es error.
func (n *AgentNotifier) NotifySale(ctx context.Context, invoiceID string) error {
	body, err := json.Marshal(agentRequest{
		Trigger:   triggerSale,
		Payload:   agentPayload{InvoiceID: invoiceID},
		Timestamp: n.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal agent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		return fmt.Errorf("agent respondió %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
