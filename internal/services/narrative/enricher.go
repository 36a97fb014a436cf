package narrative

import (
	"context"
	"fmt"
	"time"

	"LiqCast/internal/domain/models"
	domsvc "LiqCast/internal/domain/service"
	"LiqCast/pkg/config"
	xhttp "LiqCast/pkg/http"
)

// HTTPEnricher asks an external narrative service to turn a finished
// forecast into prose. Failures are non-fatal: the caller keeps the
// deterministic forecast and drops the narrative.
type HTTPEnricher struct {
	baseURL  string
	client   *xhttp.Client
	attempts int
}

// NewHTTPEnricher builds an enricher from config. The client timeout keeps
// the slow external call bounded independently of the caller's context.
func NewHTTPEnricher(cfg *config.Config) *HTTPEnricher {
	timeout := cfg.Forecast.Narrative.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	attempts := cfg.Forecast.Narrative.Attempts
	if attempts <= 0 {
		attempts = 2
	}
	return &HTTPEnricher{
		baseURL:  cfg.Forecast.Narrative.ServiceURL,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		attempts: attempts,
	}
}

type narrateRequest struct {
	Result *models.LiquidityForecastResult `json:"result"`
}

type narrateResponse struct {
	Narrative string `json:"narrative"`
}

// Narrate posts the forecast and returns the generated prose.
func (e *HTTPEnricher) Narrate(ctx context.Context, result *models.LiquidityForecastResult) (string, error) {
	if e.baseURL == "" {
		return "", fmt.Errorf("narrative service not configured")
	}

	var resp narrateResponse
	var err error
	for i := 1; i <= e.attempts; i++ {
		err = e.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodPost,
			URL:    e.baseURL + "/narrate",
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
			Body: narrateRequest{Result: result},
		}, &resp)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
	}
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}
	return resp.Narrative, nil
}

var _ domsvc.NarrativeEnricher = (*HTTPEnricher)(nil)
