package external

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"shelfwatch/internal/types"
)

// fonnteAPIBase is the default Fonnte gateway base URL.
// Overridable in tests via FonnteClientConfig.BaseURL.
const fonnteAPIBase = "https://api.fonnte.com"

// DefaultSendTimeout bounds the outbound gateway call. A timeout is
// classified like any other transport failure.
const DefaultSendTimeout = 10 * time.Second

// maxResponseBodyRead limits how much of a gateway response body we read for
// success-flag parsing and error messages.
const maxResponseBodyRead = 4096

// FonnteClientConfig holds the configuration for creating a FonnteClient.
type FonnteClientConfig struct {
	Token       types.SecretString
	CountryCode string // digit prefix, e.g. "62"
	BaseURL     string // override for testing; defaults to fonnteAPIBase
	Logger      *slog.Logger
}

// FonnteClient implements types.MessageSender against the Fonnte WhatsApp
// gateway (POST /send with a token in the Authorization header). All requests
// route through BaseClient for circuit breaking and error mapping.
type FonnteClient struct {
	base        *BaseClient
	token       types.SecretString
	countryCode string
	baseURL     string
	logger      *slog.Logger
}

// Compile-time assertion that FonnteClient implements types.MessageSender.
var _ types.MessageSender = (*FonnteClient)(nil)

// NewFonnteClient creates a FonnteClient. The httpClient timeout should be
// set to DefaultSendTimeout unless the deployment overrides it.
func NewFonnteClient(httpClient *http.Client, cfg FonnteClientConfig) *FonnteClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fonnteAPIBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FonnteClient{
		base:        NewBaseClient(httpClient, "fonnte", "ShelfWatch/1.0"),
		token:       cfg.Token,
		countryCode: cfg.CountryCode,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		logger:      logger,
	}
}

// fonnteSendPayload is the JSON request envelope for the /send endpoint.
type fonnteSendPayload struct {
	Target      string `json:"target"`
	Message     string `json:"message"`
	CountryCode string `json:"countryCode"`
}

// fonnteResponse is the subset of the gateway response we interpret. Status
// is the provider-specific success flag; a false or absent value means the
// message was not accepted even when the HTTP exchange succeeded.
type fonnteResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Send performs a single synchronous call to the gateway.
//
// Outcome mapping:
//   - transport error or breaker open -> error (upstream_whatsapp_unavailable)
//   - non-2xx HTTP status             -> DeliveryResult{Success: false}
//   - 2xx with status flag false      -> DeliveryResult{Success: false}
//   - 2xx with status flag true       -> DeliveryResult{Success: true}
func (f *FonnteClient) Send(ctx context.Context, target string, message string) (*types.DeliveryResult, error) {
	body, err := json.Marshal(fonnteSendPayload{
		Target:      target,
		Message:     message,
		CountryCode: f.countryCode,
	})
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to marshal gateway payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to create gateway request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", f.token.Unmask())

	resp, err := f.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyRead))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamWhatsApp,
			"failed to read gateway response", err)
	}

	var parsed fonnteResponse
	// A malformed body is treated as an absent success flag, not a transport
	// failure: the gateway was reached and answered.
	_ = json.Unmarshal(raw, &parsed)

	result := &types.DeliveryResult{ProviderResponse: json.RawMessage(raw)}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.ErrorReason = parsed.Message
		if result.ErrorReason == "" {
			result.ErrorReason = "Gagal mengirim pesan via Fonnte API"
		}
		f.logger.Warn("fonnte send rejected", "http_status", resp.StatusCode, "reason", result.ErrorReason)
		return result, nil
	}

	if !parsed.Status {
		result.ErrorReason = parsed.Message
		if result.ErrorReason == "" {
			result.ErrorReason = "Pesan gagal dikirim"
		}
		f.logger.Warn("fonnte send not accepted", "reason", result.ErrorReason)
		return result, nil
	}

	result.Success = true
	return result, nil
}
