package esimvendor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/pkg/signing"
)

// codeSuccess is the vendor's success marker in every response envelope.
const codeSuccess = 1

// Dataplan is one catalog entry from the vendor's plan list.
type Dataplan struct {
	ChannelDataplanID string `json:"channel_dataplan_id"`
	ActiveType        string `json:"active_type"`
}

// SubscribeRequest describes one provisioning purchase.
type SubscribeRequest struct {
	PlanID         string
	Quantity       int
	ActivationDate string
}

// Client exposes operations against the eSIM vendor API.
type Client interface {
	DataplanList(ctx context.Context) ([]Dataplan, error)
	Subscribe(ctx context.Context, req SubscribeRequest) (string, error)
	TopupDetail(ctx context.Context, topupID string) (string, error)
}

// HTTPClient implements Client via the vendor's signed HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	signer     *signing.Signer
	logger     *slog.Logger
}

type listResponse struct {
	Code   int        `json:"code"`
	Msg    string     `json:"msg"`
	Result []Dataplan `json:"result"`
}

type subscribeResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		TopupID string `json:"topup_id"`
	} `json:"result"`
}

type topupDetailResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		QRCode string `json:"qrcode"`
	} `json:"result"`
}

// NewHTTPClient creates a signed vendor client.
func NewHTTPClient(baseURL string, signer *signing.Signer, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse vendor url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("vendor url must be absolute")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		signer:  signer,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// DataplanList fetches the vendor plan catalog.
func (c *HTTPClient) DataplanList(ctx context.Context) ([]Dataplan, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/esimDataplanList", nil, "")
	if err != nil {
		return nil, err
	}

	var data listResponse
	if err := c.do(req, "esimDataplanList", &data); err != nil {
		return nil, err
	}
	if data.Code != codeSuccess {
		return nil, &domainErrors.VendorError{Endpoint: "esimDataplanList", Code: data.Code, Message: data.Msg}
	}
	return data.Result, nil
}

// Subscribe purchases one plan and returns the vendor topup id.
func (c *HTTPClient) Subscribe(ctx context.Context, sub SubscribeRequest) (string, error) {
	fields := map[string]string{
		"number":              strconv.Itoa(sub.Quantity),
		"channel_dataplan_id": sub.PlanID,
	}
	if sub.ActivationDate != "" {
		fields["activation_date"] = sub.ActivationDate
	}
	body, contentType, err := encodeMultipart(fields)
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/esimSubscribe", body, contentType)
	if err != nil {
		return "", err
	}

	var data subscribeResponse
	if err := c.do(req, "esimSubscribe", &data); err != nil {
		return "", err
	}
	if data.Code != codeSuccess {
		return "", &domainErrors.VendorError{Endpoint: "esimSubscribe", Code: data.Code, Message: data.Msg}
	}
	// A success code without a topup id is a contract violation, not
	// something to proceed with.
	if data.Result.TopupID == "" {
		return "", &domainErrors.VendorError{Endpoint: "esimSubscribe", Code: data.Code, Message: "missing topup_id in response"}
	}
	return data.Result.TopupID, nil
}

// TopupDetail fetches the QR code reference for a provisioned topup.
func (c *HTTPClient) TopupDetail(ctx context.Context, topupID string) (string, error) {
	body, contentType, err := encodeMultipart(map[string]string{"topup_id": topupID})
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/topupDetail", body, contentType)
	if err != nil {
		return "", err
	}

	var data topupDetailResponse
	if err := c.do(req, "topupDetail", &data); err != nil {
		return "", err
	}
	if data.Code != codeSuccess {
		return "", &domainErrors.VendorError{Endpoint: "topupDetail", Code: data.Code, Message: data.Msg}
	}
	if data.Result.QRCode == "" {
		return "", &domainErrors.VendorError{Endpoint: "topupDetail", Code: data.Code, Message: "missing qrcode in response"}
	}
	return data.Result.QRCode, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	creds, err := c.signer.Sign()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("accountId", c.signer.AccountID())
	req.Header.Set("nonce", creds.Nonce)
	req.Header.Set("timestamp", creds.Timestamp)
	req.Header.Set("signature", creds.Signature)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domainErrors.VendorError{Endpoint: endpoint, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domainErrors.VendorError{Endpoint: endpoint, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("vendor request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return &domainErrors.VendorError{Endpoint: endpoint, Code: resp.StatusCode, Message: resp.Status}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domainErrors.VendorError{Endpoint: endpoint, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func encodeMultipart(fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
