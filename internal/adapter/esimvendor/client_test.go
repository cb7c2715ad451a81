package esimvendor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/pkg/signing"
)

func newTestSigner(t *testing.T) *signing.Signer {
	t.Helper()
	signer, err := signing.NewSigner("acct-1", "s3cret", "a1b2c3d4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return signer
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(baseURL, newTestSigner(t), time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestNewHTTPClientRejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPClient("vendor.example.com/api", newTestSigner(t), time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestDataplanListSignsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esimDataplanList" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		for _, header := range []string{"accountId", "nonce", "timestamp", "signature"} {
			if r.Header.Get(header) == "" {
				t.Errorf("missing %s header", header)
			}
		}
		if got := r.Header.Get("accountId"); got != "acct-1" {
			t.Errorf("accountId = %q, want acct-1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"code":1,"msg":"ok","result":[{"channel_dataplan_id":"Malaysia-Daily500MB-1-A0","active_type":"ACTIVATED_BY_ORDER"}]}`)
	}))
	defer server.Close()

	plans, err := newTestClient(t, server.URL).DataplanList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
	if plans[0].ChannelDataplanID != "Malaysia-Daily500MB-1-A0" {
		t.Errorf("unexpected plan id %s", plans[0].ChannelDataplanID)
	}
	if plans[0].ActiveType != "ACTIVATED_BY_ORDER" {
		t.Errorf("unexpected active type %s", plans[0].ActiveType)
	}
}

func TestSubscribeSendsMultipartFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esimSubscribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("number"); got != "2" {
			t.Errorf("number = %q, want 2", got)
		}
		if got := r.FormValue("channel_dataplan_id"); got != "Malaysia-Daily500MB-1-A0" {
			t.Errorf("channel_dataplan_id = %q", got)
		}
		if got := r.FormValue("activation_date"); got != "2026-01-02 15:04:05" {
			t.Errorf("activation_date = %q", got)
		}
		io.WriteString(w, `{"code":1,"msg":"ok","result":{"topup_id":"T1"}}`)
	}))
	defer server.Close()

	topupID, err := newTestClient(t, server.URL).Subscribe(context.Background(), SubscribeRequest{
		PlanID:         "Malaysia-Daily500MB-1-A0",
		Quantity:       2,
		ActivationDate: "2026-01-02 15:04:05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topupID != "T1" {
		t.Errorf("topupID = %q, want T1", topupID)
	}
}

func TestSubscribeOmitsEmptyActivationDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if _, ok := r.MultipartForm.Value["activation_date"]; ok {
			t.Error("activation_date should not be sent for device-activated plans")
		}
		io.WriteString(w, `{"code":1,"msg":"ok","result":{"topup_id":"T2"}}`)
	}))
	defer server.Close()

	if _, err := newTestClient(t, server.URL).Subscribe(context.Background(), SubscribeRequest{
		PlanID:   "Malaysia-Daily500MB-1-A0",
		Quantity: 1,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubscribeRejectionCarriesVendorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":0,"msg":"insufficient balance"}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Subscribe(context.Background(), SubscribeRequest{PlanID: "X", Quantity: 1})

	var vendorErr *domainErrors.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if vendorErr.Message != "insufficient balance" {
		t.Errorf("message = %q, want vendor text verbatim", vendorErr.Message)
	}
	if vendorErr.Endpoint != "esimSubscribe" {
		t.Errorf("endpoint = %q", vendorErr.Endpoint)
	}
}

func TestSubscribeRejectsMissingTopupID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":1,"msg":"ok","result":{}}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Subscribe(context.Background(), SubscribeRequest{PlanID: "X", Quantity: 1})

	var vendorErr *domainErrors.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError for missing topup_id, got %v", err)
	}
}

func TestTopupDetailReturnsQRCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/topupDetail" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("topup_id"); got != "T1" {
			t.Errorf("topup_id = %q, want T1", got)
		}
		io.WriteString(w, `{"code":1,"msg":"ok","result":{"qrcode":"https://cdn.example.com/q1.png"}}`)
	}))
	defer server.Close()

	qr, err := newTestClient(t, server.URL).TopupDetail(context.Background(), "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qr != "https://cdn.example.com/q1.png" {
		t.Errorf("qr = %q", qr)
	}
}

func TestTopupDetailRejectsMissingQRCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":1,"msg":"ok","result":{"qrcode":""}}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).TopupDetail(context.Background(), "T1")

	var vendorErr *domainErrors.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError for missing qrcode, got %v", err)
	}
}

func TestDoWrapsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).DataplanList(context.Background())

	var vendorErr *domainErrors.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if vendorErr.Code != http.StatusBadGateway {
		t.Errorf("code = %d, want 502", vendorErr.Code)
	}
}

func TestDoWrapsDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).DataplanList(context.Background())

	var vendorErr *domainErrors.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
}
