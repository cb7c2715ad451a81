package esimvendor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

type clientStub struct {
	plans []Dataplan
	err   error
	calls int
}

func (c *clientStub) DataplanList(ctx context.Context) ([]Dataplan, error) {
	c.calls++
	return c.plans, c.err
}

func (c *clientStub) Subscribe(ctx context.Context, req SubscribeRequest) (string, error) {
	return "", errors.New("not implemented")
}

func (c *clientStub) TopupDetail(ctx context.Context, topupID string) (string, error) {
	return "", errors.New("not implemented")
}

func newTestCatalog(client Client) *PlanCatalog {
	return NewPlanCatalog(client, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPolicyForOrderActivatedPlan(t *testing.T) {
	catalog := newTestCatalog(&clientStub{plans: []Dataplan{
		{ChannelDataplanID: "Malaysia-Daily500MB-1-A0", ActiveType: "ACTIVATED_BY_DEVICE"},
		{ChannelDataplanID: "Japan-Daily1GB-1-A0", ActiveType: "ACTIVATED_BY_ORDER"},
	}})

	if got := catalog.PolicyFor(context.Background(), "Japan-Daily1GB-1-A0"); got != model.ActivatedByOrder {
		t.Errorf("policy = %s, want ACTIVATED_BY_ORDER", got)
	}
}

func TestPolicyForDeviceActivatedPlan(t *testing.T) {
	catalog := newTestCatalog(&clientStub{plans: []Dataplan{
		{ChannelDataplanID: "Malaysia-Daily500MB-1-A0", ActiveType: "ACTIVATED_BY_DEVICE"},
	}})

	if got := catalog.PolicyFor(context.Background(), "Malaysia-Daily500MB-1-A0"); got != model.ActivatedByDevice {
		t.Errorf("policy = %s, want ACTIVATED_BY_DEVICE", got)
	}
}

func TestPolicyForUnknownPlanDefaultsToDevice(t *testing.T) {
	catalog := newTestCatalog(&clientStub{plans: []Dataplan{
		{ChannelDataplanID: "Japan-Daily1GB-1-A0", ActiveType: "ACTIVATED_BY_ORDER"},
	}})

	if got := catalog.PolicyFor(context.Background(), "missing-plan"); got != model.ActivatedByDevice {
		t.Errorf("policy = %s, want ACTIVATED_BY_DEVICE", got)
	}
}

func TestPolicyForDegradesOnVendorFailure(t *testing.T) {
	stub := &clientStub{err: errors.New("vendor unavailable")}
	catalog := newTestCatalog(stub)

	if got := catalog.PolicyFor(context.Background(), "Japan-Daily1GB-1-A0"); got != model.ActivatedByDevice {
		t.Errorf("policy = %s, want device fallback on catalog failure", got)
	}
	if stub.calls != 1 {
		t.Errorf("expected one catalog call, got %d", stub.calls)
	}
}
