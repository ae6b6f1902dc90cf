package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Run(ctx context.Context, params usecase.ResolveProposalParams) (*usecase.ResolveProposalResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ResolveProposalResult), args.Error(1)
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) Run(ctx context.Context, params usecase.ListProposalsParams) (*usecase.ListProposalsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListProposalsResult), args.Error(1)
}

func newTestServer(t *testing.T) (*httptest.Server, *MockResolver, *MockLister) {
	t.Helper()
	resolver := &MockResolver{}
	lister := &MockLister{}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "agora_resolutions_total 1\n")
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(&config.RuntimeConfig{}, resolver, lister, metrics, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, resolver, lister
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestGetProposal(t *testing.T) {
	ts, resolver, _ := newTestServer(t)

	view := &models.ResultView{
		ProposalID: "42",
		Tenant:     "ens",
		Status:     models.ProposalStatusSucceeded,
		StatusText: "Succeeded",
	}
	resolver.On("Run", mock.Anything, usecase.ResolveProposalParams{Tenant: "ens", ProposalID: "42"}).
		Return(&usecase.ResolveProposalResult{View: view}, nil).Once()
	resolver.On("Run", mock.Anything, usecase.ResolveProposalParams{Tenant: "ens", ProposalID: "42", NoCache: true}).
		Return(&usecase.ResolveProposalResult{View: view, Cached: false}, nil).Once()

	resp, body := get(t, ts.URL+"/v1/ens/proposals/42")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	var got models.ResultView
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, *view, got)

	resp, _ = get(t, ts.URL+"/v1/ens/proposals/42?nocache=true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resolver.AssertExpectations(t)
}

func TestGetProposalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", &domain.NotFoundError{Kind: "proposal", ID: "9"}, http.StatusNotFound},
		{"unknown tenant", domain.UnknownTenantErr{Namespace: "nope"}, http.StatusNotFound},
		{"invalid input", domain.NewInputError("id", "bad"), http.StatusUnprocessableEntity},
		{"upstream", fmt.Errorf("proposal 9: %w", domain.NewUpstreamReadError("read quorum", errors.New("timeout"))), http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, resolver, _ := newTestServer(t)
			resolver.On("Run", mock.Anything, mock.Anything).Return(nil, tt.err)

			resp, body := get(t, ts.URL+"/v1/ens/proposals/9")
			assert.Equal(t, tt.code, resp.StatusCode)

			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, tt.err.Error(), payload["error"])
		})
	}
}

func TestListProposals(t *testing.T) {
	ts, _, lister := newTestServer(t)

	params := usecase.ListProposalsParams{
		Tenant: "ens",
		Status: models.ProposalStatusDefeated,
		Type:   models.ProposalTypeStandard,
		Limit:  5,
	}
	lister.On("Run", mock.Anything, params).Return(&usecase.ListProposalsResult{
		Tenant:  &config.TenantConfig{Namespace: "ens"},
		Results: []*models.ResultView{{ProposalID: "1", Status: models.ProposalStatusDefeated}},
		Failures: []usecase.ProposalFailure{
			{ProposalID: "2", Err: errors.New("rpc down")},
		},
		Summary: usecase.StatusSummary{
			Total:    1,
			ByStatus: map[models.ProposalStatus]int{models.ProposalStatusDefeated: 1},
		},
	}, nil)

	resp, body := get(t, ts.URL+"/v1/ens/proposals?status=defeated&type=standard&limit=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got listResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ens", got.Tenant)
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "1", got.Results[0].ProposalID)
	assert.Equal(t, []failureResponse{{ProposalID: "2", Error: "rpc down"}}, got.Failures)
	assert.Equal(t, 1, got.ByStatus[models.ProposalStatusDefeated])
}

func TestListProposalsEmpty(t *testing.T) {
	ts, _, lister := newTestServer(t)
	lister.On("Run", mock.Anything, usecase.ListProposalsParams{Tenant: "ens"}).Return(&usecase.ListProposalsResult{
		Tenant:  &config.TenantConfig{Namespace: "ens"},
		Summary: usecase.StatusSummary{ByStatus: map[models.ProposalStatus]int{}},
	}, nil)

	resp, body := get(t, ts.URL+"/v1/ens/proposals")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"results":[]`)
}

func TestListProposalsBadQuery(t *testing.T) {
	ts, _, lister := newTestServer(t)

	for _, q := range []string{"status=passed", "type=ranked", "limit=-1", "limit=ten"} {
		resp, _ := get(t, ts.URL+"/v1/ens/proposals?"+q)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, q)
	}
	lister.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "agora_resolutions_total")

	resp, _ = get(t, ts.URL+"/v1/ens")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(&config.RuntimeConfig{ListenAddr: "127.0.0.1:0"}, &MockResolver{}, &MockLister{}, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "") }()
	cancel()
	assert.NoError(t, <-done)
}
