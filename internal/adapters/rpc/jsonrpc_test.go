package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"adgate/go-client/internal/bootstrap/adconfig"
	adsmodel "adgate/go-client/internal/domains/ads/model"
	"adgate/go-client/internal/domains/contracts"
	"adgate/go-client/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

type stubService struct {
	lastMethod string
	lastReason string
	lastFlag   bool
	lastStatus string
	lastLimit  int

	grant     bool
	tunnelErr error
	rewards   []contracts.RewardRecord
	events    []contracts.Notification
}

func (s *stubService) snapshot() contracts.StateSnapshot {
	return contracts.StateSnapshot{
		Tunnel: adsmodel.TunnelNotConnected,
		State:  adsmodel.NewCoreState(),
	}
}

func (s *stubService) LoadInterstitial(reason string) contracts.StateSnapshot {
	s.lastMethod, s.lastReason = "loadInterstitial", reason
	return s.snapshot()
}

func (s *stubService) ShowInterstitial() (contracts.StateSnapshot, bool) {
	s.lastMethod = "showInterstitial"
	return s.snapshot(), s.grant
}

func (s *stubService) LoadRewardedVideo(presentAfterLoad bool) contracts.StateSnapshot {
	s.lastMethod, s.lastFlag = "loadRewardedVideo", presentAfterLoad
	return s.snapshot()
}

func (s *stubService) ShowRewardedVideo() contracts.StateSnapshot {
	s.lastMethod = "showRewardedVideo"
	return s.snapshot()
}

func (s *stubService) RewardEarned() contracts.StateSnapshot {
	s.lastMethod = "rewardEarned"
	return s.snapshot()
}

func (s *stubService) Status() contracts.StateSnapshot {
	s.lastMethod = "status"
	return s.snapshot()
}

func (s *stubService) SetTunnelStatus(status string) (contracts.StateSnapshot, error) {
	s.lastMethod, s.lastStatus = "setTunnelStatus", status
	if s.tunnelErr != nil {
		return contracts.StateSnapshot{}, s.tunnelErr
	}
	return s.snapshot(), nil
}

func (s *stubService) RecentRewards(limit int) ([]contracts.RewardRecord, error) {
	s.lastMethod, s.lastLimit = "recentRewards", limit
	return s.rewards, nil
}

func (s *stubService) Notifications(fromSeq int64) []contracts.Notification {
	s.lastMethod = "notifications"
	out := make([]contracts.Notification, 0)
	for _, evt := range s.events {
		if evt.Seq > fromSeq {
			out = append(out, evt)
		}
	}
	return out
}

func (s *stubService) SubscribeNotifications(fromSeq int64) ([]contracts.Notification, <-chan contracts.Notification, func()) {
	ch := make(chan contracts.Notification)
	close(ch)
	return s.Notifications(fromSeq), ch, func() {}
}

func newTestServer(t *testing.T, svc contracts.AdsDaemonService, token string) *Server {
	t.Helper()
	cfg := adconfig.DefaultConfig()
	cfg.RateLimit.Enabled = false
	return newServer(cfg, svc, metrics.New(prometheus.NewRegistry()), nil, nil, token, token != "")
}

func postRPC(t *testing.T, s *Server, body string) (*httptest.ResponseRecorder, rpcResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp rpcResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubService{}, "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestDispatchLoadInterstitial(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(t, svc, "")

	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":1,"method":"ads.loadInterstitial","params":{"reason":"app_foregrounded"}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if svc.lastMethod != "loadInterstitial" || svc.lastReason != "app_foregrounded" {
		t.Fatalf("dispatched %s with reason %q", svc.lastMethod, svc.lastReason)
	}
}

func TestDispatchShowInterstitialReturnsGrant(t *testing.T) {
	svc := &stubService{grant: true}
	s := newTestServer(t, svc, "")

	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":2,"method":"ads.showInterstitial"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var parsed struct {
		Granted bool `json:"granted"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !parsed.Granted {
		t.Fatal("granted = false, want true")
	}
}

func TestDispatchLoadRewardedVideoFlag(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(t, svc, "")

	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":3,"method":"ads.loadRewardedVideo","params":{"presentAfterLoad":true}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if !svc.lastFlag {
		t.Fatal("presentAfterLoad flag not passed through")
	}
}

func TestDispatchSetTunnelStatus(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(t, svc, "")

	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":4,"method":"tunnel.setStatus","params":{"status":"connected"}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if svc.lastStatus != "connected" {
		t.Fatalf("status = %q", svc.lastStatus)
	}
}

func TestDispatchSetTunnelStatusRejected(t *testing.T) {
	svc := &stubService{tunnelErr: errors.New("unknown tunnel status")}
	s := newTestServer(t, svc, "")

	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":5,"method":"tunnel.setStatus","params":{"status":"bogus"}}`)
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("error = %+v, want -32602", resp.Error)
	}
}

func TestDispatchRewardsRecentDefaultLimit(t *testing.T) {
	svc := &stubService{}
	s := newTestServer(t, svc, "")

	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":6,"method":"rewards.recent"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if svc.lastLimit != defaultRewardListLimit {
		t.Fatalf("limit = %d, want %d", svc.lastLimit, defaultRewardListLimit)
	}
}

func TestDispatchRewardsRecentLimitTooLarge(t *testing.T) {
	s := newTestServer(t, &stubService{}, "")
	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":7,"method":"rewards.recent","params":{"limit":100000}}`)
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("error = %+v, want -32602", resp.Error)
	}
}

func TestDispatchUnknownMethod(t *testing.T) {
	s := newTestServer(t, &stubService{}, "")
	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":8,"method":"ads.unknown"}`)
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("error = %+v, want -32601", resp.Error)
	}
}

func TestDispatchUnknownParamField(t *testing.T) {
	s := newTestServer(t, &stubService{}, "")
	_, resp := postRPC(t, s, `{"jsonrpc":"2.0","id":9,"method":"ads.loadInterstitial","params":{"nope":1}}`)
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("error = %+v, want -32602", resp.Error)
	}
}

func TestParseError(t *testing.T) {
	s := newTestServer(t, &stubService{}, "")
	_, resp := postRPC(t, s, `{"jsonrpc":`)
	if resp.Error == nil || resp.Error.Code != -32700 {
		t.Fatalf("error = %+v, want -32700", resp.Error)
	}
}

func TestInvalidRequestVersion(t *testing.T) {
	s := newTestServer(t, &stubService{}, "")
	_, resp := postRPC(t, s, `{"jsonrpc":"1.0","id":10,"method":"ads.status"}`)
	if resp.Error == nil || resp.Error.Code != -32600 {
		t.Fatalf("error = %+v, want -32600", resp.Error)
	}
}

func TestAuthTokenRequired(t *testing.T) {
	s := newTestServer(t, &stubService{}, "secret-token")

	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ads.status"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ads.status"}`))
	req.Header.Set("X-Adgate-RPC-Token", "secret-token")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ads.status"}`))
	req.Header.Set("Authorization", "Bearer secret-token")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer status = %d, want 200", rec.Code)
	}
}

func TestRateLimitDenies(t *testing.T) {
	cfg := adconfig.DefaultConfig()
	cfg.RateLimit = adconfig.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	s := newServer(cfg, &stubService{}, metrics.New(prometheus.NewRegistry()), nil, nil, "", false)

	body := `{"jsonrpc":"2.0","id":1,"method":"ads.status"}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
}

func TestStreamReplaysAndEnds(t *testing.T) {
	svc := &stubService{events: []contracts.Notification{
		{Seq: 1, Method: "ads.state", Timestamp: time.Now()},
		{Seq: 2, Method: "ads.state", Timestamp: time.Now()},
	}}
	s := newTestServer(t, svc, "")

	req := httptest.NewRequest(http.MethodGet, "/rpc/stream?cursor=1", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "id: 1\n") {
		t.Fatalf("cursor not honored: %s", body)
	}
	if !strings.Contains(body, "id: 2\n") {
		t.Fatalf("missing replayed event: %s", body)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q", got)
	}
}

func TestStreamRejectsBadCursor(t *testing.T) {
	s := newTestServer(t, &stubService{}, "")
	req := httptest.NewRequest(http.MethodGet, "/rpc/stream?cursor=-3", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
