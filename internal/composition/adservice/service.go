// Package adservice wires the ads domain to its collaborators and exposes
// the daemon service boundary.
package adservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"adgate/go-client/internal/app"
	"adgate/go-client/internal/bootstrap/adconfig"
	"adgate/go-client/internal/domains/ads"
	"adgate/go-client/internal/domains/ads/adapters/fakes"
	"adgate/go-client/internal/domains/ads/adapters/ledger"
	adsmodel "adgate/go-client/internal/domains/ads/model"
	"adgate/go-client/internal/domains/contracts"
	"adgate/go-client/internal/platform/metrics"
	"adgate/go-client/internal/platform/privacylog"
	"adgate/go-client/internal/platform/stat"

	"github.com/prometheus/client_golang/prometheus"
)

const notifyMethod = "ads.state"

// Service implements contracts.AdsDaemonService over the ads module with the
// in-process mock SDK collaborators.
type Service struct {
	cfg     adconfig.Config
	log     *slog.Logger
	module  *ads.Module
	tunnel  *fakes.TunnelSource
	probe   *fakes.Probe
	hub     *app.NotificationHub
	metrics *metrics.Metrics
	ledger  *ledger.Store

	statMu  sync.Mutex
	latency *stat.Stats
}

// latencyBucketsMS bounds the request-latency histogram persisted across runs.
var latencyBucketsMS = []float64{1, 5, 10, 25, 50, 100, 250}

// Build constructs the full daemon service from configuration.
func Build(cfg adconfig.Config, reg prometheus.Registerer) (*Service, error) {
	if cfg.SDKMode != "mock" {
		return nil, fmt.Errorf("unsupported sdk mode %q", cfg.SDKMode)
	}
	log := newLogger(cfg.LogLevel)
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	ledgerPath := cfg.LedgerPath
	if dir := filepath.Dir(ledgerPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	store, err := ledger.Open(ledgerPath, log)
	if err != nil {
		return nil, err
	}

	latency, err := loadLatencyStats(cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	svc := &Service{
		cfg:     cfg,
		log:     log,
		latency: latency,
		tunnel:  fakes.NewTunnelSource(adsmodel.TunnelNotConnected),
		probe:   &fakes.Probe{},
		hub:     app.NewNotificationHub(256),
		metrics: metrics.New(reg),
		ledger:  store,
	}

	push := func(surface adsmodel.SurfaceKind, status adsmodel.SurfaceStatus) {
		svc.submit(adsmodel.Request{
			Kind:    adsmodel.RequestStatusChanged,
			Surface: surface,
			Status:  status,
		})
	}
	collab := ads.Collaborators{
		Tunnel:       svc.tunnel,
		Initializer:  &fakes.Initializer{ReadyAdapters: 1},
		Interstitial: &fakes.InterstitialAdapter{Push: push},
		Rewarded:     &fakes.RewardedVideoAdapter{Push: push},
		RewardMeta:   &fakes.RewardMetadataSource{Metadata: map[string]string{"source": cfg.RewardSource}},
		Contexts:     &fakes.ContextSource{Handle: "daemon"},
		Rewards:      countingRewards{store: store, metrics: svc.metrics},
	}
	observer := func(state adsmodel.CoreState) {
		svc.hub.Publish(notifyMethod, contracts.StateSnapshot{
			Tunnel: svc.tunnel.Status(),
			State:  state,
		})
	}
	svc.module = ads.New(log, svc.tunnel, svc.probe, ads.RewardConfig{
		Amount: cfg.RewardAmount,
		Source: cfg.RewardSource,
	}, collab, observer)
	svc.module.Runner.OnEffect = func(kind adsmodel.EffectKind) {
		svc.metrics.Effects.WithLabelValues(string(kind)).Inc()
	}

	return svc, nil
}

type countingRewards struct {
	store   *ledger.Store
	metrics *metrics.Metrics
}

func (c countingRewards) Dispatch(event adsmodel.RewardEvent) {
	c.metrics.Rewards.Inc()
	c.store.Dispatch(event)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(privacylog.WrapHandler(handler))
}

func (s *Service) submit(req adsmodel.Request) contracts.StateSnapshot {
	s.metrics.Requests.WithLabelValues(string(req.Kind)).Inc()
	started := time.Now()
	state := s.module.Runner.Feed(context.Background(), req)
	s.statMu.Lock()
	s.latency.Add(float64(time.Since(started).Microseconds()) / 1000)
	s.statMu.Unlock()
	return contracts.StateSnapshot{Tunnel: s.tunnel.Status(), State: state}
}

func loadLatencyStats(cfg adconfig.Config, log *slog.Logger) (*stat.Stats, error) {
	if cfg.StatsPath != "" && cfg.StatsSecret != "" {
		if loaded, err := stat.LoadStats(cfg.StatsPath, cfg.StatsSecret); err == nil {
			return loaded, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Warn("discarding unreadable stats snapshot", "error", err)
		}
	}
	return stat.NewStats(latencyBucketsMS)
}

// saveLatencyStats writes the encrypted snapshot; skipped when stats
// persistence is not configured.
func (s *Service) saveLatencyStats() error {
	if s.cfg.StatsPath == "" || s.cfg.StatsSecret == "" {
		return nil
	}
	s.statMu.Lock()
	defer s.statMu.Unlock()
	return s.latency.Save(s.cfg.StatsPath, s.cfg.StatsSecret)
}

func (s *Service) LoadInterstitial(reason string) contracts.StateSnapshot {
	parsed := adsmodel.LoadReason(reason)
	if parsed == "" {
		parsed = adsmodel.ReasonUserRequested
	}
	return s.submit(adsmodel.Request{
		Kind:    adsmodel.RequestLoadAd,
		Surface: adsmodel.SurfaceInterstitial,
		Reason:  parsed,
	})
}

func (s *Service) ShowInterstitial() (contracts.StateSnapshot, bool) {
	granted := false
	snapshot := s.submit(adsmodel.Request{
		Kind:       adsmodel.RequestPresentAd,
		Surface:    adsmodel.SurfaceInterstitial,
		Completion: func(ok bool) { granted = ok },
	})
	return snapshot, granted
}

func (s *Service) LoadRewardedVideo(presentAfterLoad bool) contracts.StateSnapshot {
	return s.submit(adsmodel.Request{
		Kind:             adsmodel.RequestLoadAd,
		Surface:          adsmodel.SurfaceRewardedVideo,
		Reason:           adsmodel.ReasonUserRequested,
		PresentAfterLoad: presentAfterLoad,
	})
}

func (s *Service) ShowRewardedVideo() contracts.StateSnapshot {
	return s.submit(adsmodel.Request{
		Kind:    adsmodel.RequestPresentAd,
		Surface: adsmodel.SurfaceRewardedVideo,
	})
}

func (s *Service) RewardEarned() contracts.StateSnapshot {
	return s.submit(adsmodel.Request{Kind: adsmodel.RequestRewardEarned})
}

func (s *Service) Status() contracts.StateSnapshot {
	return contracts.StateSnapshot{
		Tunnel: s.tunnel.Status(),
		State:  s.module.Scheduler.State(),
	}
}

// SetTunnelStatus feeds the external connectivity value; in a production
// build this arrives from the connection manager, not RPC.
func (s *Service) SetTunnelStatus(status string) (contracts.StateSnapshot, error) {
	parsed, err := adsmodel.ParseTunnelStatus(status)
	if err != nil {
		return contracts.StateSnapshot{}, err
	}
	s.tunnel.Set(parsed)
	s.log.Info("tunnel status updated", "status", string(parsed))
	return s.Status(), nil
}

func (s *Service) RecentRewards(limit int) ([]contracts.RewardRecord, error) {
	rows, err := s.ledger.Recent(limit)
	if err != nil {
		return nil, err
	}
	out := make([]contracts.RewardRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, contracts.RewardRecord{
			ID:       row.ID,
			Amount:   row.Amount,
			Source:   row.Source,
			EarnedAt: row.EarnedAt,
		})
	}
	return out, nil
}

func (s *Service) Notifications(fromSeq int64) []contracts.Notification {
	replay, _, cancel := s.hub.Subscribe(fromSeq)
	cancel()
	out := make([]contracts.Notification, 0, len(replay))
	for _, event := range replay {
		out = append(out, toNotification(event))
	}
	return out
}

// SubscribeNotifications replays events after fromSeq and streams live ones
// until cancel is called.
func (s *Service) SubscribeNotifications(fromSeq int64) ([]contracts.Notification, <-chan contracts.Notification, func()) {
	replay, live, cancel := s.hub.Subscribe(fromSeq)
	out := make(chan contracts.Notification, cap(live))
	go func() {
		defer close(out)
		for event := range live {
			out <- toNotification(event)
		}
	}()
	converted := make([]contracts.Notification, 0, len(replay))
	for _, event := range replay {
		converted = append(converted, toNotification(event))
	}
	return converted, out, cancel
}

func toNotification(event app.NotificationEvent) contracts.Notification {
	snapshot, _ := event.Payload.(contracts.StateSnapshot)
	return contracts.Notification{
		Seq:       event.Seq,
		Method:    event.Method,
		Payload:   snapshot,
		Timestamp: event.Timestamp,
	}
}

// SetLoadConditionBlocked configures the admission-blocking probe; used by
// tests and the mock SDK mode.
func (s *Service) SetLoadConditionBlocked(message string) {
	s.probe.SetBlocked(message)
}

// Metrics exposes the registered counters for the RPC surface.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// Logger exposes the sanitizing logger shared with the RPC surface.
func (s *Service) Logger() *slog.Logger {
	return s.log
}

func (s *Service) Close() error {
	if err := s.saveLatencyStats(); err != nil {
		s.log.Warn("stats snapshot not saved", "error", err)
	}
	return s.ledger.Close()
}
