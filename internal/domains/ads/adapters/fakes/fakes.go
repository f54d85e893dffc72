// Package fakes provides deterministic in-process collaborators used by the
// daemon's mock SDK mode and by tests.
package fakes

import (
	"context"
	"errors"
	"sync"

	adsmodel "adgate/go-client/internal/domains/ads/model"
	adsports "adgate/go-client/internal/domains/ads/ports"
)

// TunnelSource holds a settable connectivity value.
type TunnelSource struct {
	mu     sync.RWMutex
	status adsmodel.TunnelStatus
}

func NewTunnelSource(status adsmodel.TunnelStatus) *TunnelSource {
	return &TunnelSource{status: status}
}

func (t *TunnelSource) Status() adsmodel.TunnelStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *TunnelSource) Set(status adsmodel.TunnelStatus) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

// Probe reports a configurable blocking condition.
type Probe struct {
	mu  sync.RWMutex
	err error
}

func (p *Probe) CheckLoadCondition() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *Probe) SetBlocked(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if message == "" {
		p.err = nil
		return
	}
	p.err = errors.New(message)
}

// Initializer reports a fixed number of ready adapters.
type Initializer struct {
	ReadyAdapters int
}

func (i *Initializer) Initialize(ctx context.Context) (int, error) {
	return i.ReadyAdapters, nil
}

// StatusPusher is how fake surface adapters report outcomes back into the
// serialized entry point, the same way native SDK delegates push updates.
type StatusPusher func(surface adsmodel.SurfaceKind, status adsmodel.SurfaceStatus)

// InterstitialAdapter loads instantly and presents without error.
type InterstitialAdapter struct {
	Push       StatusPusher
	PresentErr error

	mu    sync.Mutex
	loads int
}

func (a *InterstitialAdapter) Load(ctx context.Context) {
	a.mu.Lock()
	a.loads++
	a.mu.Unlock()
	a.Push(adsmodel.SurfaceInterstitial, adsmodel.LoadSucceeded(adsmodel.PresentationNotPresented))
}

func (a *InterstitialAdapter) Present(ctx context.Context, handle adsports.PresentationHandle) error {
	if a.PresentErr != nil {
		return a.PresentErr
	}
	a.Push(adsmodel.SurfaceInterstitial, adsmodel.LoadSucceeded(adsmodel.PresentationPresenting))
	return nil
}

func (a *InterstitialAdapter) Loads() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loads
}

// RewardedVideoAdapter loads instantly, remembering the reward payload.
type RewardedVideoAdapter struct {
	Push       StatusPusher
	PresentErr error

	mu         sync.Mutex
	loads      int
	lastReward adsports.RewardMetadata
}

func (a *RewardedVideoAdapter) Load(ctx context.Context, reward adsports.RewardMetadata) {
	a.mu.Lock()
	a.loads++
	a.lastReward = reward
	a.mu.Unlock()
	a.Push(adsmodel.SurfaceRewardedVideo, adsmodel.LoadSucceeded(adsmodel.PresentationNotPresented))
}

func (a *RewardedVideoAdapter) Present(ctx context.Context, handle adsports.PresentationHandle) error {
	if a.PresentErr != nil {
		return a.PresentErr
	}
	a.Push(adsmodel.SurfaceRewardedVideo, adsmodel.LoadSucceeded(adsmodel.PresentationPresenting))
	return nil
}

func (a *RewardedVideoAdapter) Loads() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loads
}

func (a *RewardedVideoAdapter) LastReward() adsports.RewardMetadata {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReward
}

// RewardMetadataSource returns a static payload.
type RewardMetadataSource struct {
	Metadata adsports.RewardMetadata
}

func (s *RewardMetadataSource) CurrentRewardMetadata() adsports.RewardMetadata {
	return s.Metadata
}

// ContextSource returns a static presentation handle.
type ContextSource struct {
	Handle adsports.PresentationHandle
}

func (s *ContextSource) CurrentTopContext() adsports.PresentationHandle {
	return s.Handle
}

// RewardsRecorder captures dispatched reward events.
type RewardsRecorder struct {
	mu     sync.Mutex
	events []adsmodel.RewardEvent
}

func (r *RewardsRecorder) Dispatch(event adsmodel.RewardEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *RewardsRecorder) Events() []adsmodel.RewardEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]adsmodel.RewardEvent(nil), r.events...)
}
