package model

import (
	"errors"
	"fmt"
)

// TunnelStatus mirrors the connection manager's current connectivity value.
// The ads core never writes it; it is read once per decision.
type TunnelStatus string

const (
	TunnelInvalid       TunnelStatus = "invalid"
	TunnelDisconnected  TunnelStatus = "disconnected"
	TunnelConnecting    TunnelStatus = "connecting"
	TunnelConnected     TunnelStatus = "connected"
	TunnelReasserting   TunnelStatus = "reasserting"
	TunnelDisconnecting TunnelStatus = "disconnecting"
	TunnelRestarting    TunnelStatus = "restarting"
	TunnelNotConnected  TunnelStatus = "not_connected"
)

var ErrInvalidTunnelStatus = errors.New("invalid tunnel status")

func ParseTunnelStatus(raw string) (TunnelStatus, error) {
	switch TunnelStatus(raw) {
	case TunnelInvalid, TunnelDisconnected, TunnelConnecting, TunnelConnected,
		TunnelReasserting, TunnelDisconnecting, TunnelRestarting, TunnelNotConnected:
		return TunnelStatus(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTunnelStatus, raw)
}

// GateStage is the lifecycle stage of the consent/SDK-init gate.
type GateStage string

const (
	GateAbsent    GateStage = "absent"
	GatePending   GateStage = "pending"
	GateSucceeded GateStage = "succeeded"
	GateFailed    GateStage = "failed"
)

// InitError tags why SDK initialization completed unsuccessfully.
type InitError string

const (
	InitErrNone            InitError = ""
	InitErrNoAdaptersReady InitError = "no_adapters_ready"
)

// ConsentGateStatus holds the gate stage plus the failure tag when Stage is
// GateFailed. Stage only ever moves absent→pending→succeeded/failed; a failed
// gate is re-armed from scratch by the next load request.
type ConsentGateStatus struct {
	Stage GateStage `json:"stage"`
	Err   InitError `json:"err,omitempty"`
}

// SurfaceKind identifies an independently tracked ad slot.
type SurfaceKind string

const (
	SurfaceInterstitial  SurfaceKind = "interstitial"
	SurfaceRewardedVideo SurfaceKind = "rewarded_video"
)

// PresentationStatus is the payload of a load-succeeded surface status.
type PresentationStatus string

const (
	PresentationNotPresented PresentationStatus = "not_presented"
	PresentationPresenting   PresentationStatus = "presenting"
	PresentationDismissed    PresentationStatus = "dismissed"
	PresentationFatalError   PresentationStatus = "fatal_error"
)

// LoadState is the outer tag of a surface status.
type LoadState string

const (
	LoadStateNone      LoadState = "no_ads_loaded"
	LoadStateFailed    LoadState = "load_failed"
	LoadStateSucceeded LoadState = "load_succeeded"
)

// SurfaceStatus is the observable status of one ad surface. Presentation is
// meaningful only when Load is LoadStateSucceeded.
type SurfaceStatus struct {
	Load         LoadState          `json:"load"`
	Presentation PresentationStatus `json:"presentation,omitempty"`
}

func NoAdsLoaded() SurfaceStatus {
	return SurfaceStatus{Load: LoadStateNone}
}

func LoadFailed() SurfaceStatus {
	return SurfaceStatus{Load: LoadStateFailed}
}

func LoadSucceeded(p PresentationStatus) SurfaceStatus {
	return SurfaceStatus{Load: LoadStateSucceeded, Presentation: p}
}

// String renders the status the way it is logged, e.g. "load_succeeded(dismissed)".
func (s SurfaceStatus) String() string {
	if s.Load == LoadStateSucceeded {
		return fmt.Sprintf("%s(%s)", s.Load, s.Presentation)
	}
	return string(s.Load)
}

// CoreState is the aggregate owned and mutated exclusively by the scheduler.
type CoreState struct {
	Gate                     ConsentGateStatus `json:"gate"`
	Interstitial             SurfaceStatus     `json:"interstitial"`
	RewardedVideo            SurfaceStatus     `json:"rewarded_video"`
	PresentRewardedAfterLoad bool              `json:"present_rewarded_after_load"`
}

// NewCoreState returns the session-start state with every field at its
// "nothing happened yet" variant.
func NewCoreState() CoreState {
	return CoreState{
		Gate:          ConsentGateStatus{Stage: GateAbsent},
		Interstitial:  NoAdsLoaded(),
		RewardedVideo: NoAdsLoaded(),
	}
}

// Surface returns the status of the named surface.
func (c CoreState) Surface(kind SurfaceKind) SurfaceStatus {
	if kind == SurfaceRewardedVideo {
		return c.RewardedVideo
	}
	return c.Interstitial
}

// SetSurface overwrites the named surface's status.
func (c *CoreState) SetSurface(kind SurfaceKind, st SurfaceStatus) {
	if kind == SurfaceRewardedVideo {
		c.RewardedVideo = st
		return
	}
	c.Interstitial = st
}
