package usecase

import (
	"log/slog"
	"sync"
	"time"

	adsmodel "adgate/go-client/internal/domains/ads/model"
	adspolicy "adgate/go-client/internal/domains/ads/policy"
	adsports "adgate/go-client/internal/domains/ads/ports"
)

// RewardConfig fixes the amount and source tag attached to every dispatched
// reward event.
type RewardConfig struct {
	Amount int64
	Source string
}

// Scheduler is the single serialized decision point of the ads core. Every
// request is processed to completion under one lock: the transition reads the
// collaborator snapshots it needs, mutates CoreState, and returns the effect
// descriptors for the runner. No I/O happens inside a transition.
type Scheduler struct {
	tunnel adsports.TunnelStatusSource
	probe  adsports.LoadConditionProbe
	reward RewardConfig
	now    func() time.Time

	mu    sync.Mutex
	state adsmodel.CoreState
}

// NewScheduler creates a scheduler at the session-start state.
func NewScheduler(tunnel adsports.TunnelStatusSource, probe adsports.LoadConditionProbe, reward RewardConfig) *Scheduler {
	return &Scheduler{
		tunnel: tunnel,
		probe:  probe,
		reward: reward,
		now:    func() time.Time { return time.Now().UTC() },
		state:  adsmodel.NewCoreState(),
	}
}

// State returns a snapshot of the current aggregate.
func (s *Scheduler) State() adsmodel.CoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit processes one request atomically and returns the new state snapshot
// plus the effects the runner must execute, in order.
func (s *Scheduler) Submit(req adsmodel.Request) (adsmodel.CoreState, []adsmodel.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var effects []adsmodel.Effect
	s.apply(req, &effects)
	return s.state, effects
}

// apply dispatches one request. Internally chained requests (init follow-up
// replay, auto-present-on-load, load degrading to present) re-enter here
// within the same Submit, so chained admission still sees consistent state.
func (s *Scheduler) apply(req adsmodel.Request, effects *[]adsmodel.Effect) {
	switch req.Kind {
	case adsmodel.RequestInitSDK:
		s.applyInit(nil, effects)
	case adsmodel.RequestInitCompleted:
		s.applyInitCompleted(req, effects)
	case adsmodel.RequestLoadAd:
		s.applyLoad(req, effects)
	case adsmodel.RequestPresentAd:
		s.applyPresent(req, effects)
	case adsmodel.RequestPresentCompleted:
		s.applyPresentCompleted(req, effects)
	case adsmodel.RequestStatusChanged:
		s.applyStatusChanged(req, effects)
	case adsmodel.RequestRewardEarned:
		s.applyRewardEarned(effects)
	default:
		*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelWarn,
			"dropping unknown ads request", slog.String("kind", string(req.Kind))))
	}
}

// applyInit arms the consent/SDK-init gate. followUp, when non-nil, is the
// load request replayed if this init attempt eventually succeeds.
func (s *Scheduler) applyInit(followUp *adsmodel.Request, effects *[]adsmodel.Effect) {
	if err := s.probe.CheckLoadCondition(); err != nil {
		*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelWarn,
			"ad sdk init blocked", slog.String("reason", err.Error())))
		return
	}
	if s.state.Gate.Stage == adsmodel.GatePending {
		return
	}
	s.state.Gate = adsmodel.ConsentGateStatus{Stage: adsmodel.GatePending}
	*effects = append(*effects,
		adsmodel.NewInitTaskEffect(followUp),
		adsmodel.NewLogEffect(slog.LevelInfo, "ad sdk init started"))
}

func (s *Scheduler) applyInitCompleted(req adsmodel.Request, effects *[]adsmodel.Effect) {
	if req.Outcome.Err == adsmodel.InitErrNone {
		s.state.Gate = adsmodel.ConsentGateStatus{Stage: adsmodel.GateSucceeded}
		*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelInfo, "ad sdk initialized"))
		if req.FollowUp != nil {
			s.apply(*req.FollowUp, effects)
		}
		return
	}
	s.state.Gate = adsmodel.ConsentGateStatus{Stage: adsmodel.GateFailed, Err: req.Outcome.Err}
	*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelError,
		"ad sdk init failed", slog.String("err", string(req.Outcome.Err))))
}

func (s *Scheduler) applyLoad(req adsmodel.Request, effects *[]adsmodel.Effect) {
	if err := s.probe.CheckLoadCondition(); err != nil {
		*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelWarn,
			"ad load blocked", slog.String("surface", string(req.Surface)),
			slog.String("reason", err.Error())))
		return
	}

	switch s.state.Gate.Stage {
	case adsmodel.GateSucceeded:
		// fall through to connectivity and admission
	case adsmodel.GatePending:
		// One init in flight already; only the load that armed it is chained.
		return
	default:
		followUp := req
		followUp.FollowUp = nil
		s.applyInit(&followUp, effects)
		return
	}

	if !adspolicy.Untunneled(s.tunnel.Status()) {
		return
	}

	if req.Surface == adsmodel.SurfaceRewardedVideo {
		s.state.PresentRewardedAfterLoad = req.PresentAfterLoad
	}

	status := s.state.Surface(req.Surface)
	if req.Surface == adsmodel.SurfaceRewardedVideo &&
		adspolicy.PresentAdmitted(status) && s.state.PresentRewardedAfterLoad {
		// An ad is already waiting; consume the flag and present now.
		s.state.PresentRewardedAfterLoad = false
		s.apply(adsmodel.Request{Kind: adsmodel.RequestPresentAd, Surface: adsmodel.SurfaceRewardedVideo}, effects)
		return
	}
	if !adspolicy.LoadAdmitted(status) {
		*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelInfo,
			"ad load rejected", slog.String("surface", string(req.Surface)),
			slog.String("status", status.String()),
			slog.String("reason", string(req.Reason))))
		return
	}

	*effects = append(*effects,
		adsmodel.NewTaskEffect(loadTaskFor(req.Surface)),
		adsmodel.NewLogEffect(slog.LevelInfo, "ad load requested",
			slog.String("surface", string(req.Surface)),
			slog.String("reason", string(req.Reason))))
}

func (s *Scheduler) applyPresent(req adsmodel.Request, effects *[]adsmodel.Effect) {
	if !adspolicy.Untunneled(s.tunnel.Status()) {
		if req.Completion != nil {
			*effects = append(*effects, adsmodel.NewCallbackEffect(req.Completion, false))
		}
		return
	}
	status := s.state.Surface(req.Surface)
	if !adspolicy.PresentAdmitted(status) {
		*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelWarn,
			"ad present denied", slog.String("surface", string(req.Surface)),
			slog.String("status", status.String())))
		if req.Completion != nil {
			*effects = append(*effects, adsmodel.NewCallbackEffect(req.Completion, false))
		}
		return
	}
	// The grant callback is ordered ahead of the present task.
	if req.Completion != nil {
		*effects = append(*effects, adsmodel.NewCallbackEffect(req.Completion, true))
	}
	*effects = append(*effects, adsmodel.NewTaskEffect(presentTaskFor(req.Surface)))
}

func (s *Scheduler) applyPresentCompleted(req adsmodel.Request, effects *[]adsmodel.Effect) {
	if req.PresentOK {
		*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelInfo,
			"will present ad", slog.String("surface", string(req.Surface))))
		return
	}
	*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelError,
		"ad present failed", slog.String("surface", string(req.Surface)),
		slog.String("err", req.PresentErr)))
}

func (s *Scheduler) applyStatusChanged(req adsmodel.Request, effects *[]adsmodel.Effect) {
	s.state.SetSurface(req.Surface, req.Status)
	*effects = append(*effects, adsmodel.NewLogEffect(slog.LevelInfo,
		"ad surface status changed", slog.String("surface", string(req.Surface)),
		slog.String("status", req.Status.String())))

	if req.Surface == adsmodel.SurfaceRewardedVideo &&
		s.state.PresentRewardedAfterLoad &&
		adspolicy.PresentAdmitted(req.Status) {
		s.state.PresentRewardedAfterLoad = false
		s.apply(adsmodel.Request{Kind: adsmodel.RequestPresentAd, Surface: adsmodel.SurfaceRewardedVideo}, effects)
	}
}

func (s *Scheduler) applyRewardEarned(effects *[]adsmodel.Effect) {
	event := adsmodel.RewardEvent{
		Amount:   s.reward.Amount,
		Source:   s.reward.Source,
		EarnedAt: s.now(),
	}
	*effects = append(*effects,
		adsmodel.NewRewardEffect(event),
		adsmodel.NewLogEffect(slog.LevelInfo, "user earned reward",
			slog.Int64("amount", event.Amount),
			slog.String("source", event.Source)))
}

func loadTaskFor(kind adsmodel.SurfaceKind) adsmodel.TaskKind {
	if kind == adsmodel.SurfaceRewardedVideo {
		return adsmodel.TaskLoadRewardedVideo
	}
	return adsmodel.TaskLoadInterstitial
}

func presentTaskFor(kind adsmodel.SurfaceKind) adsmodel.TaskKind {
	if kind == adsmodel.SurfaceRewardedVideo {
		return adsmodel.TaskPresentRewardedVideo
	}
	return adsmodel.TaskPresentInterstitial
}
