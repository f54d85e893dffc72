package adapters

import (
	"context"
	"log/slog"

	adsmodel "adgate/go-client/internal/domains/ads/model"
	adspolicy "adgate/go-client/internal/domains/ads/policy"
	adsports "adgate/go-client/internal/domains/ads/ports"
)

// Submitter is the scheduler's single entry point as the runner sees it.
type Submitter interface {
	Submit(req adsmodel.Request) (adsmodel.CoreState, []adsmodel.Effect)
}

// Collaborators bundles the external ports the runner drives tasks against.
type Collaborators struct {
	Tunnel       adsports.TunnelStatusSource
	Initializer  adsports.SDKInitializer
	Interstitial adsports.InterstitialAdapter
	Rewarded     adsports.RewardedVideoAdapter
	RewardMeta   adsports.RewardMetadataSource
	Contexts     adsports.PresentationContextSource
	Rewards      adsports.RewardsStore
}

// Observer is notified after every transition the runner feeds back, so the
// owning shell can watch state without polling. May be nil.
type Observer func(state adsmodel.CoreState)

// Runner executes effect descriptors. Logs, callbacks and reward dispatches
// run synchronously in order; tasks run on their own goroutines and report
// completion as new requests through the scheduler entry point.
type Runner struct {
	log      *slog.Logger
	sched    Submitter
	collab   Collaborators
	observer Observer

	// OnEffect, when set, is invoked for every executed effect.
	OnEffect func(kind adsmodel.EffectKind)
}

func NewRunner(log *slog.Logger, sched Submitter, collab Collaborators, observer Observer) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{log: log, sched: sched, collab: collab, observer: observer}
}

// Run executes the effect list produced by one transition.
func (r *Runner) Run(ctx context.Context, effects []adsmodel.Effect) {
	for _, effect := range effects {
		if r.OnEffect != nil {
			r.OnEffect(effect.Kind)
		}
		switch effect.Kind {
		case adsmodel.EffectLog:
			r.log.LogAttrs(ctx, effect.Log.Level, effect.Log.Message, effect.Log.Attrs...)
		case adsmodel.EffectCallback:
			if effect.Callback.Fn != nil {
				effect.Callback.Fn(effect.Callback.Value)
			}
		case adsmodel.EffectReward:
			r.collab.Rewards.Dispatch(effect.Reward)
		case adsmodel.EffectTask:
			task := effect
			go r.runTask(ctx, task)
		}
	}
}

// Feed submits a request and runs its effects; task completions re-enter here.
func (r *Runner) Feed(ctx context.Context, req adsmodel.Request) adsmodel.CoreState {
	state, effects := r.sched.Submit(req)
	if r.observer != nil {
		r.observer(state)
	}
	r.Run(ctx, effects)
	return state
}

func (r *Runner) runTask(ctx context.Context, effect adsmodel.Effect) {
	switch effect.Task {
	case adsmodel.TaskInitSDK:
		r.runInit(ctx, effect.FollowUp)
	case adsmodel.TaskLoadInterstitial:
		r.collab.Interstitial.Load(ctx)
	case adsmodel.TaskLoadRewardedVideo:
		r.collab.Rewarded.Load(ctx, r.collab.RewardMeta.CurrentRewardMetadata())
	case adsmodel.TaskPresentInterstitial:
		err := r.collab.Interstitial.Present(ctx, r.collab.Contexts.CurrentTopContext())
		r.reportPresent(ctx, adsmodel.SurfaceInterstitial, err)
	case adsmodel.TaskPresentRewardedVideo:
		err := r.collab.Rewarded.Present(ctx, r.collab.Contexts.CurrentTopContext())
		r.reportPresent(ctx, adsmodel.SurfaceRewardedVideo, err)
	}
}

// runInit inspects connectivity once; bring-up happens only while no tunnel
// extension is running, otherwise the task ends with no outcome and the gate
// stays pending until the next session.
func (r *Runner) runInit(ctx context.Context, followUp *adsmodel.Request) {
	if !adspolicy.InitAllowed(r.collab.Tunnel.Status()) {
		return
	}
	outcome := adsmodel.InitOutcome{}
	ready, err := r.collab.Initializer.Initialize(ctx)
	if err != nil || ready == 0 {
		outcome.Err = adsmodel.InitErrNoAdaptersReady
	}
	r.Feed(ctx, adsmodel.Request{
		Kind:     adsmodel.RequestInitCompleted,
		Outcome:  outcome,
		FollowUp: followUp,
	})
}

func (r *Runner) reportPresent(ctx context.Context, surface adsmodel.SurfaceKind, err error) {
	req := adsmodel.Request{
		Kind:      adsmodel.RequestPresentCompleted,
		Surface:   surface,
		PresentOK: err == nil,
	}
	if err != nil {
		req.PresentErr = err.Error()
	}
	r.Feed(ctx, req)
}
