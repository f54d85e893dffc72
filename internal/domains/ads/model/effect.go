package model

import (
	"log/slog"
	"time"
)

// EffectKind tags one kind of deferred side effect.
type EffectKind string

const (
	EffectLog      EffectKind = "log"
	EffectTask     EffectKind = "task"
	EffectCallback EffectKind = "callback"
	EffectReward   EffectKind = "reward"
)

// TaskKind names the asynchronous operations the runner knows how to execute.
type TaskKind string

const (
	TaskInitSDK              TaskKind = "init_sdk"
	TaskLoadInterstitial     TaskKind = "load_interstitial"
	TaskLoadRewardedVideo    TaskKind = "load_rewarded_video"
	TaskPresentInterstitial  TaskKind = "present_interstitial"
	TaskPresentRewardedVideo TaskKind = "present_rewarded_video"
)

// LogEffect descriptor for a structured log line.
type LogEffect struct {
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// CallbackEffect invokes a caller-supplied completion with the decision value.
type CallbackEffect struct {
	Fn    func(bool)
	Value bool
}

// RewardEvent is dispatched fire-and-forget into the rewards ledger.
type RewardEvent struct {
	Amount   int64     `json:"amount"`
	Source   string    `json:"source"`
	EarnedAt time.Time `json:"earned_at"`
}

// Effect is a plain-data description of work to be executed outside the
// transition function. Exactly one of the payload fields matching Kind is set.
type Effect struct {
	Kind EffectKind

	Log      LogEffect
	Task     TaskKind
	FollowUp *Request // init task only: load replayed on success
	Callback CallbackEffect
	Reward   RewardEvent
}

func NewLogEffect(level slog.Level, msg string, attrs ...slog.Attr) Effect {
	return Effect{Kind: EffectLog, Log: LogEffect{Level: level, Message: msg, Attrs: attrs}}
}

func NewTaskEffect(task TaskKind) Effect {
	return Effect{Kind: EffectTask, Task: task}
}

func NewInitTaskEffect(followUp *Request) Effect {
	return Effect{Kind: EffectTask, Task: TaskInitSDK, FollowUp: followUp}
}

func NewCallbackEffect(fn func(bool), value bool) Effect {
	return Effect{Kind: EffectCallback, Callback: CallbackEffect{Fn: fn, Value: value}}
}

func NewRewardEffect(event RewardEvent) Effect {
	return Effect{Kind: EffectReward, Reward: event}
}
