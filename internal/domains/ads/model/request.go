package model

// RequestKind names every entry into the scheduler. Completed effects report
// back as requests with one of the *Completed kinds.
type RequestKind string

const (
	RequestInitSDK          RequestKind = "init_sdk"
	RequestInitCompleted    RequestKind = "init_completed"
	RequestLoadAd           RequestKind = "load_ad"
	RequestPresentAd        RequestKind = "present_ad"
	RequestPresentCompleted RequestKind = "present_completed"
	RequestStatusChanged    RequestKind = "status_changed"
	RequestRewardEarned     RequestKind = "reward_earned"
)

// LoadReason records what prompted a load request; carried in logs only.
type LoadReason string

const (
	ReasonAppInitialized     LoadReason = "app_initialized"
	ReasonAppForegrounded    LoadReason = "app_foregrounded"
	ReasonTunnelDisconnected LoadReason = "tunnel_disconnected"
	ReasonUserRequested      LoadReason = "user_requested"
)

// InitOutcome is the adapter-readiness outcome reported by the init task.
type InitOutcome struct {
	Err InitError // InitErrNone on success
}

// Request is the scheduler's input vocabulary. Fields beyond Kind are
// populated per kind:
//
//	init_sdk:          (none)
//	init_completed:    Outcome, FollowUp
//	load_ad:           Surface, Reason, PresentAfterLoad (rewarded video only)
//	present_ad:        Surface, Completion (interstitial only)
//	present_completed: Surface, PresentOK, PresentErr
//	status_changed:    Surface, Status
//	reward_earned:     (none)
type Request struct {
	Kind             RequestKind
	Surface          SurfaceKind
	Reason           LoadReason
	PresentAfterLoad bool
	Outcome          InitOutcome
	Status           SurfaceStatus
	PresentOK        bool
	PresentErr       string

	// FollowUp is the load request replayed when a chained init succeeds.
	FollowUp *Request

	// Completion receives the present grant/deny decision synchronously.
	Completion func(granted bool)
}
