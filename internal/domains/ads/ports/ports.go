package ports

import (
	"context"

	adsmodel "adgate/go-client/internal/domains/ads/model"
)

// PresentationHandle is the opaque top-most presentation context an ad is
// shown against. Its concrete type belongs to the owning shell.
type PresentationHandle any

// RewardMetadata is produced by the reward-tracking collaborator and passed
// through to the rewarded-video adapter's load call.
type RewardMetadata map[string]string

// TunnelStatusSource exposes the connection manager's current connectivity.
// The ads core snapshots the value at the moment of decision; it never
// subscribes and never writes.
type TunnelStatusSource interface {
	Status() adsmodel.TunnelStatus
}

// LoadConditionProbe blocks all SDK/ad operations while a precondition holds,
// e.g. consent is not collectible yet. A nil return admits the request.
type LoadConditionProbe interface {
	CheckLoadCondition() error
}

// SDKInitializer performs advertising SDK bring-up and reports how many
// mediation adapters came up ready.
type SDKInitializer interface {
	Initialize(ctx context.Context) (readyAdapters int, err error)
}

// InterstitialAdapter is the native interstitial surface. Status updates are
// pushed back into the scheduler by the adapter's owner, never polled.
type InterstitialAdapter interface {
	Load(ctx context.Context)
	Present(ctx context.Context, handle PresentationHandle) error
}

// RewardedVideoAdapter is the native rewarded-video surface.
type RewardedVideoAdapter interface {
	Load(ctx context.Context, reward RewardMetadata)
	Present(ctx context.Context, handle PresentationHandle) error
}

// RewardMetadataSource supplies the reward payload attached to rewarded-video
// load calls.
type RewardMetadataSource interface {
	CurrentRewardMetadata() RewardMetadata
}

// PresentationContextSource resolves the current top-most presentation
// context at the moment a present task runs.
type PresentationContextSource interface {
	CurrentTopContext() PresentationHandle
}

// RewardsStore receives earned-reward events fire-and-forget; failures are
// never surfaced to the ads core.
type RewardsStore interface {
	Dispatch(event adsmodel.RewardEvent)
}
