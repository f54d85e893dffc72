// Package contracts defines the daemon-facing service boundary consumed by
// the RPC surface.
package contracts

import (
	"time"

	adsmodel "adgate/go-client/internal/domains/ads/model"
)

// StateSnapshot is the externally visible view after one transition.
type StateSnapshot struct {
	Tunnel adsmodel.TunnelStatus `json:"tunnel"`
	State  adsmodel.CoreState    `json:"state"`
}

// RewardRecord is one persisted ledger row.
type RewardRecord struct {
	ID       string    `json:"id"`
	Amount   int64     `json:"amount"`
	Source   string    `json:"source"`
	EarnedAt time.Time `json:"earned_at"`
}

// Notification is one published state-change event.
type Notification struct {
	Seq       int64         `json:"seq"`
	Method    string        `json:"method"`
	Payload   StateSnapshot `json:"payload"`
	Timestamp time.Time     `json:"timestamp"`
}

// AdsDaemonService is what the RPC server dispatches into.
type AdsDaemonService interface {
	LoadInterstitial(reason string) StateSnapshot
	ShowInterstitial() (StateSnapshot, bool)
	LoadRewardedVideo(presentAfterLoad bool) StateSnapshot
	ShowRewardedVideo() StateSnapshot
	RewardEarned() StateSnapshot
	Status() StateSnapshot
	SetTunnelStatus(status string) (StateSnapshot, error)
	RecentRewards(limit int) ([]RewardRecord, error)
	Notifications(fromSeq int64) []Notification
	SubscribeNotifications(fromSeq int64) ([]Notification, <-chan Notification, func())
}
