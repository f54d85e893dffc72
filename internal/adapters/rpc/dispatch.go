package rpc

import (
	"bytes"
	"encoding/json"
)

const (
	maxRewardListLimit     = 1000
	defaultRewardListLimit = 50
)

type loadInterstitialParams struct {
	Reason string `json:"reason"`
}

type loadRewardedParams struct {
	PresentAfterLoad bool `json:"presentAfterLoad"`
}

type setTunnelParams struct {
	Status string `json:"status"`
}

type rewardsRecentParams struct {
	Limit int `json:"limit"`
}

type notificationsParams struct {
	FromSeq int64 `json:"fromSeq"`
}

type showResult struct {
	Granted bool `json:"granted"`
	Tunnel  any  `json:"tunnel"`
	State   any  `json:"state"`
}

func (s *Server) dispatchRPC(method string, rawParams json.RawMessage) (any, *rpcError) {
	switch method {
	case "health_check":
		return map[string]string{"status": "ok"}, nil

	case "ads.status":
		return s.service.Status(), nil

	case "ads.loadInterstitial":
		var params loadInterstitialParams
		if !decodeParams(rawParams, &params) {
			return nil, invalidParams()
		}
		return s.service.LoadInterstitial(params.Reason), nil

	case "ads.showInterstitial":
		snapshot, granted := s.service.ShowInterstitial()
		return showResult{Granted: granted, Tunnel: snapshot.Tunnel, State: snapshot.State}, nil

	case "ads.loadRewardedVideo":
		var params loadRewardedParams
		if !decodeParams(rawParams, &params) {
			return nil, invalidParams()
		}
		return s.service.LoadRewardedVideo(params.PresentAfterLoad), nil

	case "ads.showRewardedVideo":
		return s.service.ShowRewardedVideo(), nil

	case "ads.rewardEarned":
		return s.service.RewardEarned(), nil

	case "ads.notifications":
		var params notificationsParams
		if !decodeParams(rawParams, &params) {
			return nil, invalidParams()
		}
		return s.service.Notifications(params.FromSeq), nil

	case "tunnel.setStatus":
		var params setTunnelParams
		if !decodeParams(rawParams, &params) || params.Status == "" {
			return nil, invalidParams()
		}
		snapshot, err := s.service.SetTunnelStatus(params.Status)
		if err != nil {
			return nil, &rpcError{Code: -32602, Message: err.Error()}
		}
		return snapshot, nil

	case "rewards.recent":
		var params rewardsRecentParams
		if !decodeParams(rawParams, &params) {
			return nil, invalidParams()
		}
		if params.Limit < 0 || params.Limit > maxRewardListLimit {
			return nil, invalidParams()
		}
		if params.Limit == 0 {
			params.Limit = defaultRewardListLimit
		}
		rows, err := s.service.RecentRewards(params.Limit)
		if err != nil {
			return nil, &rpcError{Code: -32000, Message: err.Error()}
		}
		return rows, nil
	}
	return nil, &rpcError{Code: -32601, Message: "method not found"}
}

// decodeParams accepts absent/null params as the zero value and rejects
// unknown fields.
func decodeParams(raw json.RawMessage, dst any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return false
	}
	return true
}

func invalidParams() *rpcError {
	return &rpcError{Code: -32602, Message: "invalid params"}
}
