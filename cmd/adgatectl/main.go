// adgatectl is the operator CLI for a running adgated daemon. Every command
// is a single JSON-RPC call whose result is printed as indented JSON.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	daemonAddr string
	rpcToken   string
	timeout    time.Duration
)

var (
	loadReason       string
	presentAfterLoad bool
	rewardsLimit     int
	notifyFromSeq    int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "adgatectl",
		Short:         "Control a running adgated daemon over JSON-RPC",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&daemonAddr, "addr", "http://127.0.0.1:8790", "daemon base URL")
	rootCmd.PersistentFlags().StringVar(&rpcToken, "token", os.Getenv("ADGATE_RPC_TOKEN"), "RPC token (defaults to ADGATE_RPC_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current ads core state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call("ads.status", nil)
		},
	}

	loadCmd := &cobra.Command{
		Use:   "load {interstitial|rewarded}",
		Short: "Request an ad load for a surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "interstitial":
				return call("ads.loadInterstitial", map[string]any{"reason": loadReason})
			case "rewarded":
				return call("ads.loadRewardedVideo", map[string]any{"presentAfterLoad": presentAfterLoad})
			default:
				return fmt.Errorf("unknown surface %q", args[0])
			}
		},
	}
	loadCmd.Flags().StringVar(&loadReason, "reason", "user_requested", "load reason for interstitial")
	loadCmd.Flags().BoolVar(&presentAfterLoad, "present-after-load", false, "auto-present the rewarded video once loaded")

	showCmd := &cobra.Command{
		Use:   "show {interstitial|rewarded}",
		Short: "Request presentation of a loaded ad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "interstitial":
				return call("ads.showInterstitial", nil)
			case "rewarded":
				return call("ads.showRewardedVideo", nil)
			default:
				return fmt.Errorf("unknown surface %q", args[0])
			}
		},
	}

	rewardCmd := &cobra.Command{
		Use:   "reward",
		Short: "Report an earned reward from the rewarded video",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call("ads.rewardEarned", nil)
		},
	}

	tunnelCmd := &cobra.Command{
		Use:   "tunnel <status>",
		Short: "Set the external tunnel connectivity status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call("tunnel.setStatus", map[string]any{"status": args[0]})
		},
	}

	rewardsCmd := &cobra.Command{
		Use:   "rewards",
		Short: "List recently persisted reward events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call("rewards.recent", map[string]any{"limit": rewardsLimit})
		},
	}
	rewardsCmd.Flags().IntVar(&rewardsLimit, "limit", 20, "maximum events to list")

	notificationsCmd := &cobra.Command{
		Use:   "notifications",
		Short: "Replay recent state-change notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call("ads.notifications", map[string]any{"fromSeq": notifyFromSeq})
		},
	}
	notificationsCmd.Flags().Int64Var(&notifyFromSeq, "from-seq", 0, "replay events after this sequence number")

	rootCmd.AddCommand(statusCmd, loadCmd, showCmd, rewardCmd, tunnelCmd, rewardsCmd, notificationsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rpcEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcReply struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(method string, params any) error {
	body, err := json.Marshal(rpcEnvelope{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, daemonAddr+"/rpc", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if rpcToken != "" {
		req.Header.Set("X-Adgate-RPC-Token", rpcToken)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon returned %s", resp.Status)
	}

	var reply rpcReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return err
	}
	if reply.Error != nil {
		return fmt.Errorf("%s (code %d)", reply.Error.Message, reply.Error.Code)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, reply.Result, "", "  "); err != nil {
		return err
	}
	fmt.Println(pretty.String())
	return nil
}
