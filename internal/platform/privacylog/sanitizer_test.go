package privacylog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFingerprintsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(WrapHandler(base))

	logger.Info("ad load requested", "device_id", "device-1234", "surface", "interstitial")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := record["device_id"]; ok {
		t.Fatal("plain device_id leaked into log output")
	}
	fp, ok := record["device_id_fp"].(string)
	if !ok || !strings.HasPrefix(fp, "fp_") {
		t.Fatalf("device_id_fp = %v, want fp_ prefix", record["device_id_fp"])
	}
	if record["surface"] != "interstitial" {
		t.Fatal("non-identifier attrs must pass through untouched")
	}
}

func TestHandlerRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("rpc request", "rpc_token", "super-secret")

	if strings.Contains(buf.String(), "super-secret") {
		t.Fatal("secret value leaked into log output")
	}
	if !strings.Contains(buf.String(), redactedValue) {
		t.Fatal("secret value was not redacted")
	}
}

func TestHandlerEnabledDelegates(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewJSONHandler(&buf, nil))
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info level enabled")
	}
}

func TestFingerprintStableWithinBoot(t *testing.T) {
	a := FingerprintID("user-1")
	b := FingerprintID("user-1")
	if a != b {
		t.Fatalf("fingerprint not stable: %q vs %q", a, b)
	}
	if a == FingerprintID("user-2") {
		t.Fatal("distinct identifiers must not collide")
	}
	if FingerprintID("   ") != "" {
		t.Fatal("blank identifier must fingerprint to empty")
	}
}
