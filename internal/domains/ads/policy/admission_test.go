package policy

import (
	"testing"

	adsmodel "adgate/go-client/internal/domains/ads/model"
)

func TestUntunneled(t *testing.T) {
	cases := []struct {
		status adsmodel.TunnelStatus
		want   bool
	}{
		{adsmodel.TunnelInvalid, true},
		{adsmodel.TunnelDisconnected, true},
		{adsmodel.TunnelNotConnected, true},
		{adsmodel.TunnelConnecting, false},
		{adsmodel.TunnelConnected, false},
		{adsmodel.TunnelReasserting, false},
		{adsmodel.TunnelDisconnecting, false},
		{adsmodel.TunnelRestarting, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.status), func(t *testing.T) {
			if got := Untunneled(tc.status); got != tc.want {
				t.Fatalf("untunneled mismatch for %q: got=%v want=%v", tc.status, got, tc.want)
			}
		})
	}
}

func TestInitAllowed(t *testing.T) {
	if !InitAllowed(adsmodel.TunnelInvalid) || !InitAllowed(adsmodel.TunnelDisconnected) {
		t.Fatal("init must be allowed for invalid and disconnected")
	}
	for _, s := range []adsmodel.TunnelStatus{
		adsmodel.TunnelConnecting, adsmodel.TunnelConnected, adsmodel.TunnelReasserting,
		adsmodel.TunnelDisconnecting, adsmodel.TunnelRestarting, adsmodel.TunnelNotConnected,
	} {
		if InitAllowed(s) {
			t.Fatalf("init unexpectedly allowed for %q", s)
		}
	}
}

func TestLoadAdmitted(t *testing.T) {
	cases := []struct {
		name   string
		status adsmodel.SurfaceStatus
		want   bool
	}{
		{"no_ads_loaded", adsmodel.NoAdsLoaded(), true},
		{"load_failed", adsmodel.LoadFailed(), true},
		{"dismissed", adsmodel.LoadSucceeded(adsmodel.PresentationDismissed), true},
		{"fatal_error", adsmodel.LoadSucceeded(adsmodel.PresentationFatalError), true},
		{"not_presented", adsmodel.LoadSucceeded(adsmodel.PresentationNotPresented), false},
		{"presenting", adsmodel.LoadSucceeded(adsmodel.PresentationPresenting), false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := LoadAdmitted(tc.status); got != tc.want {
				t.Fatalf("load admission mismatch for %s: got=%v want=%v", tc.status, got, tc.want)
			}
		})
	}
}

func TestPresentAdmitted(t *testing.T) {
	if !PresentAdmitted(adsmodel.LoadSucceeded(adsmodel.PresentationNotPresented)) {
		t.Fatal("present must be admitted for load_succeeded(not_presented)")
	}
	denied := []adsmodel.SurfaceStatus{
		adsmodel.NoAdsLoaded(),
		adsmodel.LoadFailed(),
		adsmodel.LoadSucceeded(adsmodel.PresentationPresenting),
		adsmodel.LoadSucceeded(adsmodel.PresentationDismissed),
		adsmodel.LoadSucceeded(adsmodel.PresentationFatalError),
	}
	for _, st := range denied {
		if PresentAdmitted(st) {
			t.Fatalf("present unexpectedly admitted for %s", st)
		}
	}
}
