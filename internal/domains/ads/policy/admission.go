package policy

import (
	adsmodel "adgate/go-client/internal/domains/ads/model"
)

// Untunneled collapses the connection manager's status to the binary value
// admission cares about: ad operations are permitted only while no tunnel is
// up or coming up.
func Untunneled(s adsmodel.TunnelStatus) bool {
	switch s {
	case adsmodel.TunnelInvalid, adsmodel.TunnelDisconnected, adsmodel.TunnelNotConnected:
		return true
	case adsmodel.TunnelConnecting, adsmodel.TunnelConnected, adsmodel.TunnelReasserting,
		adsmodel.TunnelDisconnecting, adsmodel.TunnelRestarting:
		return false
	}
	return false
}

// InitAllowed reports whether the init task may perform SDK bring-up under
// the given connectivity. Stricter than Untunneled: bring-up is attempted
// only when no extension process is running at all.
func InitAllowed(s adsmodel.TunnelStatus) bool {
	return s == adsmodel.TunnelInvalid || s == adsmodel.TunnelDisconnected
}

// LoadAdmitted reports whether a load request may issue a new ad fetch for a
// surface currently at st. A fetch is never re-issued while a usable ad is
// loaded or a load is in an unresolved state.
func LoadAdmitted(st adsmodel.SurfaceStatus) bool {
	switch st.Load {
	case adsmodel.LoadStateNone, adsmodel.LoadStateFailed:
		return true
	case adsmodel.LoadStateSucceeded:
		switch st.Presentation {
		case adsmodel.PresentationDismissed, adsmodel.PresentationFatalError:
			return true
		case adsmodel.PresentationNotPresented, adsmodel.PresentationPresenting:
			return false
		}
	}
	return false
}

// PresentAdmitted reports whether a present request may run: permitted only
// for a loaded ad that has not been shown yet.
func PresentAdmitted(st adsmodel.SurfaceStatus) bool {
	return st.Load == adsmodel.LoadStateSucceeded &&
		st.Presentation == adsmodel.PresentationNotPresented
}
