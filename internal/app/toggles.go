package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/config"
)

// Toggles are the simulated privacy switches. None of them change how
// events are generated.
type Toggles struct {
	VPNRegion            string `json:"vpnRegion"`
	TorMode              bool   `json:"torMode"`
	AirgapRelay          bool   `json:"airgapRelay"`
	GoogleSandbox        bool   `json:"googleSandbox"`
	UnfilteredSearch     bool   `json:"unfilteredSearch"`
	URLStripping         bool   `json:"urlStripping"`
	WebRTCLeakProtection bool   `json:"webrtcLeakProtection"`
	CanvasProtection     bool   `json:"canvasProtection"`
	RefererPolicy        string `json:"refererPolicy"`
}

func defaultToggles(vpnRegion string) Toggles {
	return Toggles{
		VPNRegion:            vpnRegion,
		GoogleSandbox:        true,
		UnfilteredSearch:     true,
		URLStripping:         true,
		WebRTCLeakProtection: true,
		CanvasProtection:     true,
		RefererPolicy:        "secure",
	}
}

// Toggle names a boolean switch for SetToggle.
type Toggle string

const (
	ToggleTorMode              Toggle = "tor"
	ToggleAirgapRelay          Toggle = "airgap-relay"
	ToggleGoogleSandbox        Toggle = "google-sandbox"
	ToggleUnfilteredSearch     Toggle = "unfiltered-search"
	ToggleURLStripping         Toggle = "url-stripping"
	ToggleWebRTCLeakProtection Toggle = "webrtc-leak-protection"
	ToggleCanvasProtection     Toggle = "canvas-protection"
)

func (t *Toggles) field(name Toggle) *bool {
	switch name {
	case ToggleTorMode:
		return &t.TorMode
	case ToggleAirgapRelay:
		return &t.AirgapRelay
	case ToggleGoogleSandbox:
		return &t.GoogleSandbox
	case ToggleUnfilteredSearch:
		return &t.UnfilteredSearch
	case ToggleURLStripping:
		return &t.URLStripping
	case ToggleWebRTCLeakProtection:
		return &t.WebRTCLeakProtection
	case ToggleCanvasProtection:
		return &t.CanvasProtection
	}
	return nil
}

// Toggles returns the current switch settings.
func (c *Controller) Toggles() Toggles {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toggles
}

// SetToggle flips a named switch.
func (c *Controller) SetToggle(name Toggle, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.toggles.field(name)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownToggle, name)
	}
	*f = enabled
	c.logger.Info("toggle changed", zap.String("toggle", string(name)), zap.Bool("enabled", enabled))
	return nil
}

// SetVPNRegion selects the simulated VPN exit. The region is locked while
// Tor mode is active.
func (c *Controller) SetVPNRegion(region string) error {
	canonical, ok := config.LookupVPNRegion(region)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVPNRegion, region)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.toggles.TorMode {
		return ErrVPNLockedByTor
	}
	c.toggles.VPNRegion = canonical
	c.logger.Info("vpn region changed", zap.String("region", canonical))
	return nil
}

// SetRefererPolicy sets the purifier's referer policy.
func (c *Controller) SetRefererPolicy(policy string) error {
	switch policy {
	case "secure", "strict", "none":
	default:
		return fmt.Errorf("%w, got %q", ErrRefererPolicy, policy)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.toggles.RefererPolicy = policy
	return nil
}
