package config

import "strings"

// VPNRegions lists the simulated exit regions a user may select.
var VPNRegions = []string{"US-West", "US-East", "EU-Central", "EU-West", "Asia-Pacific", "South America"}

// DefaultTrackerOrigins returns the third-party domains the event generator
// attributes spoofed queries to.
func DefaultTrackerOrigins() []string {
	return []string{
		// Ad networks
		"doubleclick.net",
		"track.adform.net",
		"criteo.com",
		"amazon-adsystem.com",

		// Analytics & measurement
		"google-analytics.com",
		"app-measurement.com",
		"scorecardresearch.com",
		"quantserve.com",

		// Social pixels
		"facebook.com",
	}
}

// LookupVPNRegion returns the canonical spelling of region, matched
// case-insensitively against VPNRegions.
func LookupVPNRegion(region string) (string, bool) {
	for _, r := range VPNRegions {
		if strings.EqualFold(r, region) {
			return r, true
		}
	}
	return "", false
}
