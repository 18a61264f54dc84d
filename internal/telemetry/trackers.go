package telemetry

import (
	"net/url"
	"strings"
)

// LocalArchiveScheme prefixes targets served from a private archive.
const LocalArchiveScheme = "local-archive://"

var trackerDescriptions = []struct {
	domain string
	text   string
}{
	{"doubleclick.net", "Part of Google's advertising network. Used for tracking user behavior, ad performance, and remarketing across websites."},
	{"google-analytics.com", "Google's web analytics service that tracks and reports website traffic. It provides insights into user demographics and behavior."},
	{"facebook.com", "The Facebook Pixel is used for conversion tracking, optimization, and remarketing for Facebook ad campaigns."},
	{"criteo.com", "A personalized retargeting company that tracks users' online browsing behavior to serve relevant ads."},
	{"quantserve.com", "An analytics company that provides audience measurement and real-time advertising."},
	{"scorecardresearch.com", "A market research company that studies internet trends and behavior, often associated with Comscore."},
}

const defaultTrackerDescription = "A third-party script or beacon used for analytics, advertising, or tracking user activity."

// TrackerDescription explains what the tracker behind origin does.
func TrackerDescription(origin string) string {
	for _, d := range trackerDescriptions {
		if strings.Contains(origin, d.domain) {
			return d.text
		}
	}
	return defaultTrackerDescription
}

// TargetHostname returns the hostname of a browsing target without a
// leading "www.". Archive targets yield their archived domain.
func TargetHostname(target string) (string, bool) {
	if strings.HasPrefix(target, LocalArchiveScheme) {
		host := strings.TrimPrefix(target, LocalArchiveScheme)
		return host, host != ""
	}
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return strings.TrimPrefix(u.Hostname(), "www."), true
}

// RelevantTo returns the events whose origin mentions host.
func RelevantTo(events []Event, host string) []Event {
	if host == "" {
		return nil
	}
	var out []Event
	for _, ev := range events {
		if strings.Contains(ev.Origin, host) {
			out = append(out, ev)
		}
	}
	return out
}
