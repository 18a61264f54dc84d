package telemetry

import "github.com/runnerr0/snufulufugus/internal/persona"

// Risk is the severity tier of a fingerprinting query.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Weight is the number of points a query of this tier costs the privacy
// score.
func (r Risk) Weight() int {
	switch r {
	case RiskHigh:
		return 5
	case RiskMedium:
		return 2
	default:
		return 1
	}
}

// Descriptor is one fingerprinting query a tracker may issue. Attr is
// persona.AttrNone for queries answered by a canned value.
type Descriptor struct {
	Query string
	Risk  Risk
	Attr  persona.Attribute
}

// Keyed reports whether the query reads a persona attribute.
func (d Descriptor) Keyed() bool {
	return d.Attr != persona.AttrNone
}

// Catalog lists every query the generator can sample.
var Catalog = []Descriptor{
	{"User Agent", RiskLow, persona.AttrUserAgent},
	{"Canvas Fingerprint", RiskMedium, persona.AttrNone},
	{"WebGL Renderer", RiskMedium, persona.AttrGPU},
	{"IP Geolocation", RiskMedium, persona.AttrNone},
	{"System Fonts", RiskLow, persona.AttrInstalledFonts},
	{"ASN Information", RiskLow, persona.AttrASNDescription},
	{"Browser Cookies", RiskMedium, persona.AttrCookiesEnabled},
	{"Hardware Concurrency", RiskLow, persona.AttrNone},
	{"Camera Access", RiskHigh, persona.AttrNone},
	{"Microphone Access", RiskHigh, persona.AttrNone},
	{"Screen Resolution", RiskLow, persona.AttrResolution},
	{"Timezone", RiskLow, persona.AttrTimezone},
	{"Language", RiskLow, persona.AttrLanguage},
	{"Platform", RiskLow, persona.AttrPlatform},
	{"Do Not Track", RiskLow, persona.AttrDoNotTrack},
	{"Ad Block", RiskLow, persona.AttrNone},
	{"Battery Status", RiskMedium, persona.AttrNone},
	{"Network Information", RiskMedium, persona.AttrConnectionType},
	{"WebRTC", RiskHigh, persona.AttrNone},
	{"Audio Fingerprint", RiskMedium, persona.AttrNone},
	{"Navigator Plugins", RiskLow, persona.AttrPlugins},
	{"Screen Color Depth", RiskLow, persona.AttrColorDepth},
	{"Screen Pixel Depth", RiskLow, persona.AttrPixelDepth},
	{"Device Memory", RiskLow, persona.AttrDeviceMemory},
	{"Touch Support", RiskLow, persona.AttrTouchSupport},
	{"Browser Vendor", RiskLow, persona.AttrBrowserVendor},
	{"Download Speed", RiskLow, persona.AttrDownlink},
}

// Lookup returns the catalog descriptor for query.
func Lookup(query string) (Descriptor, bool) {
	for _, d := range Catalog {
		if d.Query == query {
			return d, true
		}
	}
	return Descriptor{}, false
}
