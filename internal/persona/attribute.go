package persona

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Attribute names a persona field that a fingerprinting query can read.
// The zero value means "no attribute".
type Attribute int

const (
	AttrNone Attribute = iota
	AttrUserAgent
	AttrGPU
	AttrInstalledFonts
	AttrASNDescription
	AttrCookiesEnabled
	AttrResolution
	AttrTimezone
	AttrLanguage
	AttrPlatform
	AttrDoNotTrack
	AttrConnectionType
	AttrPlugins
	AttrColorDepth
	AttrPixelDepth
	AttrDeviceMemory
	AttrTouchSupport
	AttrBrowserVendor
	AttrDownlink
	AttrInterests
	AttrAcceptLanguages
)

type accessor struct {
	name string
	get  func(p *Persona) (string, bool)
}

func str(s string) (string, bool) { return s, s != "" }

func list(v []string) (string, bool) {
	if v == nil {
		return "", false
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

var accessors = map[Attribute]accessor{
	AttrUserAgent:       {"userAgent", func(p *Persona) (string, bool) { return str(p.UserAgent) }},
	AttrGPU:             {"gpu", func(p *Persona) (string, bool) { return str(p.GPU) }},
	AttrInstalledFonts:  {"installedFonts", func(p *Persona) (string, bool) { return list(p.InstalledFonts) }},
	AttrASNDescription:  {"asnDescription", func(p *Persona) (string, bool) { return str(p.ASNDescription) }},
	AttrCookiesEnabled:  {"cookiesEnabled", func(p *Persona) (string, bool) { return strconv.FormatBool(p.CookiesEnabled), true }},
	AttrResolution:      {"resolution", func(p *Persona) (string, bool) { return str(p.Resolution) }},
	AttrTimezone:        {"timezone", func(p *Persona) (string, bool) { return str(p.Timezone) }},
	AttrLanguage:        {"language", func(p *Persona) (string, bool) { return str(p.Language) }},
	AttrPlatform:        {"platform", func(p *Persona) (string, bool) { return str(p.Platform) }},
	AttrDoNotTrack:      {"doNotTrack", func(p *Persona) (string, bool) { return str(p.DoNotTrack) }},
	AttrConnectionType:  {"connectionType", func(p *Persona) (string, bool) { return str(p.ConnectionType) }},
	AttrPlugins:         {"plugins", func(p *Persona) (string, bool) { return str(p.Plugins) }},
	AttrColorDepth:      {"colorDepth", func(p *Persona) (string, bool) { return strconv.Itoa(p.ColorDepth), true }},
	AttrPixelDepth:      {"pixelDepth", func(p *Persona) (string, bool) { return strconv.Itoa(p.PixelDepth), true }},
	AttrDeviceMemory:    {"deviceMemory", func(p *Persona) (string, bool) { return strconv.Itoa(p.DeviceMemory), true }},
	AttrTouchSupport:    {"touchSupport", func(p *Persona) (string, bool) { return strconv.FormatBool(p.TouchSupport), true }},
	AttrBrowserVendor:   {"browserVendor", func(p *Persona) (string, bool) { return str(p.BrowserVendor) }},
	AttrDownlink:        {"downlink", func(p *Persona) (string, bool) { return strconv.Itoa(p.Downlink), true }},
	AttrInterests:       {"interests", func(p *Persona) (string, bool) { return list(p.Interests) }},
	AttrAcceptLanguages: {"acceptLanguages", func(p *Persona) (string, bool) { return str(p.AcceptLanguages) }},
}

// String returns the JSON field name of the attribute, or "" for AttrNone
// and unknown values.
func (a Attribute) String() string {
	return accessors[a].name
}

// Value returns the persona's value for a, stringified the way it is
// reported to a tracker: lists become a JSON array, booleans and numbers
// their literal form. ok is false when the attribute is unknown or the
// persona leaves it empty.
func (p *Persona) Value(a Attribute) (string, bool) {
	acc, found := accessors[a]
	if !found || p == nil {
		return "", false
	}
	return acc.get(p)
}
