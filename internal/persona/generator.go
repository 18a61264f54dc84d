package persona

import (
	"fmt"
	"math/rand"

	"github.com/avct/uasurfer"
	"github.com/google/uuid"
)

type region struct {
	Name     string
	Timezone string
	Lang     string
	ASN      string
	ASNDesc  string
}

var neutralRegions = []region{
	{"Switzerland", "Europe/Zurich", "de-CH", "AS3303", "SWITCH, CH"},
	{"New Zealand", "Pacific/Auckland", "en-NZ", "AS9790", "Spark, NZ"},
	{"Costa Rica", "America/Costa_Rica", "es-CR", "AS11816", "ICE, CR"},
	{"Finland", "Europe/Helsinki", "fi-FI", "AS1741", "Elisa, FI"},
	{"Uruguay", "America/Montevideo", "es-UY", "AS27735", "ANTEL, UY"},
}

var commonGPUs = []string{
	"NVIDIA GeForce RTX 3060", "Intel(R) Iris(R) Xe Graphics", "AMD Radeon RX 6700 XT",
	"NVIDIA GeForce GTX 1650", "Apple M1", "Qualcomm Adreno 650",
}

var commonResolutions = []string{"1920x1080", "1366x768", "1440x900", "1536x864", "2560x1440", "360x640", "390x844"}

var commonUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:126.0) Gecko/20100101 Firefox/126.0",
}

// platforms maps navigator.platform values to the platform uasurfer reports
// for a matching user agent.
var platforms = []struct {
	Navigator string
	UA        uasurfer.Platform
}{
	{"Win32", uasurfer.PlatformWindows},
	{"MacIntel", uasurfer.PlatformMac},
	{"Linux x86_64", uasurfer.PlatformLinux},
	{"iPhone", uasurfer.PlatformiPhone},
}

var (
	firstNames = []string{"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley"}
	lastNames  = []string{"Smith", "Jones", "Williams", "Brown", "Davis", "Miller"}
)

const generatedBackstory = "A dynamically generated persona for short-term, non-attributable browsing operations. Designed to blend in with common user statistics."

// Generator produces randomized personas that blend into common browser
// statistics. It is not safe for concurrent use; the owner serialises calls.
type Generator struct {
	rng   *rand.Rand
	newID func() string
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		rng:   rng,
		newID: func() string { return "gen-" + uuid.NewString() },
	}
}

func sample[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

func (g *Generator) randomInt(min, max int) int {
	return g.rng.Intn(max-min+1) + min
}

// UserAgentsFor returns the catalog user agents whose parsed platform
// matches the navigator platform string.
func UserAgentsFor(navigatorPlatform string) []string {
	var want uasurfer.Platform
	found := false
	for _, p := range platforms {
		if p.Navigator == navigatorPlatform {
			want, found = p.UA, true
			break
		}
	}
	if !found {
		return nil
	}

	var matches []string
	for _, raw := range commonUserAgents {
		var ua uasurfer.UserAgent
		uasurfer.ParseUserAgent(raw, &ua)
		if ua.OS.Platform == want {
			matches = append(matches, raw)
		}
	}
	return matches
}

// Generate returns a fresh persona with a unique id.
func (g *Generator) Generate() Persona {
	reg := sample(g.rng, neutralRegions)
	platform := sample(g.rng, platforms).Navigator

	agents := UserAgentsFor(platform)
	if len(agents) == 0 {
		agents = commonUserAgents
	}

	connection := sample(g.rng, []string{"wifi", "ethernet"})
	downlink := g.randomInt(25, 150)
	if connection == "ethernet" {
		downlink = g.randomInt(100, 1000)
	}

	return Persona{
		ID:                  g.newID(),
		Name:                fmt.Sprintf("%s %s", sample(g.rng, firstNames), sample(g.rng, lastNames)),
		Team:                "Generated",
		Occupation:          "Consultant",
		Backstory:           generatedBackstory,
		Region:              reg.Name,
		UserAgent:           sample(g.rng, agents),
		Resolution:          sample(g.rng, commonResolutions),
		Language:            reg.Lang,
		Timezone:            reg.Timezone,
		Platform:            platform,
		ASN:                 reg.ASN,
		ASNDescription:      reg.ASNDesc,
		ColorDepth:          24,
		PixelDepth:          24,
		Plugins:             "No plugins reported",
		IncomeLevel:         "unknown",
		Ethnicity:           "Unknown",
		PoliticalAlignment:  "Undeclared",
		IsGenerated:         true,
		DeviceMemory:        sample(g.rng, []int{8, 16, 32}),
		GPU:                 sample(g.rng, commonGPUs),
		TouchSupport:        platform == "iPhone",
		BrowserVendor:       "Google Inc.",
		InstalledFonts:      []string{"Arial", "Helvetica", "Times New Roman", "Courier New"},
		CookiesEnabled:      true,
		DoNotTrack:          sample(g.rng, []string{"1", "0", "unspecified"}),
		ConnectionType:      connection,
		Downlink:            downlink,
		EducationLevel:      "Unknown",
		Interests:           []string{"General Browsing", "News", "Social Media"},
		ShoppingHabits:      "Unknown",
		SocialMediaPresence: "Low",
		AcceptLanguages:     reg.Lang + ",en-US;q=0.9,en;q=0.8",
	}
}
