package persona

// Persona is a simulated browser identity. Values are never mutated after
// creation; the Controller replaces whole personas rather than editing them.
type Persona struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Team               string `json:"team"`
	Occupation         string `json:"occupation"`
	Backstory          string `json:"backstory"`
	Region             string `json:"region"`
	UserAgent          string `json:"userAgent"`
	Resolution         string `json:"resolution"`
	Language           string `json:"language"`
	Timezone           string `json:"timezone"`
	Platform           string `json:"platform"`
	ASN                string `json:"asn"`
	ASNDescription     string `json:"asnDescription"`
	ColorDepth         int    `json:"colorDepth"`
	PixelDepth         int    `json:"pixelDepth"`
	Plugins            string `json:"plugins"`
	IncomeLevel        string `json:"incomeLevel"` // low, middle, high, unknown
	Ethnicity          string `json:"ethnicity"`
	PoliticalAlignment string `json:"politicalAlignment"`
	IsGenerated        bool   `json:"isGenerated,omitempty"`

	// Hardware
	DeviceMemory int    `json:"deviceMemory"`
	GPU          string `json:"gpu"`
	TouchSupport bool   `json:"touchSupport"`

	// Browser
	BrowserVendor  string   `json:"browserVendor"`
	InstalledFonts []string `json:"installedFonts"`
	CookiesEnabled bool     `json:"cookiesEnabled"`
	DoNotTrack     string   `json:"doNotTrack"` // "1", "0" or "unspecified"

	// Network
	ConnectionType string `json:"connectionType"` // wifi, cellular, ethernet, unknown
	Downlink       int    `json:"downlink"`       // Mbps

	// Behavioral
	EducationLevel      string   `json:"educationLevel"`
	Interests           []string `json:"interests"`
	ShoppingHabits      string   `json:"shoppingHabits"`
	SocialMediaPresence string   `json:"socialMediaPresence"`

	AcceptLanguages string `json:"acceptLanguages"`
}

// Find returns the persona with the given id.
func Find(personas []Persona, id string) (Persona, bool) {
	for _, p := range personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}
