package persona

// Defaults returns the curated personas shipped with the engine. The first
// entry is the persona active on a fresh start.
func Defaults() []Persona {
	return []Persona{
		{
			ID:                  "p1",
			Name:                `Chadwick "Chaz" Worthington III`,
			Team:                "Crypto Enthusiasts",
			Occupation:          "NFT Sommelier / Aspiring Finfluencer",
			Backstory:           `Chaz spends his parents' money on "digital art" and offers unsolicited financial advice on Discord. His entire personality is based on a single Bitcoin he bought in 2021.`,
			Region:              "Monaco",
			UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 OPR/110.0.0.0",
			Resolution:          "3440x1440",
			Language:            "en-US",
			Timezone:            "Europe/Monaco",
			Platform:            "Win32",
			ASN:                 "AS6663",
			ASNDescription:      "MONACO-TELECOM, MC",
			ColorDepth:          24,
			PixelDepth:          24,
			Plugins:             "Metamask Wallet Extension, Phantom Wallet, VPN Blocker Blocker",
			IncomeLevel:         "high",
			Ethnicity:           "Caucasian",
			PoliticalAlignment:  "Anarcho-Capitalist",
			DeviceMemory:        64,
			GPU:                 "NVIDIA GeForce RTX 4090",
			TouchSupport:        false,
			BrowserVendor:       "Google Inc.",
			InstalledFonts:      []string{"Papyrus", "Comic Sans MS", "Impact", "Arial Black"},
			CookiesEnabled:      true,
			DoNotTrack:          "0",
			ConnectionType:      "ethernet",
			Downlink:            1000,
			EducationLevel:      "Bachelors",
			Interests:           []string{"Vaping", "Disrupting Paradigms", "Lamborghinis", `Shouting "HODL"`},
			ShoppingHabits:      "Luxury",
			SocialMediaPresence: "High",
			AcceptLanguages:     "en-US,en;q=0.9",
		},
		{
			ID:                  "p2",
			Name:                `Brenda "B-REN" Reynolds`,
			Team:                "Multi-Level Marketers",
			Occupation:          "Wellness Advocate & #BossBabe",
			Backstory:           "Brenda floods Facebook with posts about essential oils and leggings. She believes she's the CEO of her own company, which is coincidentally shaped like a pyramid.",
			Region:              "Utah, USA",
			UserAgent:           "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/125.0.6422.80 Mobile/15E148 Safari/604.1",
			Resolution:          "390x844",
			Language:            "en-US",
			Timezone:            "America/Denver",
			Platform:            "iPhone",
			ASN:                 "AS7922",
			ASNDescription:      "COMCAST-VADS, US",
			ColorDepth:          24,
			PixelDepth:          24,
			Plugins:             "No plugins reported",
			IncomeLevel:         "low",
			Ethnicity:           "Caucasian",
			PoliticalAlignment:  "Undeclared",
			DeviceMemory:        6,
			GPU:                 "Apple A15 GPU",
			TouchSupport:        true,
			BrowserVendor:       "Google Inc.",
			InstalledFonts:      []string{"Helvetica Neue", "Arial", "San Francisco"},
			CookiesEnabled:      true,
			DoNotTrack:          "1",
			ConnectionType:      "wifi",
			Downlink:            50,
			EducationLevel:      "High School",
			Interests:           []string{"Scrapbooking", "Pyramid Schemes", `Saying "Hun"`, "Live, Laugh, Love"},
			ShoppingHabits:      "Budget",
			SocialMediaPresence: "High",
			AcceptLanguages:     "en-US,en;q=0.9",
		},
		{
			ID:                  "p4",
			Name:                "Agnes Weatherwax",
			Team:                "Hobbyists & Retirees",
			Occupation:          "Competitive Gardener / Neighborhood Watch Captain",
			Backstory:           "Agnes spends her days cultivating prize-winning roses and her nights monitoring the neighborhood for suspicious squirrels. Her browser history is a mix of organic pesticide recipes and police scanner forums.",
			Region:              "Ohio, USA",
			UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 Edg/125.0.2535.67",
			Resolution:          "1366x768",
			Language:            "en-US",
			Timezone:            "America/New_York",
			Platform:            "Win32",
			ASN:                 "AS30036",
			ASNDescription:      "FRONTIER-FRTR, US",
			ColorDepth:          24,
			PixelDepth:          24,
			Plugins:             "Microsoft Office, Adobe Acrobat Reader",
			IncomeLevel:         "middle",
			Ethnicity:           "Caucasian",
			PoliticalAlignment:  "Centrist",
			DeviceMemory:        8,
			GPU:                 "Intel(R) UHD Graphics 620",
			TouchSupport:        false,
			BrowserVendor:       "Google Inc.",
			InstalledFonts:      []string{"Times New Roman", "Arial", "Courier New", "Calibri"},
			CookiesEnabled:      true,
			DoNotTrack:          "unspecified",
			ConnectionType:      "wifi",
			Downlink:            25,
			EducationLevel:      "High School",
			Interests:           []string{"Gardening", "Bird Watching", "Conspiracy Theories", "Baking"},
			ShoppingHabits:      "Mid-range",
			SocialMediaPresence: "Low",
			AcceptLanguages:     "en-US",
		},
		{
			ID:                  "p5",
			Name:                "Kaito Tanaka",
			Team:                "Students & Researchers",
			Occupation:          "Computer Science Undergrad",
			Backstory:           "Kaito is fueled by instant noodles and the fear of failing his data structures class. He lives on Stack Overflow and believes sleep is a suggestion, not a requirement.",
			Region:              "Tokyo, Japan",
			UserAgent:           "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
			Resolution:          "1440x900",
			Language:            "ja",
			Timezone:            "Asia/Tokyo",
			Platform:            "MacIntel",
			ASN:                 "AS4713",
			ASNDescription:      "NTT-OCN, JP",
			ColorDepth:          24,
			PixelDepth:          24,
			Plugins:             "Grammarly, Dark Reader, AdBlock Plus",
			IncomeLevel:         "low",
			Ethnicity:           "Asian",
			PoliticalAlignment:  "Apolitical",
			DeviceMemory:        16,
			GPU:                 "Intel Iris Plus Graphics 645",
			TouchSupport:        false,
			BrowserVendor:       "Google Inc.",
			InstalledFonts:      []string{"Hiragino Kaku Gothic ProN", "Osaka", "MS PGothic", "Yu Gothic"},
			CookiesEnabled:      true,
			DoNotTrack:          "1",
			ConnectionType:      "ethernet",
			Downlink:            500,
			EducationLevel:      "Bachelors",
			Interests:           []string{"Anime", "Competitive Programming", "Cybersecurity CTFs", "Gacha Games"},
			ShoppingHabits:      "Budget",
			SocialMediaPresence: "Medium",
			AcceptLanguages:     "ja,en-US;q=0.9,en;q=0.8",
		},
	}
}
