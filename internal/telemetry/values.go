package telemetry

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/runnerr0/snufulufugus/internal/persona"
)

// Unavailable is reported for a keyed query whose attribute the persona
// does not carry.
const Unavailable = "N/A"

const (
	hexDigits   = "0123456789abcdef"
	tokenDigits = "abcdefghijklmnopqrstuvwxyz0123456789"
)

func randomString(rng *rand.Rand, alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

// cannedValues answer the queries that do not read a persona attribute.
var cannedValues = map[string]func(rng *rand.Rand) string{
	"Canvas Fingerprint": func(rng *rand.Rand) string {
		return randomString(rng, hexDigits, 32)
	},
	"Battery Status": func(rng *rand.Rand) string {
		return fmt.Sprintf("%d%%", rng.Intn(100)+1)
	},
	"Hardware Concurrency": func(rng *rand.Rand) string {
		return fmt.Sprintf("%d", []int{2, 4, 8, 12, 16}[rng.Intn(5)])
	},
	"IP Geolocation": func(rng *rand.Rand) string {
		return fmt.Sprintf("%.4f, %.4f", rng.Float64()*180-90, rng.Float64()*360-180)
	},
	"Camera Access":     func(*rand.Rand) string { return "Denied" },
	"Microphone Access": func(*rand.Rand) string { return "Denied" },
	"Ad Block": func(rng *rand.Rand) string {
		if rng.Intn(2) == 0 {
			return "Not Detected"
		}
		return "Detected"
	},
	"WebRTC": func(rng *rand.Rand) string {
		return fmt.Sprintf("10.%d.%d.%d (masked)", rng.Intn(256), rng.Intn(256), rng.Intn(254)+1)
	},
	"Audio Fingerprint": func(rng *rand.Rand) string {
		return fmt.Sprintf("%.12f", 124+rng.Float64())
	},
}

// SpoofedValue derives what the engine reports to a tracker asking d of p.
func SpoofedValue(rng *rand.Rand, d Descriptor, p *persona.Persona) string {
	if d.Keyed() {
		if v, ok := p.Value(d.Attr); ok {
			return v
		}
		return Unavailable
	}
	if gen, ok := cannedValues[d.Query]; ok {
		return gen(rng)
	}
	return randomString(rng, tokenDigits, 12)
}
