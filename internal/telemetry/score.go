package telemetry

// ScoreWindow is how many of the newest events the privacy score considers.
const ScoreWindow = 20

// Band is the presentation tier of a privacy score.
type Band string

const (
	BandGood     Band = "good"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// Scorecard summarises the most recent events.
type Scorecard struct {
	Score         int  `json:"score"`
	HighRiskCount int  `json:"highRiskCount"`
	Band          Band `json:"band"`
	Window        int  `json:"window"`
}

// BandFor returns the presentation band of score.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 50:
		return BandWarning
	default:
		return BandCritical
	}
}

// Score computes the privacy score of events, which must be newest first.
func Score(events []Event) Scorecard {
	window := events
	if len(window) > ScoreWindow {
		window = window[:ScoreWindow]
	}

	score, high := 100, 0
	for _, ev := range window {
		score -= ev.Risk.Weight()
		if ev.Risk == RiskHigh {
			high++
		}
	}
	if score < 0 {
		score = 0
	}

	return Scorecard{
		Score:         score,
		HighRiskCount: high,
		Band:          BandFor(score),
		Window:        len(window),
	}
}

// Breakdown counts events by risk tier.
type Breakdown struct {
	Total  int `json:"total"`
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// BreakdownOf counts every event in events.
func BreakdownOf(events []Event) Breakdown {
	b := Breakdown{Total: len(events)}
	for _, ev := range events {
		switch ev.Risk {
		case RiskHigh:
			b.High++
		case RiskMedium:
			b.Medium++
		default:
			b.Low++
		}
	}
	return b
}
