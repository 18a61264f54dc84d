package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Replay status values outside the per-packet progress messages.
const (
	SentryIdle    = "Idle"
	SentrySuccess = "Success"
)

const (
	replayMatchDelay   = 1500 * time.Millisecond
	replaySuccessDelay = 2 * time.Second
	replayIdleDelay    = 4 * time.Second
)

// SentryPacket is a solved challenge that can be replayed against its site.
type SentryPacket struct {
	ID       string `json:"id"`
	Domain   string `json:"domain"`
	SolvedAt string `json:"solvedAt"`
	Type     string `json:"type"`
	Region   string `json:"region"`
}

func defaultSentryPackets() []SentryPacket {
	return []SentryPacket{
		{ID: "sp1", Domain: "g.co", SolvedAt: "2025-03-15 10:30:11", Type: "CAPTCHA", Region: "US-West"},
		{ID: "sp2", Domain: "example.com", SolvedAt: "2025-03-14 22:15:01", Type: "Age Gate", Region: "EU-Central"},
		{ID: "sp3", Domain: "another-site.net", SolvedAt: "2025-03-13 08:05:45", Type: "CAPTCHA", Region: "Asia-Pacific"},
	}
}

// SentryPackets returns the stored challenge solutions.
func (c *Controller) SentryPackets() []SentryPacket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentryPacket(nil), c.sentryPackets...)
}

// SentryStatus returns the replay progress message.
func (c *Controller) SentryStatus() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sentryStatus
}

// ReplayPacket replays a stored challenge solution. The VPN exit is matched
// to the packet's region first, unless Tor mode holds it. A newer replay
// supersedes any replay still in progress.
func (c *Controller) ReplayPacket(id string) (SentryPacket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var pkt SentryPacket
	found := false
	for _, p := range c.sentryPackets {
		if p.ID == id {
			pkt, found = p, true
			break
		}
	}
	if !found {
		return SentryPacket{}, fmt.Errorf("replay %q: %w", id, ErrPacketNotFound)
	}

	c.replaySeq++
	seq := c.replaySeq
	c.sentryStatus = fmt.Sprintf("Matching VPN to %s...", pkt.Region)
	c.logger.Info("challenge replay started", zap.String("packet_id", pkt.ID), zap.String("domain", pkt.Domain))

	c.schedulePending(replayMatchDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.replaySeq {
			return
		}
		if !c.toggles.TorMode {
			c.toggles.VPNRegion = pkt.Region
		}
		c.sentryStatus = fmt.Sprintf("Replaying %s on %s...", pkt.Type, pkt.Domain)

		c.schedulePending(replaySuccessDelay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if seq != c.replaySeq {
				return
			}
			c.sentryStatus = SentrySuccess
			c.logger.Info("challenge replay succeeded", zap.String("packet_id", pkt.ID))

			c.schedulePending(replayIdleDelay, func() {
				c.mu.Lock()
				defer c.mu.Unlock()
				if seq == c.replaySeq {
					c.sentryStatus = SentryIdle
				}
			})
		})
	})

	return pkt, nil
}
