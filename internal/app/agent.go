package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/agent"
	"github.com/runnerr0/snufulufugus/internal/storage"
)

const mediaAnalysisPrompt = "Analyze the following media asset for potential security threats. File: %s, Type: %s. Check for metadata trackers, steganography, or malicious payloads."

// MediaAnalysis is the most recent media decontamination request.
type MediaAnalysis struct {
	Asset         MediaAsset `json:"asset"`
	OriginArchive string     `json:"originArchive"`
	Analyzing     bool       `json:"analyzing"`
	Report        string     `json:"report"`
}

// AgentConfig returns the persisted agent settings.
func (c *Controller) AgentConfig() agent.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agentCfg
}

// SaveAgentConfig validates and persists new agent settings.
func (c *Controller) SaveAgentConfig(ctx context.Context, cfg agent.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := storage.SaveJSON(ctx, c.kv, storage.KeyAgentConfig, cfg); err != nil {
		return fmt.Errorf("save agent config: %w", err)
	}
	c.agentCfg = cfg
	return nil
}

// AskAgent runs prompt through the configured agent and keeps the result as
// the latest report. Concurrent calls race; the last to finish wins.
func (c *Controller) AskAgent(ctx context.Context, prompt string) string {
	c.mu.Lock()
	cfg := c.agentCfg
	c.report = ""
	c.mu.Unlock()

	report := c.agent.Query(ctx, prompt, cfg)

	c.mu.Lock()
	c.report = report
	c.mu.Unlock()
	return report
}

// LastReport returns the most recent agent report.
func (c *Controller) LastReport() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// AnalyzeMedia schedules a threat analysis of one archived asset. The report
// arrives after the analysis delay; only the latest completion is kept.
func (c *Controller) AnalyzeMedia(archiveID, assetName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.findArchive(archiveID)
	if !ok {
		return fmt.Errorf("analyze %q: %w", archiveID, ErrArchiveNotFound)
	}
	var asset MediaAsset
	found := false
	for _, a := range c.archives[i].MediaAssets {
		if a.Name == assetName {
			asset, found = a, true
			break
		}
	}
	if !found {
		return fmt.Errorf("analyze %q in %q: %w", assetName, archiveID, ErrAssetNotFound)
	}

	c.media = MediaAnalysis{Asset: asset, OriginArchive: c.archives[i].Domain, Analyzing: true}
	cfg := c.agentCfg
	c.logger.Info("media analysis scheduled", zap.String("archive_id", archiveID), zap.String("asset", asset.Name))

	c.schedulePending(c.cfg.Archive.AnalysisDelay(), func() {
		prompt := fmt.Sprintf(mediaAnalysisPrompt, asset.Name, asset.Type)
		report := c.agent.Query(context.Background(), prompt, cfg)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.media.Report = report
		c.media.Analyzing = false
	})
	return nil
}

// MediaAnalysis returns the latest media analysis state.
func (c *Controller) MediaAnalysis() MediaAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.media
}
