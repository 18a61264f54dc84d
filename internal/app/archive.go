package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/runnerr0/snufulufugus/internal/telemetry"
)

// Archive statuses.
const (
	ArchiveCompleted = "Completed"
	ArchiveCrawling  = "Crawling..."
)

// MediaAsset is a file captured inside an archive.
type MediaAsset struct {
	Name string `json:"name"`
	Type string `json:"type"` // video, audio or document
	URL  string `json:"url"`
}

// Archive is a simulated private capture of a site.
type Archive struct {
	ID          string       `json:"id"`
	Domain      string       `json:"domain"`
	CapturedAt  string       `json:"capturedAt"`
	Size        string       `json:"size"`
	Status      string       `json:"status"`
	MediaAssets []MediaAsset `json:"mediaAssets"`
}

const sampleVideo = "https://storage.googleapis.com/web-dev-assets/video-and-source-tags/chrome.mp4"

func defaultArchives() []Archive {
	return []Archive{
		{
			ID:         "pa1",
			Domain:     "internal.corp.net",
			CapturedAt: "2024-01-10",
			Size:       "1.2 GB",
			Status:     ArchiveCompleted,
			MediaAssets: []MediaAsset{
				{Name: "Onboarding_Video_2024.mp4", Type: "video", URL: sampleVideo},
				{Name: "CEO_Town_Hall_Q1.mp3", Type: "audio", URL: sampleVideo},
				{Name: "Q1_Financials_DRAFT.pdf", Type: "document", URL: "#"},
			},
		},
		{
			ID:         "pa2",
			Domain:     "dev.api.example.com",
			CapturedAt: "2024-02-22",
			Size:       "350 MB",
			Status:     ArchiveCompleted,
			MediaAssets: []MediaAsset{
				{Name: "API_Demo_Walkthrough.mp4", Type: "video", URL: sampleVideo},
				{Name: "Rate_Limiting_Explanation.mp3", Type: "audio", URL: "#"},
			},
		},
	}
}

func copyArchive(a Archive) Archive {
	a.MediaAssets = append([]MediaAsset(nil), a.MediaAssets...)
	return a
}

// Archives returns the archives, newest first.
func (c *Controller) Archives() []Archive {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Archive, len(c.archives))
	for i, a := range c.archives {
		out[i] = copyArchive(a)
	}
	return out
}

func (c *Controller) findArchive(id string) (int, bool) {
	for i, a := range c.archives {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}

// nextArchiveID returns one past the highest numeric "paN" id in use, so ids
// are never reused after a delete.
func (c *Controller) nextArchiveID() string {
	highest := 0
	for _, a := range c.archives {
		if n, err := strconv.Atoi(strings.TrimPrefix(a.ID, "pa")); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("pa%d", highest+1)
}

// CreateArchive starts a simulated crawl of rawURL. The new archive is
// Crawling... until the crawl delay elapses, then Completed with a random
// size. An invalid URL commits nothing.
func (c *Controller) CreateArchive(rawURL string) (Archive, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return Archive{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	a := Archive{
		ID:          c.nextArchiveID(),
		Domain:      u.Hostname(),
		CapturedAt:  c.now().UTC().Format("2006-01-02"),
		Size:        "0 MB",
		Status:      ArchiveCrawling,
		MediaAssets: []MediaAsset{},
	}
	c.archives = append([]Archive{a}, c.archives...)
	c.logger.Info("archive crawl started", zap.String("archive_id", a.ID), zap.String("domain", a.Domain))

	id := a.ID
	c.schedulePending(c.cfg.Archive.CrawlDelay(), func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		i, ok := c.findArchive(id)
		if !ok {
			return
		}
		c.archives[i].Status = ArchiveCompleted
		c.archives[i].Size = fmt.Sprintf("%.1f GB", c.rng.Float64()*2+0.5)
		c.logger.Info("archive crawl completed", zap.String("archive_id", id), zap.String("size", c.archives[i].Size))
	})

	return copyArchive(a), nil
}

// DeleteArchive removes an archive. A crawl still pending for it completes
// into nothing.
func (c *Controller) DeleteArchive(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.findArchive(id)
	if !ok {
		return fmt.Errorf("delete %q: %w", id, ErrArchiveNotFound)
	}
	c.archives = append(c.archives[:i:i], c.archives[i+1:]...)
	c.logger.Info("archive deleted", zap.String("archive_id", id))
	return nil
}

// ScrapeArchive browses the archived copy of a site and returns the new
// target.
func (c *Controller) ScrapeArchive(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.findArchive(id)
	if !ok {
		return "", fmt.Errorf("scrape %q: %w", id, ErrArchiveNotFound)
	}
	target := telemetry.LocalArchiveScheme + c.archives[i].Domain
	c.navigateLocked(ctx, target)
	return target, nil
}
