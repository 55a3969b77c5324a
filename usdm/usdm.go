// Package usdm fetches the weekly U.S. Drought Monitor bulletin feed.
package usdm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

const (
	// DefaultFeedURL is the Drought Monitor weekly release feed
	DefaultFeedURL = "https://droughtmonitor.unl.edu/data/rss/usdm.xml"
	// DefaultTimeout bounds a single fetch attempt
	DefaultTimeout = 30 * time.Second
)

// ErrStatus indicates a non-success HTTP response
var ErrStatus = errors.New("usdm: unexpected response status")

// Bulletin is one weekly Drought Monitor release
type Bulletin struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

// Options configure a client. The zero value uses the canonical feed.
type Options struct {
	// FeedURL overrides the bulletin feed location
	FeedURL string
	// Timeout bounds each fetch attempt, DefaultTimeout when zero
	Timeout time.Duration
}

// Client fetches and parses the bulletin feed. Each call makes exactly one
// attempt.
type Client struct {
	client  *resty.Client
	parser  *gofeed.Parser
	feedURL string
}

// NewClient creates a client with the given options
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)

	feedURL := opts.FeedURL
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}

	return &Client{
		client:  client,
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
	}
}

// FetchBulletins fetches the feed and returns its releases, newest first as
// published. Transport, status, and parse failures all surface as errors.
func (c *Client) FetchBulletins(ctx context.Context) ([]Bulletin, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("usdm: failed to fetch bulletin feed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	feed, err := c.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("usdm: failed to parse bulletin feed: %w", err)
	}

	bulletins := make([]Bulletin, 0, len(feed.Items))
	for _, item := range feed.Items {
		bulletin := Bulletin{
			Title:   item.Title,
			Link:    item.Link,
			Summary: item.Description,
		}
		if item.PublishedParsed != nil {
			bulletin.Published = *item.PublishedParsed
		}
		bulletins = append(bulletins, bulletin)
	}
	return bulletins, nil
}
