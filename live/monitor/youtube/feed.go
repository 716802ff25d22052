package youtube

import (
	"context"
	"encoding/xml"
	"sync"

	"golang.org/x/time/rate"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/monitor/base"
)

const feedURL = "https://www.youtube.com/feeds/videos.xml?channel_id="

type FeedEntry struct {
	VideoID string
	Title   string
}

type atomEntry struct {
	VideoID string `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Title   string `xml:"title"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Entries []atomEntry `xml:"entry"`
}

// parseFeed pulls the candidate video ids out of a channel's Atom feed.
// The listing is only eventually consistent and may still carry removed or
// finished videos, so entries are candidates, not live streams.
func parseFeed(data []byte) (string, []FeedEntry, error) {
	feed := atomFeed{}
	if err := xml.Unmarshal(data, &feed); err != nil {
		return "", nil, err
	}
	entries := make([]FeedEntry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if e.VideoID == "" {
			continue
		}
		entries = append(entries, FeedEntry{VideoID: e.VideoID, Title: e.Title})
	}
	return feed.Title, entries, nil
}

var (
	feedRlOnce sync.Once
	feedRl     *rate.Limiter
)

func feedLimiter() *rate.Limiter {
	feedRlOnce.Do(func() {
		perMin := 30
		if config.Config != nil && config.Config.FeedRatePerMin > 0 {
			perMin = config.Config.FeedRatePerMin
		}
		feedRl = rate.NewLimiter(rate.Limit(float64(perMin)/60.0), 2)
	})
	return feedRl
}

func fetchFeed(ctx *base.MonitorCtx, channelID string) ([]FeedEntry, error) {
	_ = feedLimiter().Wait(context.Background())
	body, err := ctx.HttpGet(feedURL+channelID, map[string]string{})
	if err != nil {
		return nil, err
	}
	_, entries, err := parseFeed(body)
	return entries, err
}
