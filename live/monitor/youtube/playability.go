package youtube

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.uber.org/ratelimit"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/monitor/base"
)

type VideoState int

const (
	StateAvailable VideoState = iota
	StateNotLivestream
	StateFinished
	// The channel listing may keep showing removed or unavailable videos
	// for a while after they're gone.
	StateRemoved
	StateTooFarInFuture
	StateNotScheduled
	StateRateLimited
	StateTooFarInPast
	StatePrivate
	StateMembersOnly
	StateUpcoming
)

func (s VideoState) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateNotLivestream:
		return "not_livestream"
	case StateFinished:
		return "finished"
	case StateRemoved:
		return "removed"
	case StateTooFarInFuture:
		return "too_far_in_future"
	case StateNotScheduled:
		return "not_scheduled"
	case StateRateLimited:
		return "rate_limited"
	case StateTooFarInPast:
		return "too_far_in_past"
	case StatePrivate:
		return "private"
	case StateMembersOnly:
		return "members_only"
	case StateUpcoming:
		return "upcoming"
	}
	return "unknown"
}

type VideoDetails struct {
	ID             string
	Title          string
	Author         string
	IsLive         bool
	ScheduledStart int64
}

var playerResponseRe = regexp.MustCompile(`var\s+ytInitialPlayerResponse\s*=\s*(\{.+?\});`)

func extractPlayerResponse(htmlBody []byte) ([]byte, error) {
	result := playerResponseRe.FindSubmatch(htmlBody)
	if len(result) < 2 {
		return nil, fmt.Errorf("youtube cannot find ytInitialPlayerResponse")
	}
	return result[1], nil
}

// classifyPlayerResponse is the liveness decision table over a raw
// playerResponse. waitBound/pastBound cap how far a scheduled start may sit
// from now before the video is ignored.
func classifyPlayerResponse(jsonData []byte, now time.Time, waitBound, pastBound time.Duration) (VideoState, *VideoDetails) {
	det := &VideoDetails{}
	det.ID = gjson.GetBytes(jsonData, "videoDetails.videoId").String()
	det.Title = gjson.GetBytes(jsonData, "videoDetails.title").String()
	det.Author = gjson.GetBytes(jsonData, "videoDetails.author").String()

	status := gjson.GetBytes(jsonData, "playabilityStatus.status").String()
	switch status {
	case "LOGIN_REQUIRED":
		// read: private video
		return StatePrivate, det
	case "ERROR":
		return StateRemoved, det
	case "UNPLAYABLE":
		// only known reason is a membership only stream
		return StateMembersOnly, det
	}

	if !gjson.GetBytes(jsonData, "videoDetails.isLiveContent").Bool() {
		return StateNotLivestream, det
	}
	// A live stream that already has a length is a finished broadcast; we
	// presumably saved it while it was live.
	if length := gjson.GetBytes(jsonData, "videoDetails.lengthSeconds").String(); length != "" && length != "0" {
		return StateFinished, det
	}

	if gjson.GetBytes(jsonData, "videoDetails.isUpcoming").Bool() {
		sched := gjson.GetBytes(jsonData,
			"playabilityStatus.liveStreamability.liveStreamabilityRenderer.offlineSlate.liveStreamOfflineSlateRenderer.scheduledStartTime")
		if !sched.Exists() {
			// the persistent 24/7 waiting-room stream has no schedule
			return StateNotScheduled, det
		}
		det.ScheduledStart = sched.Int()
		wait := time.Duration(det.ScheduledStart-now.Unix()) * time.Second
		if wait > waitBound {
			return StateTooFarInFuture, det
		}
		if wait < -pastBound {
			return StateTooFarInPast, det
		}
		return StateUpcoming, det
	}

	det.IsLive = gjson.GetBytes(jsonData, "videoDetails.isLive").Bool()
	return StateAvailable, det
}

// Checker caches per-video classifications so terminal states are never
// re-fetched, and rate limits the watch-page requests that got the original
// deployment 429'd.
type Checker struct {
	states  *cache.Cache
	handled *lru.Cache
	videoRl ratelimit.Limiter
}

var (
	checkerOnce sync.Once
	checker     *Checker
)

func defaultChecker() *Checker {
	checkerOnce.Do(func() {
		perSec := 1
		if config.Config != nil && config.Config.VideoInfoPerSec > 0 {
			perSec = config.Config.VideoInfoPerSec
		}
		handled, _ := lru.New(256)
		checker = &Checker{
			states:  cache.New(30*time.Minute, 10*time.Minute),
			handled: handled,
			videoRl: ratelimit.New(perSec),
		}
	})
	return checker
}

func isTerminal(s VideoState) bool {
	switch s {
	case StateNotLivestream, StateFinished, StateNotScheduled, StateRemoved, StatePrivate, StateMembersOnly:
		return true
	}
	return false
}

func waitBounds() (time.Duration, time.Duration) {
	waitBound := 4 * time.Hour
	pastBound := 2 * time.Hour
	if config.Config != nil {
		waitBound = time.Duration(config.Config.IgnoreWaitGreaterThanSec) * time.Second
		pastBound = time.Duration(config.Config.IgnorePastStartGreaterThanSec) * time.Second
	}
	return waitBound, pastBound
}

// CheckVideo classifies a single candidate video id.
func (c *Checker) CheckVideo(ctx *base.MonitorCtx, videoID string) (VideoState, *VideoDetails, error) {
	if cached, ok := c.states.Get(videoID); ok {
		st := cached.(VideoState)
		log.Debugf("%s is %s, skipping (cached)", videoID, st)
		return st, &VideoDetails{ID: videoID}, nil
	}

	c.videoRl.Take()
	htmlBody, err := ctx.HttpGet("https://www.youtube.com/watch?v="+videoID, map[string]string{})
	if err != nil {
		if strings.Contains(err.Error(), "429") {
			log.Warnf("rate limited while checking %s, skipping (no backoff)", videoID)
			return StateRateLimited, &VideoDetails{ID: videoID}, nil
		}
		return StateRateLimited, nil, err
	}
	jsonData, err := extractPlayerResponse(htmlBody)
	if err != nil {
		return StateRemoved, nil, err
	}

	waitBound, pastBound := waitBounds()
	st, det := classifyPlayerResponse(jsonData, time.Now(), waitBound, pastBound)
	if det.ID == "" {
		det.ID = videoID
	}
	if isTerminal(st) {
		c.states.Set(videoID, st, cache.DefaultExpiration)
	}
	return st, det, nil
}

// MarkHandled remembers ids a worker already picked up this session.
func (c *Checker) MarkHandled(videoID string) {
	c.handled.Add(videoID, time.Now())
}

func (c *Checker) WasHandled(videoID string) bool {
	return c.handled.Contains(videoID)
}

// getLivePage checks /channel/<id>/live, which surfaces whatever the channel
// is streaming right now even before the feed catches up.
func getLivePage(ctx *base.MonitorCtx, channelID string) (*VideoDetails, error) {
	htmlBody, err := ctx.HttpGet("https://www.youtube.com/channel/"+channelID+"/live", map[string]string{})
	if err != nil {
		return nil, err
	}
	jsonData, err := extractPlayerResponse(htmlBody)
	if err != nil {
		// a channel with no live page serves a plain channel page
		return nil, nil
	}
	waitBound, pastBound := waitBounds()
	st, det := classifyPlayerResponse(jsonData, time.Now(), waitBound, pastBound)
	if st == StateAvailable && det.IsLive {
		return det, nil
	}
	return &VideoDetails{ID: det.ID, Title: det.Title, Author: det.Author, ScheduledStart: det.ScheduledStart}, nil
}

// FetchVideo classifies one video for the one-shot record path.
func FetchVideo(ctx *base.MonitorCtx, videoID string) (VideoState, *VideoDetails, error) {
	return defaultChecker().CheckVideo(ctx, videoID)
}
