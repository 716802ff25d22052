package youtube

import (
	"fmt"
	"regexp"
	"time"

	simplejson "github.com/bitly/go-simplejson"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/reisen39/namarec/live/monitor/base"
)

// Only poll during the last stretch before the scheduled start; constantly
// hammering the endpoint for hours gets noticed.
const pollThreshold = 120 * time.Second

var (
	innertubeKeyRe     = regexp.MustCompile(`"INNERTUBE_API_KEY":"([^"]+)"`)
	clientVersionRe    = regexp.MustCompile(`"INNERTUBE_CONTEXT_CLIENT_VERSION":"([^"]+)"`)
	errStreamAbandoned = fmt.Errorf("scheduled start drifted out of bounds")
)

func buildHeartbeatPayload(videoID string, clientVersion string) ([]byte, error) {
	payload := simplejson.New()
	payload.Set("videoId", videoID)
	payload.SetPath([]string{"heartbeatRequestParams", "heartbeatChecks"},
		[]string{"HEARTBEAT_CHECK_TYPE_LIVE_STREAM_STATUS"})
	payload.SetPath([]string{"context", "client", "clientName"}, "WEB")
	payload.SetPath([]string{"context", "client", "clientVersion"}, clientVersion)
	payload.SetPath([]string{"context", "client", "gl"}, "US")
	payload.SetPath([]string{"context", "client", "hl"}, "en")
	payload.SetPath([]string{"context", "request"}, map[string]interface{}{})
	return payload.Encode()
}

// WaitForStart blocks until an upcoming stream actually goes live, using the
// heartbeat endpoint like a real client instead of re-fetching the watch
// page. Returns an error when the stream becomes unplayable or its start
// drifts outside the configured bounds.
func WaitForStart(ctx *base.MonitorCtx, videoID string, scheduledStart int64) error {
	totalWait := time.Duration(scheduledStart-time.Now().Unix()) * time.Second
	log.Infof("%s is scheduled to start in %s", videoID, totalWait)

	if totalWait > pollThreshold {
		longSleep := totalWait - pollThreshold
		log.Infof("sleeping %s before polling %s", longSleep, videoID)
		time.Sleep(longSleep)
	}

	htmlBody, err := ctx.HttpGet("https://www.youtube.com/watch?v="+videoID, map[string]string{})
	if err != nil {
		return err
	}
	keyMatch := innertubeKeyRe.FindSubmatch(htmlBody)
	if len(keyMatch) < 2 {
		return fmt.Errorf("cannot find innertube api key for %s", videoID)
	}
	clientVersion := "2.20210721.00.00"
	if verMatch := clientVersionRe.FindSubmatch(htmlBody); len(verMatch) >= 2 {
		clientVersion = string(verMatch[1])
	}
	endpoint := "https://www.youtube.com/youtubei/v1/player/heartbeat?alt=json&key=" + string(keyMatch[1])

	waitBound, pastBound := waitBounds()
	for {
		payload, err := buildHeartbeatPayload(videoID, clientVersion)
		if err != nil {
			return err
		}
		body, err := ctx.HttpPost(endpoint, map[string]string{"Content-Type": "application/json"}, payload)
		if err != nil {
			log.WithError(err).Warnf("heartbeat request failed for %s, retrying", videoID)
			time.Sleep(pollThreshold / 4)
			continue
		}

		renderer := gjson.GetBytes(body, "playabilityStatus.liveStreamability.liveStreamabilityRenderer")
		if sched := renderer.Get("offlineSlate.liveStreamOfflineSlateRenderer.scheduledStartTime"); sched.Exists() {
			drift := time.Duration(sched.Int()-time.Now().Unix()) * time.Second
			if drift > waitBound || drift < -pastBound {
				log.Infof("%s start moved out of bounds (%s), giving up", videoID, drift)
				return errStreamAbandoned
			}
		}

		status := gjson.GetBytes(body, "playabilityStatus.status").String()
		switch status {
		case "OK":
			log.Infof("%s is no longer upcoming, time to go", videoID)
			return nil
		case "UNPLAYABLE":
			return fmt.Errorf("%s became unplayable while waiting", videoID)
		case "LIVE_STREAM_OFFLINE":
			pollDelay := time.Duration(renderer.Get("pollDelayMs").Int()) * time.Millisecond
			if pollDelay <= 0 {
				pollDelay = pollThreshold / 12
			}
			log.Debugf("%s still offline, sleeping %s", videoID, pollDelay)
			time.Sleep(pollDelay)
		default:
			return fmt.Errorf("unknown playability status %q while waiting for %s", status, videoID)
		}
	}
}

// MarkHandled lets workers flag a video id as already recorded this session.
func MarkHandled(videoID string) {
	defaultChecker().MarkHandled(videoID)
}
