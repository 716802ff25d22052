package youtube

import (
	"fmt"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <title>Some Channel</title>
 <entry>
  <id>yt:video:abc123xyz00</id>
  <yt:videoId>abc123xyz00</yt:videoId>
  <title>First stream</title>
 </entry>
 <entry>
  <id>yt:video:def456uvw11</id>
  <yt:videoId>def456uvw11</yt:videoId>
  <title>Second stream</title>
 </entry>
</feed>`

func TestParseFeed(t *testing.T) {
	title, entries, err := parseFeed([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parseFeed() err: %v", err)
	}
	if title != "Some Channel" {
		t.Errorf("parseFeed() title = %v", title)
	}
	if len(entries) != 2 {
		t.Fatalf("parseFeed() entries = %d, want 2", len(entries))
	}
	if entries[0].VideoID != "abc123xyz00" || entries[0].Title != "First stream" {
		t.Errorf("parseFeed() first entry = %+v", entries[0])
	}
}

func TestExtractPlayerResponse(t *testing.T) {
	page := `<html><script>var ytInitialPlayerResponse = {"videoDetails":{"videoId":"a1"}};var other = 1;</script></html>`
	jsonData, err := extractPlayerResponse([]byte(page))
	if err != nil {
		t.Fatalf("extractPlayerResponse() err: %v", err)
	}
	if got := gjson.GetBytes(jsonData, "videoDetails.videoId").String(); got != "a1" {
		t.Errorf("videoId = %v", got)
	}

	_, err = extractPlayerResponse([]byte("<html>no player here</html>"))
	if err == nil {
		t.Error("extractPlayerResponse() expected error on plain page")
	}
}

func TestClassifyPlayerResponse(t *testing.T) {
	now := time.Unix(1700000000, 0)
	waitBound := 4 * time.Hour
	pastBound := 2 * time.Hour

	upcomingJSON := func(start int64) string {
		return fmt.Sprintf(`{
			"playabilityStatus":{"status":"LIVE_STREAM_OFFLINE","liveStreamability":{"liveStreamabilityRenderer":{"offlineSlate":{"liveStreamOfflineSlateRenderer":{"scheduledStartTime":"%d"}}}}},
			"videoDetails":{"videoId":"v","title":"t","isLiveContent":true,"lengthSeconds":"0","isUpcoming":true}
		}`, start)
	}

	tests := []struct {
		name string
		json string
		want VideoState
	}{
		{"live now",
			`{"playabilityStatus":{"status":"OK"},"videoDetails":{"videoId":"v","title":"t","author":"a","isLiveContent":true,"lengthSeconds":"0","isLive":true}}`,
			StateAvailable},
		{"not a livestream",
			`{"playabilityStatus":{"status":"OK"},"videoDetails":{"videoId":"v","isLiveContent":false}}`,
			StateNotLivestream},
		{"finished broadcast",
			`{"playabilityStatus":{"status":"OK"},"videoDetails":{"videoId":"v","isLiveContent":true,"lengthSeconds":"3723"}}`,
			StateFinished},
		{"private",
			`{"playabilityStatus":{"status":"LOGIN_REQUIRED"},"videoDetails":{"videoId":"v"}}`,
			StatePrivate},
		{"removed",
			`{"playabilityStatus":{"status":"ERROR"}}`,
			StateRemoved},
		{"members only",
			`{"playabilityStatus":{"status":"UNPLAYABLE"},"videoDetails":{"videoId":"v"}}`,
			StateMembersOnly},
		{"upcoming soon",
			upcomingJSON(now.Unix() + 600),
			StateUpcoming},
		{"upcoming too far",
			upcomingJSON(now.Unix() + int64((5 * time.Hour).Seconds())),
			StateTooFarInFuture},
		{"start long past",
			upcomingJSON(now.Unix() - int64((3 * time.Hour).Seconds())),
			StateTooFarInPast},
		{"no schedule",
			`{"playabilityStatus":{"status":"LIVE_STREAM_OFFLINE"},"videoDetails":{"videoId":"v","isLiveContent":true,"lengthSeconds":"0","isUpcoming":true}}`,
			StateNotScheduled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := classifyPlayerResponse([]byte(tt.json), now, waitBound, pastBound)
			if got != tt.want {
				t.Errorf("classifyPlayerResponse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyScheduledStart(t *testing.T) {
	now := time.Unix(1700000000, 0)
	json := fmt.Sprintf(`{
		"playabilityStatus":{"status":"LIVE_STREAM_OFFLINE","liveStreamability":{"liveStreamabilityRenderer":{"offlineSlate":{"liveStreamOfflineSlateRenderer":{"scheduledStartTime":"%d"}}}}},
		"videoDetails":{"videoId":"v","title":"t","isLiveContent":true,"lengthSeconds":"0","isUpcoming":true}
	}`, now.Unix()+600)
	st, det := classifyPlayerResponse([]byte(json), now, 4*time.Hour, 2*time.Hour)
	if st != StateUpcoming {
		t.Fatalf("state = %v", st)
	}
	if det.ScheduledStart != now.Unix()+600 {
		t.Errorf("ScheduledStart = %d, want %d", det.ScheduledStart, now.Unix()+600)
	}
}

func TestBuildHeartbeatPayload(t *testing.T) {
	data, err := buildHeartbeatPayload("vid01", "2.20210721.00.00")
	if err != nil {
		t.Fatalf("buildHeartbeatPayload() err: %v", err)
	}
	if got := gjson.GetBytes(data, "videoId").String(); got != "vid01" {
		t.Errorf("videoId = %v", got)
	}
	if got := gjson.GetBytes(data, "heartbeatRequestParams.heartbeatChecks.0").String(); got != "HEARTBEAT_CHECK_TYPE_LIVE_STREAM_STATUS" {
		t.Errorf("heartbeatChecks = %v", got)
	}
	if got := gjson.GetBytes(data, "context.client.clientName").String(); got != "WEB" {
		t.Errorf("clientName = %v", got)
	}
}
