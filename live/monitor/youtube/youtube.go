package youtube

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/monitor/base"
	"github.com/reisen39/namarec/utils"
)

type ytStatus struct {
	IsLive  bool
	Title   string
	Target  string
	VideoID string
}

type Youtube struct {
	base.BaseMonitor
	ytStatus
	usersConfig config.UsersConfig
}

func NewYoutube(baseMon base.BaseMonitor) *Youtube {
	return &Youtube{BaseMonitor: baseMon}
}

// CheckLive combines the channel's Atom feed with the /live endpoint, then
// classifies candidates until one is actually live. The feed alone misses
// unlisted member streams and the /live page alone misses parallel premieres,
// so both get consulted.
func (y *Youtube) CheckLive(usersConfig config.UsersConfig) bool {
	y.usersConfig = usersConfig
	y.ytStatus = ytStatus{}
	ctx := &y.Ctx
	channelID := usersConfig.TargetId

	if det, err := getLivePage(ctx, channelID); err != nil {
		log.WithError(err).Debugf("live endpoint check failed for %s", channelID)
	} else if det != nil && det.IsLive {
		y.setLive(det)
		return true
	}

	entries, err := fetchFeed(ctx, channelID)
	if err != nil {
		log.WithError(err).Warnf("feed fetch failed for %s", channelID)
	}
	for _, entry := range entries {
		if defaultChecker().WasHandled(entry.VideoID) {
			continue
		}
		st, det, err := defaultChecker().CheckVideo(ctx, entry.VideoID)
		if err != nil {
			log.WithError(err).Debugf("video check failed for %s", entry.VideoID)
			continue
		}
		switch st {
		case StateAvailable:
			y.setLive(det)
			return true
		case StateUpcoming:
			log.Debugf("%s is upcoming (starts at %d), not live yet", entry.VideoID, det.ScheduledStart)
		}
	}

	base.NoLiving("Youtube", usersConfig.Name)
	return false
}

func (y *Youtube) setLive(det *VideoDetails) {
	y.IsLive = true
	y.Title = det.Title
	y.VideoID = det.ID
	y.Target = "https://www.youtube.com/watch?v=" + det.ID
}

func (y *Youtube) CreateVideo(usersConfig config.UsersConfig) *interfaces.VideoInfo {
	if !y.IsLive {
		return &interfaces.VideoInfo{}
	}
	return &interfaces.VideoInfo{
		Title:       y.Title,
		Date:        utils.GetTimeNow(),
		Target:      y.Target,
		VideoID:     y.VideoID,
		Provider:    "Youtube",
		WorkID:      uuid.New().String(),
		UsersConfig: usersConfig,
	}
}
