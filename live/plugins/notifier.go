package plugins

import (
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/videoworker"
)

type NotifyDict struct {
	Event string
	Title string
	User  string
	Date  string
	Path  string
}

// PluginNotify tells the outside world about live transitions with a
// pubsub message per event. Mail is the uploader's job: it only goes out
// once a recording actually reached the remote.
type PluginNotify struct {
}

func (p *PluginNotify) LiveStart(process *videoworker.ProcessVideo) error {
	p.publish("live_start", process)
	return nil
}

func (p *PluginNotify) DownloadStart(process *videoworker.ProcessVideo) error {
	p.publish("download_start", process)
	return nil
}

func (p *PluginNotify) LiveEnd(process *videoworker.ProcessVideo) error {
	p.publish("live_end", process)
	return nil
}

func (p *PluginNotify) publish(event string, process *videoworker.ProcessVideo) {
	video := process.LiveStatus.Video
	n := NotifyDict{
		Event: event,
		Title: video.Title,
		User:  video.UsersConfig.Name,
		Date:  video.Date,
		Path:  video.FilePath,
	}
	data, _ := json.Marshal(n)
	Publish(data, "notify")
}

// SendMail delivers a plain finished-recording mail. net/smtp is enough for
// a localhost relay; failures only get logged, there is no alerting channel
// behind this.
func SendMail(channel string, title string, link string) error {
	cfg := config.Config.Notify
	if !cfg.Enable || cfg.MailServer == "" {
		return nil
	}
	subject := fmt.Sprintf("[namarec] %s uploaded %s", channel, title)
	body := strings.Join([]string{
		"From: " + cfg.MailFrom,
		"To: " + cfg.MailTo,
		"Subject: " + subject,
		"",
		fmt.Sprintf("%s uploaded %s\r\n\r\n%s", channel, title, link),
	}, "\r\n")
	err := smtp.SendMail(cfg.MailServer, nil, cfg.MailFrom, []string{cfg.MailTo}, []byte(body))
	if err != nil {
		log.WithError(err).Warn("notify mail failed")
	}
	return err
}
