package plugins

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/videoworker"
)

// Mail must only follow a successful upload. LiveEnd on the notify plugin
// runs concurrently with the uploader, so it must not touch the mail relay
// even when one is configured.
func TestNotifyLiveEndSendsNoMail(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "rec.mp4")
	if err := ioutil.WriteFile(local, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	config.Config = &config.MainConfig{
		Notify: config.NotifyConfig{
			Enable:     true,
			MailServer: "127.0.0.1:1",
			MailFrom:   "rec@localhost",
			MailTo:     "me@localhost",
		},
	}
	process := &videoworker.ProcessVideo{
		LiveStatus: &interfaces.LiveStatus{
			IsLive: true,
			Video: &interfaces.VideoInfo{
				Title:    "t",
				FilePath: local,
				UsersConfig: config.UsersConfig{
					Name: "chan1",
				},
			},
		},
	}

	p := &PluginNotify{}
	if err := p.LiveEnd(process); err != nil {
		t.Errorf("LiveEnd() = %v, want nil without a mail attempt", err)
	}
}

// With no remote configured nothing is shipped, so the uploader must stay
// quiet too instead of mailing a local path.
func TestUploaderLiveEndSkipsMailWithoutUpload(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "rec.mp4")
	if err := ioutil.WriteFile(local, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	config.Config = &config.MainConfig{
		UploadDir: "",
		Notify: config.NotifyConfig{
			Enable:     true,
			MailServer: "127.0.0.1:1",
			MailFrom:   "rec@localhost",
			MailTo:     "me@localhost",
		},
	}
	process := &videoworker.ProcessVideo{
		LiveStatus: &interfaces.LiveStatus{
			IsLive: true,
			Video: &interfaces.VideoInfo{
				Title:    "t",
				FilePath: local,
				UsersConfig: config.UsersConfig{
					Name: "chan1",
				},
			},
		},
	}

	u := &PluginUploader{}
	if err := u.LiveEnd(process); err != nil {
		t.Errorf("LiveEnd() = %v, want nil when nothing was uploaded", err)
	}
}
