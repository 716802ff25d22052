package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/live/monitor/base"
	"github.com/reisen39/namarec/live/monitor/youtube"
	"github.com/reisen39/namarec/live/plugins"
	"github.com/reisen39/namarec/live/state"
	"github.com/reisen39/namarec/live/videoworker"
	"github.com/reisen39/namarec/live/videoworker/downloader"
	"github.com/reisen39/namarec/utils"
)

var (
	recNoRemux  bool
	recNoUpload bool
	recNoNotify bool
	recNoDelete bool
	recForce    bool
	recUser     string
)

var recordCmd = &cobra.Command{
	Use:   "record <video-id|url>",
	Short: "Record a single stream now: wait for its start if scheduled, then download, remux, upload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bootstrap()
		return runRecord(args[0])
	},
}

func init() {
	recordCmd.Flags().BoolVar(&recNoRemux, "no-remux", false, "keep the raw ts, skip the mp4 remux")
	recordCmd.Flags().BoolVar(&recNoUpload, "no-upload", false, "keep the recording local")
	recordCmd.Flags().BoolVar(&recNoNotify, "no-notify", false, "skip notifications")
	recordCmd.Flags().BoolVar(&recNoDelete, "no-delete", false, "keep local work files after uploading")
	recordCmd.Flags().BoolVar(&recForce, "force", false, "record even when another downloader owns the target")
	recordCmd.Flags().StringVar(&recUser, "user", "", "override the channel name used for paths and notifications")
}

// parseVideoID accepts a bare id, a watch url or a youtu.be short link.
func parseVideoID(arg string) string {
	if strings.Contains(arg, "youtu.be/") {
		parts := strings.Split(arg, "youtu.be/")
		return strings.SplitN(parts[len(parts)-1], "?", 2)[0]
	}
	if strings.Contains(arg, "v=") {
		if u, err := url.Parse(arg); err == nil {
			if v := u.Query().Get("v"); v != "" {
				return v
			}
		}
	}
	return arg
}

func runRecord(arg string) error {
	videoID := parseVideoID(arg)
	log.Infof("Starting download for %s", videoID)

	store := state.NewFileStore(config.Config.StateFile)
	if err := store.Acquire(videoID, os.Getpid()); err != nil {
		if !recForce {
			return err
		}
		log.Warnf("%v, continuing because of --force", err)
	}
	defer store.Release(videoID, os.Getpid())

	ctx := base.GetCtx("Youtube")
	if ctx == nil {
		freshCtx := base.CreateMonitorCtx(config.ModuleConfig{})
		ctx = &freshCtx
	}

	st, det, err := youtube.FetchVideo(ctx, videoID)
	if err != nil {
		return err
	}
	switch st {
	case youtube.StateAvailable:
	case youtube.StateUpcoming:
		if err := youtube.WaitForStart(ctx, videoID, det.ScheduledStart); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s is not recordable: %s", videoID, st)
	}

	channelName := det.Author
	if recUser != "" {
		channelName = recUser
	}
	if channelName == "" {
		channelName = videoID
	}
	video := &interfaces.VideoInfo{
		Title:    utils.RemoveIllegalChar(det.Title),
		Date:     utils.GetTimeNow(),
		Target:   "https://www.youtube.com/watch?v=" + videoID,
		VideoID:  videoID,
		Provider: "Youtube",
		WorkID:   uuid.New().String(),
		UsersConfig: config.UsersConfig{
			Name:         utils.RemoveIllegalChar(channelName),
			NeedDownload: true,
		},
	}
	log.Infof("Channel: %s", video.UsersConfig.Name)
	log.Infof("Title: %s", video.Title)

	downDir, err := utils.MakeDir(config.Config.DownloadDir + "/" + video.UsersConfig.Name)
	if err != nil {
		return err
	}
	video.UsersConfig.DownloadDir = downDir

	tsPath := utils.GenerateFilepath(downDir, video.Title+".ts")
	down := downloader.GetDownloader("streamlink")
	if down.DownloadVideo(video, "", "", tsPath) == "" {
		return fmt.Errorf("download produced no file for %s", videoID)
	}

	if recNoRemux {
		video.FilePath = tsPath
	} else {
		mp4Path := videoworker.Ts2Mp4(video, tsPath, utils.ChangeName(downDir+"/"+video.Title+".mp4"))
		if mp4Path == "" {
			// the raw ts is still worth uploading
			video.FilePath = tsPath
		} else {
			video.FilePath = mp4Path
		}
	}
	video.FileName = video.Title

	if recNoDelete {
		config.Config.DeleteAfterWork = false
	}

	var remotePath string
	if !recNoUpload {
		ledger, err := state.OpenLedger(config.Config.LedgerFile)
		if err != nil {
			return err
		}
		defer ledger.Close()
		remotePath, err = plugins.UploadRecording(ledger, video)
		if err != nil {
			return err
		}
	} else {
		log.Info("Skipping upload")
	}

	if !recNoNotify {
		link := remotePath
		if link == "" {
			link = video.FilePath
		}
		_ = plugins.SendMail(video.UsersConfig.Name, video.Title, link)
	} else {
		log.Info("Skipping notify")
	}

	youtube.MarkHandled(videoID)
	log.Info("All done!")
	return nil
}
