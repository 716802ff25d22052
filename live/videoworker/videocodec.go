package videoworker

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/utils"
)

// remuxRecording turns the recorded part(s) into a single faststart mp4 and
// stores the result in the VideoInfo.
func (p *ProcessVideo) remuxRecording() string {
	title := p.getFullTitle()
	downloadDir := p.LiveStatus.Video.UsersConfig.DownloadDir
	var videoPath string
	if len(p.videoPathList) == 0 {
		log.Warnf("videoPathList is empty!!!!")
		return ""
	} else if len(p.videoPathList) > 1 {
		mergedName := utils.ChangeName(title + "_merged.mp4")
		mergedPath := downloadDir + "/" + mergedName
		videoPath = p.videoPathList.mergeParts(p.LiveStatus.Video, mergedPath)
	} else {
		mp4Name := utils.ChangeName(title + ".mp4")
		mp4Path := downloadDir + "/" + mp4Name
		videoPath = Ts2Mp4(p.LiveStatus.Video, p.videoPathList[0], mp4Path)
	}
	if videoPath != "" {
		p.LiveStatus.Video.FilePath = videoPath
	}
	return videoPath
}

func remuxArgs(video *interfaces.VideoInfo, input string, outpath string) []string {
	return []string{
		"-y",
		"-i", input,
		"-c", "copy",
		"-movflags", "faststart",
		"-metadata", "title=" + video.Title,
		"-metadata", "artist=" + video.UsersConfig.Name,
		"-metadata", "comment=" + video.Target,
		"-f", "mp4",
		outpath,
	}
}

// mergeParts concats multiple ts parts into one mp4. The source parts are
// only removed once the merged output exists.
func (l VideoPathList) mergeParts(video *interfaces.VideoInfo, outpath string) string {
	co := "concat:"
	for _, aPath := range l {
		co += aPath + "|"
	}
	utils.ExecShell("ffmpeg", remuxArgs(video, co, outpath)...)
	if !utils.IsFileExist(outpath) {
		log.Warnf("mergeParts: %s the video file don't exist", outpath)
		return ""
	}
	for _, aPath := range l {
		_ = os.Remove(aPath)
	}
	return outpath
}

// Ts2Mp4 remuxes a single ts into mp4, keeping the ts when ffmpeg fails so
// nothing recorded is ever thrown away.
func Ts2Mp4(video *interfaces.VideoInfo, tsPath string, outpath string) string {
	utils.ExecShell("ffmpeg", remuxArgs(video, tsPath, outpath)...)
	if !utils.IsFileExist(outpath) {
		log.Warnf("ts2mp4: %s the video file don't exist", outpath)
		return ""
	}
	_ = os.Remove(tsPath)
	return outpath
}
