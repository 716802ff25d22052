package provhttp

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	simplejson "github.com/bitly/go-simplejson"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/bytebufferpool"

	"github.com/reisen39/namarec/config"
	"github.com/reisen39/namarec/live/interfaces"
	"github.com/reisen39/namarec/utils"
)

var bufPool bytebufferpool.Pool

// DownloaderHttp asks streamlink for the resolved stream url (--json) and
// then pulls the stream itself, which avoids one python process per
// recording for plain http(s) sources.
type DownloaderHttp struct {
}

func queryStreamInfo(video *interfaces.VideoInfo, proxy string) (*simplejson.Json, error) {
	arg := []string{"--json"}
	if proxy != "" {
		arg = append(arg, "--http-proxy", "socks5://"+proxy)
	}
	arg = append(arg, video.Target, config.Config.DownloadQuality)
	logger := log.WithField("video", video)
	logger.Infof("start to query, command %s", arg)
	ret, stderr := utils.ExecShellEx(logger, false, "streamlink", arg...)
	if stderr != "" {
		logger.Infof("Streamlink err output: %s", stderr)
	}
	if ret == "" {
		return nil, fmt.Errorf("streamlink returned no json")
	}
	infoJson, err := simplejson.NewJson([]byte(ret))
	if err != nil || infoJson == nil {
		return nil, fmt.Errorf("JSON parse failed: %s", ret)
	}
	if slErr := infoJson.Get("error").MustString(); slErr != "" {
		return nil, fmt.Errorf("streamlink error: %s", slErr)
	}
	return infoJson, nil
}

func parseHttpJson(infoJson *simplejson.Json) (string, map[string]string, error) {
	jret := infoJson.Get("url")
	if jret == nil {
		return "", nil, fmt.Errorf("not a good json ret: no url")
	}
	url := jret.MustString()
	headers := make(map[string]string)
	jheaders := infoJson.GetPath("http_headers")
	if jheaders != nil {
		for k, v := range jheaders.MustMap() {
			if s, ok := v.(string); ok {
				headers[k] = s
			}
		}
	}
	return url, headers, nil
}

func (d *DownloaderHttp) StartDownload(video *interfaces.VideoInfo, proxy string, cookie string, filepath string) error {
	infoJson, err := queryStreamInfo(video, proxy)
	if err != nil {
		return err
	}
	streamType := infoJson.Get("type").MustString()
	if !strings.HasPrefix(streamType, "http") {
		return fmt.Errorf("stream type %s isn't a plain http stream, use the streamlink provider", streamType)
	}
	url, headers, err := parseHttpJson(infoJson)
	if err != nil {
		return err
	}
	if cookie != "" {
		headers["Cookie"] = cookie
	}

	logger := log.WithField("video", video)
	logger.Infof("downloading %s to %s", url, filepath)

	client := &http.Client{Timeout: 0}
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 && res.StatusCode != 206 {
		return fmt.Errorf("stream fetch status %d", res.StatusCode)
	}

	out, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := bufPool.Get()
	defer bufPool.Put(buf)
	if cap(buf.B) < 512*1024 {
		buf.B = make([]byte, 512*1024)
	}
	buf.B = buf.B[:cap(buf.B)]

	start := time.Now()
	written, err := io.CopyBuffer(out, res.Body, buf.B)
	logger.Infof("wrote %d bytes in %s", written, time.Since(start))
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}
