package downloader

import (
	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/live/videoworker/downloader/provbase"
	"github.com/reisen39/namarec/live/videoworker/downloader/provhttp"
	"github.com/reisen39/namarec/live/videoworker/downloader/provstreamlink"
)

func GetDownloader(providerName string) *provbase.Downloader {
	switch providerName {
	case "", "streamlink":
		return &provbase.Downloader{Prov: &provstreamlink.DownloaderStreamlink{}}
	case "http":
		return &provbase.Downloader{Prov: &provhttp.DownloaderHttp{}}
	default:
		log.Fatalf("Unknown download provider %s", providerName)
		return nil
	}
}
