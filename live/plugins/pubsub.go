package plugins

import (
	"github.com/go-redis/redis"
	log "github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/config"
)

var redisClient *redis.Client

// InitPubsub connects the notification bus. Publishing stays a no-op when no
// redis host is configured.
func InitPubsub() {
	if config.Config == nil || config.Config.RedisHost == "" {
		return
	}
	redisClient = redis.NewClient(
		&redis.Options{
			Addr:     config.Config.RedisHost,
			Password: "",
			DB:       0,
		})
}

func Publish(data []byte, channel string) {
	if redisClient == nil {
		return
	}
	if err := redisClient.Publish(channel, data).Err(); err != nil {
		log.WithError(err).Warnf("publish to %s failed", channel)
	}
}
