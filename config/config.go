package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var Config *MainConfig
var ConfigChanged bool

type UsersConfig struct {
	TargetId     string
	Name         string
	DownloadDir  string
	NeedDownload bool
	UserHeaders  map[string]string
	ExtraConfig  map[string]interface{}
}

type ModuleConfig struct {
	Name             string
	Enable           bool
	Users            []UsersConfig
	DownloadProvider string
	ExtraConfig      map[string]interface{}
}

type NotifyConfig struct {
	Enable     bool
	MailServer string
	MailFrom   string
	MailTo     string
}

type MainConfig struct {
	CriticalCheckSec int
	NormalCheckSec   int
	LogFile          string
	LogFileSize      int
	LogLevel         string
	RLogLevel        string
	DownloadQuality  string
	DownloadDir      string
	UploadDir        string
	Module           []ModuleConfig
	RedisHost        string
	StatusPort       string
	EnableRemux      bool
	DeleteAfterWork  bool
	MaxDownloads     int
	StateFile        string
	LedgerFile       string

	// Scheduled streams further out than this aren't waited on, and ones
	// whose start slipped this far into the past are treated as abandoned.
	IgnoreWaitGreaterThanSec      int
	IgnorePastStartGreaterThanSec int

	FeedRatePerMin  int
	VideoInfoPerSec int
	Notify          NotifyConfig
	ExtraConfig     map[string]interface{}
}

func InitConfig(cfgFile string) {
	initConfig(cfgFile)
	_, err := ReloadConfig()
	if err != nil {
		fmt.Printf("config load error: %s\n", err)
		os.Exit(1)
	}
}

func initConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
	}
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Printf("config file error: %s\n", err)
		os.Exit(1)
	}
	viper.WatchConfig()

	ConfigChanged = true
	viper.OnConfigChange(func(in fsnotify.Event) {
		ConfigChanged = true
	})
}

// ReloadConfig re-parses the config if the watcher flagged a change. Unknown
// keys at any struct level are collected into that level's ExtraConfig so
// modules and users can carry provider-specific settings.
func ReloadConfig() (bool, error) {
	if !ConfigChanged {
		return false, nil
	}
	ConfigChanged = false
	err := viper.ReadInConfig()
	if err != nil {
		return true, err
	}
	config := &MainConfig{}
	err = viper.Unmarshal(config, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			func(inType reflect.Type, outType reflect.Type, input interface{}) (interface{}, error) {
				if inType.Kind() == reflect.Map && outType.Kind() == reflect.Struct {
					fieldsMap := make(map[string]reflect.StructField, 10)
					for i := 0; i < outType.NumField(); i++ {
						fieldsMap[strings.ToLower(outType.Field(i).Name)] = outType.Field(i)
					}
					inputMap, ok := input.(map[string]interface{})
					if !ok {
						return input, nil
					}
					extraConfig := make(map[string]interface{}, 5)
					inputMap["ExtraConfig"] = extraConfig
					for key := range inputMap {
						_, ok := fieldsMap[strings.ToLower(key)]
						if !ok {
							extraConfig[key] = inputMap[key]
						}
					}
				}
				return input, nil
			},
			c.DecodeHook)
	})
	if err != nil {
		return true, err
	}
	applyDefaults(config)
	Config = config

	UpdateLogLevel()
	return true, nil
}

func applyDefaults(c *MainConfig) {
	if c.NormalCheckSec == 0 {
		c.NormalCheckSec = 30
	}
	if c.CriticalCheckSec == 0 {
		c.CriticalCheckSec = 10
	}
	if c.DownloadQuality == "" {
		c.DownloadQuality = "best"
	}
	if c.MaxDownloads == 0 {
		c.MaxDownloads = 6
	}
	if c.StateFile == "" {
		c.StateFile = "state.json"
	}
	if c.LedgerFile == "" {
		c.LedgerFile = "uploads.db"
	}
	if c.IgnoreWaitGreaterThanSec == 0 {
		c.IgnoreWaitGreaterThanSec = 4 * 3600
	}
	if c.IgnorePastStartGreaterThanSec == 0 {
		c.IgnorePastStartGreaterThanSec = 2 * 3600
	}
	if c.FeedRatePerMin == 0 {
		c.FeedRatePerMin = 30
	}
	if c.VideoInfoPerSec == 0 {
		c.VideoInfoPerSec = 1
	}
}
