package config

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"runtime"

	"github.com/knq/sdhook"
	"github.com/orandin/lumberjackrus"
	"github.com/rclone/rclone/fs"
	"github.com/sirupsen/logrus"

	"github.com/reisen39/namarec/utils"
)

// WriterHook is a hook that writes logs of specified LogLevels to specified Writer
type WriterHook struct {
	Out       io.Writer
	Formatter logrus.Formatter
	LogLevel  logrus.Level
}

func (hook *WriterHook) Fire(entry *logrus.Entry) error {
	serialized, err := hook.Formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to format entry, %v\n", err)
		return err
	}
	if _, err = hook.Out.Write(serialized); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write to logrus, %v\n", err)
	}
	return nil
}

// Levels define on which logrus levels this hook would trigger
func (hook *WriterHook) Levels() []logrus.Level {
	return logrus.AllLevels[:hook.LogLevel+1]
}

var ConsoleHook *WriterHook
var FileHook *lumberjackrus.Hook
var GoogleHook *sdhook.StackdriverHook

// Can't be func init as we need the parsed config
func InitLog() {
	var err error

	logrus.Printf("Init logging!")
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetReportCaller(true)
	formatter := &logrus.TextFormatter{
		ForceColors: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			_, _, shortfname := utils.RPartition(f.Function, ".")
			return fmt.Sprintf("%s()", shortfname), fmt.Sprintf("%s:%d", filename, f.Line)
		},
	}
	logrus.SetFormatter(formatter)

	ConsoleHook = &WriterHook{ // console gets the human-readable stream
		Out:       logrus.StandardLogger().Out,
		Formatter: formatter,
		LogLevel:  logrus.InfoLevel,
	}
	logrus.AddHook(ConsoleHook)
	logrus.StandardLogger().Out = ioutil.Discard

	FileHook, err = lumberjackrus.NewHook(
		&lumberjackrus.LogFile{
			Filename:   Config.LogFile,
			MaxSize:    Config.LogFileSize,
			MaxBackups: 1,
			MaxAge:     1,
			Compress:   false,
			LocalTime:  false,
		},
		logrus.DebugLevel,
		&logrus.JSONFormatter{},
		nil,
	)
	if err != nil {
		panic(fmt.Errorf("NewHook Error: %s", err))
	}
	logrus.AddHook(FileHook)

	GoogleHook, err = sdhook.New(
		sdhook.GoogleLoggingAgent(),
		sdhook.LogName(Config.LogFile),
		sdhook.Levels(logrus.AllLevels[:logrus.DebugLevel+1]...),
	)
	if err != nil {
		logrus.WithField("prof", true).Warnf("Failed to initialize the sdhook: %v", err)
	} else {
		logrus.AddHook(GoogleHook)
	}

	fs.LogPrint = func(level fs.LogLevel, text string) {
		logrus.WithField("src", "rclone").Infof(fmt.Sprintf("%-6s: %s", level, text))
	}

	UpdateLogLevel()
}

// UpdateLogLevel applies the configured levels to our logger and rclone's.
// Called again on every config reload.
func UpdateLogLevel() {
	if Config == nil {
		return
	}
	level := logrus.InfoLevel
	switch Config.LogLevel {
	case "debug":
		level = logrus.DebugLevel
	case "info":
		level = logrus.InfoLevel
	case "warn":
		level = logrus.WarnLevel
	case "error":
		level = logrus.ErrorLevel
	}
	logrus.SetLevel(level)
	if ConsoleHook != nil {
		ConsoleHook.LogLevel = level
	}

	fs.Config.LogLevel = fs.LogLevelInfo
	switch Config.RLogLevel {
	case "debug":
		fs.Config.LogLevel = fs.LogLevelDebug
	case "info":
		fs.Config.LogLevel = fs.LogLevelInfo
	case "warn":
		fs.Config.LogLevel = fs.LogLevelWarning
	case "error":
		fs.Config.LogLevel = fs.LogLevelError
	}
}
