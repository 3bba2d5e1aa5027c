package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

func Init() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

var Log = Init()

// SetLevel switches the global logger level; unknown names keep the current one.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Log.Warnf("unknown log level %q, keeping %s", level, Log.GetLevel())
		return
	}
	Log.SetLevel(lvl)
}
