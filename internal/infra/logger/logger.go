package logger

import "go.uber.org/zap"

// Log is the process-wide logger. It is a no-op until Init runs, so packages
// and tests can log unconditionally.
var Log = zap.NewNop()

// Init builds the logger for env ("production" → JSON, anything else → console).
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

func Sync() {
	_ = Log.Sync()
}
