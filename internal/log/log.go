package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// Configure sets up the global logger. Level is one of trace, debug, info,
// warn, error; format is "console" or "json".
func Configure(level, format string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetOutput(os.Stderr)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
}

// fields converts alternating key/value pairs into logrus fields. A trailing
// key without a value is recorded under "arg".
func fields(kv []any) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		f[key] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		f["arg"] = kv[len(kv)-1]
	}
	return f
}

func Trace(msg string, kv ...any) { logger.WithFields(fields(kv)).Trace(msg) }
func Debug(msg string, kv ...any) { logger.WithFields(fields(kv)).Debug(msg) }
func Info(msg string, kv ...any)  { logger.WithFields(fields(kv)).Info(msg) }
func Warn(msg string, kv ...any)  { logger.WithFields(fields(kv)).Warn(msg) }
func Error(msg string, kv ...any) { logger.WithFields(fields(kv)).Error(msg) }
