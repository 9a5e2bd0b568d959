package app

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// InitLog sends jww output to logPath (or stderr for "" and "-") at the given
// verbosity. The returned closer releases the log file.
func InitLog(threshold uint, logPath string) (io.Closer, error) {
	var closer io.Closer = io.NopCloser(nil)
	jww.SetStdoutOutput(os.Stderr)
	if logPath != "-" && logPath != "" {
		// Disable stderr output
		jww.SetStdoutOutput(io.Discard)
		logOutput, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open log file")
		}
		jww.SetLogOutput(logOutput)
		closer = logOutput
	}

	switch {
	case threshold > 2:
		jww.SetStdoutThreshold(jww.LevelTrace)
		jww.SetLogThreshold(jww.LevelTrace)
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
		jww.INFO.Printf("log level set to: TRACE")
	case threshold == 2:
		jww.SetStdoutThreshold(jww.LevelDebug)
		jww.SetLogThreshold(jww.LevelDebug)
		jww.SetFlags(log.LstdFlags | log.Lmicroseconds)
		jww.INFO.Printf("log level set to: DEBUG")
	case threshold == 1:
		jww.SetStdoutThreshold(jww.LevelInfo)
		jww.SetLogThreshold(jww.LevelInfo)
		jww.INFO.Printf("log level set to: INFO")
	default:
		jww.SetStdoutThreshold(jww.LevelWarn)
		jww.SetLogThreshold(jww.LevelWarn)
	}
	return closer, nil
}
