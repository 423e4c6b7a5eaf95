package main

import (
	"fmt"
	"os"
	"path/filepath"

	"RipeDigest/api"
	"RipeDigest/fswatch"
	"RipeDigest/ipfs"
	"RipeDigest/store"
	"RipeDigest/tree"
	"RipeDigest/ws"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard error and
// the write-end pipe of an initialized log rotator. Standard output is
// reserved for digests.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stderr.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is nil until initLogRotator runs.
	logRotator *rotator.Rotator

	log     = backendLog.Logger("RIPE")
	treeLog = backendLog.Logger("TREE")
	wtchLog = backendLog.Logger("WTCH")
	storLog = backendLog.Logger("STOR")
	apisLog = backendLog.Logger("APIS")
	ipfsLog = backendLog.Logger("IPFS")
)

func init() {
	tree.UseLogger(treeLog)
	fswatch.UseLogger(wtchLog)
	store.UseLogger(storLog)
	api.UseLogger(apisLog)
	ws.UseLogger(apisLog)
	ipfs.UseLogger(ipfsLog)
}

var subsystemLoggers = map[string]slog.Logger{
	"RIPE": log,
	"TREE": treeLog,
	"WTCH": wtchLog,
	"STOR": storLog,
	"APIS": apisLog,
	"IPFS": ipfsLog,
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %v", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %v", err)
	}
	logRotator = r
	return nil
}

// setLogLevels sets the log level for all subsystem loggers. An unknown
// level is an error and leaves the current levels unchanged.
func setLogLevels(logLevel string) error {
	level, ok := slog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid debug level %q: want one of trace, debug, info, warn, error, critical, off", logLevel)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}
