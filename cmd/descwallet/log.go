// Copyright (c) 2025 The descwallet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/lightninglabs/neutrino"
	"github.com/walletkit/descwallet/chain"
	"github.com/walletkit/descwallet/descriptor"
	"github.com/walletkit/descwallet/wallet"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers are created from it and have their levels set
// individually. The use of the logWriter implementation means all log
// output is written both to stdout and the log rotator, when present.
var (
	// logRotator is one of the logging outputs. It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	backendLog = btclog.NewBackend(logWriter{})

	log     = backendLog.Logger("DWLT")
	descLog = backendLog.Logger("DESC")
	chnsLog = backendLog.Logger("CHNS")
	wlltLog = backendLog.Logger("WLLT")
	ntrnLog = backendLog.Logger("NTRN")
	rpccLog = backendLog.Logger("RPCC")
)

// Initialize package-global logger variables.
func init() {
	descriptor.UseLogger(descLog)
	chain.UseLogger(chnsLog)
	wallet.UseLogger(wlltLog)
	neutrino.UseLogger(ntrnLog)
	rpcclient.UseLogger(rpccLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"DWLT": log,
	"DESC": descLog,
	"CHNS": chnsLog,
	"WLLT": wlltLog,
	"NTRN": ntrnLog,
	"RPCC": rpccLog,
}

// initLogRotator initializes the logging rotator to write logs to logFile and
// create roll files in the same directory. It must be called before the
// package-global log rotator variable is used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r

	return nil
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level name. It returns an error if the level is not known.
func setLogLevels(levelName string) error {
	level, ok := btclog.LevelFromString(levelName)
	if !ok {
		return fmt.Errorf("unknown log level: %v", levelName)
	}

	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}

	return nil
}
