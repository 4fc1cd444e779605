// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/countervm/utils"
)

const (
	logMaxSizeMB = 8
	logMaxFiles  = 4
	logMaxAgeDay = 7
)

// newLogger returns a logger named [name] that writes JSON records to a
// rotating file under [dir]. When [display] is set, records are also echoed
// to stderr in color. Stopping the logger closes the file.
func newLogger(dir string, level logging.Level, display bool, name string) (logging.Logger, func(), error) {
	dir, err := utils.InitSubDirectory(dir, "")
	if err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name+".log"),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxFiles,
		MaxAge:     logMaxAgeDay,
	}
	fileCore := logging.NewWrappedCore(level, file, logging.JSON.FileEncoder())

	var console io.WriteCloser = nopCloser{io.Discard}
	if display {
		console = nopCloser{os.Stderr}
	}
	consoleCore := logging.NewWrappedCore(level, console, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = !display

	log := logging.NewLogger(logging.JSON.WrapPrefix(name), consoleCore, fileCore)
	return log, log.Stop, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
