package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/sorinirimies/netrunner-cli/netlib"
)

type logger struct {
	providerLog zerolog.Logger
	probeLog    zerolog.Logger
	catalogLog  zerolog.Logger
	runLog      zerolog.Logger
}

func (l *logger) ProviderError(name string, err error) {
	l.providerLog.Debug().Str("provider", name).Err(err).Msg("")
}

func (l *logger) ProbeError(candidateID string, err error) {
	l.probeLog.Debug().Str("candidate", candidateID).Err(err).Msg("")
}

func (l *logger) CatalogError(name string, err error) {
	l.catalogLog.Debug().Str("directory", name).Err(err).Msg("")
}

// default output is a report only, run summary is for debug mode.
func (l *logger) RunDone(report netlib.Report) {
	l.runLog.Debug().
		Str("run_id", report.RunID).
		Str("source", report.Location.Source).
		Bool("fallback", report.Fallback).
		Int("candidates", len(report.Candidates)).
		Int("selected", len(report.Selected)).
		Msg("Run is finished")
}

func (l *logger) RunError(err error) {
	l.runLog.Error().Err(err).Msg("")
}

func newLogger(writer io.Writer, debug bool) *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	newLog := func(eventName string) zerolog.Logger {
		return zerolog.New(writer).Level(level).With().Timestamp().Str("event_name", eventName).Logger()
	}

	return &logger{
		providerLog: newLog("provider"),
		probeLog:    newLog("probe"),
		catalogLog:  newLog("catalog"),
		runLog:      newLog("run"),
	}
}
