package main

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/afero"
)

// writeMetricsFile dumps metrics in a text exposition format for
// node_exporter textfile collector. File is replaced atomically so the
// collector never reads a partial file.
func writeMetricsFile(fs afero.Fs, gatherer prometheus.Gatherer, path string) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("cannot gather metrics: %w", err)
	}

	buf := bytes.Buffer{}

	for _, v := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, v); err != nil {
			return fmt.Errorf("cannot encode metric family %s: %w", v.GetName(), err)
		}
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create a directory: %w", err)
	}

	tmpPath := path + ".tmp"

	if err := afero.WriteFile(fs, tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write a temporary file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath) // nolint: errcheck

		return fmt.Errorf("cannot move metrics file: %w", err)
	}

	return nil
}
