package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sorinirimies/netrunner-cli/netlib"
)

var (
	colorHeader   = color.New(color.Bold, color.FgCyan)
	colorLabel    = color.New(color.FgBlue)
	colorGood     = color.New(color.FgGreen)
	colorWarning  = color.New(color.FgYellow)
	colorFailure  = color.New(color.Bold, color.FgRed)
	colorDimmed   = color.New(color.Faint)
	colorSelected = color.New(color.Bold)
)

func printJSONReport(w io.Writer, report netlib.Report) {
	encoder := json.NewEncoder(w)

	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	encoder.Encode(report) // nolint: errcheck
}

func printReport(w io.Writer, report netlib.Report) {
	loc := report.Location

	colorHeader.Fprintln(w, "Location")
	fmt.Fprintf(w, "  %s %s, %s\n", colorLabel.Sprint("place:"), loc.City, loc.Country)
	fmt.Fprintf(w, "  %s %.4f, %.4f\n", colorLabel.Sprint("coordinates:"), loc.Latitude, loc.Longitude)

	if loc.ISP != "" {
		fmt.Fprintf(w, "  %s %s\n", colorLabel.Sprint("isp:"), loc.ISP)
	}

	if report.Fallback {
		fmt.Fprintf(w, "  %s %s\n", colorLabel.Sprint("source:"),
			colorWarning.Sprint("fallback, all geolocation providers have failed"))
	} else {
		fmt.Fprintf(w, "  %s %s\n", colorLabel.Sprint("source:"), loc.Source)
	}

	fmt.Fprintln(w)

	reachable := 0

	for _, v := range report.Probes {
		if v.Success {
			reachable++
		}
	}

	colorHeader.Fprintf(w, "Servers (%d/%d reachable)\n", reachable, len(report.Candidates))

	for i, v := range report.Selected {
		prefix := colorSelected.Sprintf("  %d. %s", i+1, v.Candidate.Name)
		details := []string{
			v.Candidate.Class.String(),
			fmt.Sprintf("%.1f ms", v.LatencyMs),
			fmt.Sprintf("jitter %.1f ms", v.JitterMs),
		}

		if v.Candidate.Coordinate != nil {
			details = append(details, fmt.Sprintf("%.0f km", v.DistanceKm))
		}

		fmt.Fprintf(w, "%s %s %s\n",
			prefix,
			colorDimmed.Sprintf("(%s)", strings.Join(details, ", ")),
			colorGood.Sprintf("score %.2f", v.Quality))
		fmt.Fprintf(w, "     %s\n", colorDimmed.Sprint(v.Candidate.Endpoint))
	}
}

func printFailure(w io.Writer, message string) {
	colorFailure.Fprintln(w, message)
}
