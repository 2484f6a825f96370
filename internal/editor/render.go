package editor

import (
	"fmt"
	"io"

	"freecode/internal/domain/model"

	"github.com/fatih/color"
)

var (
	passColor   = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	bannerColor = color.New(color.FgYellow, color.Bold)
	headerColor = color.New(color.FgCyan, color.Bold)
)

// FormatTime renders seconds as "<h>h : <m>m : <s>s" without padding.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh : %dm : %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}

// RenderProblem writes the problem statement panel.
func RenderProblem(w io.Writer, p model.Problem) {
	headerColor.Fprintln(w, p.Title)
	fmt.Fprintln(w, p.Description)
	fmt.Fprintf(w, "Input Format: %s\n", p.InputFormat)
	fmt.Fprintf(w, "Sample Input: %s\n", p.SampleInput)
	fmt.Fprintf(w, "Expected Output: %s\n", p.ExpectedOutput)
}

// RenderResults writes one block per result. Missing fields fall back to the
// sample input, "N/A" and "Error".
func RenderResults(w io.Writer, sampleInput string, results []model.TestResult) {
	fmt.Fprintln(w, "Output:")
	if len(results) == 0 {
		fmt.Fprintln(w, "No output available yet.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "Test Case %d:\n", i+1)
		fmt.Fprintf(w, "  Input: %s\n", orDefault(r.Input, sampleInput))
		fmt.Fprintf(w, "  Expected Output: %s\n", orDefault(r.ExpectedOutput, "N/A"))
		fmt.Fprintf(w, "  User Output: %s\n", orDefault(r.UserOutput, "Error"))
		if r.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", r.Error)
		}
		fmt.Fprint(w, "  Result: ")
		if r.TestPassed {
			passColor.Fprintln(w, "Passed")
		} else {
			failColor.Fprintln(w, "Failed")
		}
	}
}

// Render writes the whole view for a snapshot: timer, banners and results.
func Render(w io.Writer, snap Snapshot) {
	fmt.Fprintf(w, "[%s] %s\n", snap.Language.DisplayName(), FormatTime(snap.TimerSecondsRemaining))
	if snap.State.Pending() {
		fmt.Fprintln(w, "Waiting for the judge...")
	}
	if snap.ShowCongrats() {
		bannerColor.Fprintln(w, MsgAllPassed)
	}
	if snap.ShowSample() {
		fmt.Fprintln(w, "Sample Test Case")
	}
	if snap.LastError != "" {
		failColor.Fprintln(w, snap.LastError)
	}
	RenderResults(w, snap.Problem.SampleInput, snap.Results)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
