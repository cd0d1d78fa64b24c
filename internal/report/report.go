// Package report formats the end-of-session summary.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vedantwpatil/time-elapse-recorder/internal/inspect"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// Summary describes a finished session.
type Summary struct {
	Frames         int
	Interval       time.Duration
	OutputFPS      int
	Path           string
	EncoderWarning string
	// Started is when recording began, Elapsed the wall time until the
	// output was finalized.
	Started time.Time
	Elapsed time.Duration
	// Info is set when the output file could be probed.
	Info *inspect.Info
}

// RecordedDuration is the wall time the recorded frames span.
func (s Summary) RecordedDuration() time.Duration {
	return time.Duration(s.Frames) * s.Interval
}

// VideoLength is the playback length of the recorded frames.
func (s Summary) VideoLength() time.Duration {
	if s.OutputFPS <= 0 {
		return 0
	}
	return time.Duration(float64(s.Frames) / float64(s.OutputFPS) * float64(time.Second))
}

// Speedup is how much faster than real time the video plays.
func (s Summary) Speedup() float64 {
	return s.Interval.Seconds() * float64(s.OutputFPS)
}

func (s Summary) rows() [][2]string {
	rows := [][2]string{
		{"Output", s.Path},
		{"Frames recorded", fmt.Sprintf("%d", s.Frames)},
		{"Recorded time", fmt.Sprintf("%.1fs", s.RecordedDuration().Seconds())},
		{"Video length", fmt.Sprintf("%.2fs", s.VideoLength().Seconds())},
		{"Speed-up", fmt.Sprintf("%.0fx", s.Speedup())},
	}
	if !s.Started.IsZero() {
		rows = append(rows, [2]string{"Session", fmt.Sprintf("%s (%s)",
			s.Started.Format("2006-01-02 15:04:05"), s.Elapsed.Round(time.Second))})
	}
	if s.Info != nil {
		rows = append(rows, [2]string{"File", s.Info.String()})
	}
	return rows
}

// Render draws the summary as a bordered box.
func (s Summary) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recording finished"))
	for _, r := range s.rows() {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", r[0])))
		b.WriteString(valueStyle.Render(r[1]))
	}
	if s.EncoderWarning != "" {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("Warning: " + s.EncoderWarning))
	}
	return boxStyle.Render(b.String())
}
