// Copyright 2026 The nnframework Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/nnframework/nnframework/pkg/ml/model"
	"github.com/schollz/progressbar/v3"
)

// ExtraMetricFn is any function that will give extra values to display along the progress bar.
// It is called at each time the progress bar is updated, and it should return a name and the current value when it is called.
type ExtraMetricFn func() (name, value string)

// progressBar holds a progressbar being displayed.
type progressBar struct {
	bar *progressbar.ProgressBar

	// lipgloss-based rich display for the command-line.
	termenv       *termenv.Output
	interactive   bool
	statsStyle    lipgloss.Style
	statsTable    *lgtable.Table
	isFirstOutput bool

	epochStart     time.Time
	epochDurations []time.Duration
	extraMetricFns []ExtraMetricFn
}

// ProgressbarStyle to use. Defaults to the ASCII version.
// Consider "progressbar.ThemeUnicode" for a prettier version.
// But it requires some of the graphical symbols to be supported.
var ProgressbarStyle = progressbar.ThemeASCII

func (pBar *progressBar) onStart(_ *model.Model, epochs, rows int) error {
	pBar.isFirstOutput = true
	pBar.epochDurations = pBar.epochDurations[:0]
	pBar.bar = progressbar.NewOptions(epochs,
		progressbar.OptionSetDescription(fmt.Sprintf("      [bold]%s samples[reset]", humanize.Comma(int64(rows)))),
		progressbar.OptionUseANSICodes(pBar.interactive),
		progressbar.OptionEnableColorCodes(pBar.interactive),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("epochs"),
		progressbar.OptionSetTheme(ProgressbarStyle),
		progressbar.OptionSetWriter(os.Stdout),
	)
	pBar.epochStart = time.Now()
	return nil
}

func (pBar *progressBar) onEpoch(m *model.Model, stats model.EpochStats) error {
	now := time.Now()
	pBar.epochDurations = append(pBar.epochDurations, now.Sub(pBar.epochStart))
	pBar.epochStart = now

	config := m.Configuration()
	metric := config.Metric()
	pBar.statsTable.Data(lgtable.NewStringData())
	pBar.statsTable.Row("Epoch", fmt.Sprintf("%s of %s", humanize.Comma(int64(stats.Epoch+1)), humanize.Comma(int64(stats.Epochs))))
	pBar.statsTable.Row("Median epoch duration", FormatDuration(pBar.medianEpochDuration()))
	pBar.statsTable.Row(config.Loss().Name(), fmt.Sprintf("%.6g", stats.Loss))
	pBar.statsTable.Row(metric.Name(), metric.PrettyPrint(stats.Metric))
	for _, extraMetric := range pBar.extraMetricFns {
		name, value := extraMetric()
		pBar.statsTable.Row(name, value)
	}

	// For an interactive terminal, we clear the previous lines that will be overwritten.
	if pBar.interactive {
		pBar.termenv.HideCursor()
		if !pBar.isFirstOutput {
			numLinesToBackup := 4 + 2 + 2 + len(pBar.extraMetricFns)
			pBar.termenv.CursorPrevLine(numLinesToBackup)
		}
	}
	pBar.isFirstOutput = false

	fmt.Println(pBar.statsStyle.Render(pBar.statsTable.String()))
	_ = pBar.bar.Add(1) // Prints progress bar line.
	fmt.Println()
	if pBar.interactive {
		pBar.termenv.ShowCursor()
	}
	return nil
}

func (pBar *progressBar) onEnd(_ *model.Model, _ model.History) error {
	if pBar.interactive {
		pBar.termenv.ShowCursor()
	}
	fmt.Println()
	return nil
}

func (pBar *progressBar) medianEpochDuration() time.Duration {
	if len(pBar.epochDurations) == 0 {
		return 0
	}
	times := slices.Clone(pBar.epochDurations)
	slices.Sort(times)
	return times[len(times)/2]
}

// ProgressBarName is the name of the hooks registered by AttachProgressBar.
const ProgressBarName = "nnframework.ui.commandline.progressBar"

var (
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	tableBorderColor  = "#705090"
)

// AttachProgressBar creates a commandline progress bar and attaches it to the model, so that
// every time Model.Fit is run, it will display a progress bar over the epochs, along with a table with
// the loss and metric of the last epoch.
//
// Optionally, one can provide extraMetrics: functions that are called at every update of
// the progress bar and should return a name (title) and a value to be included in the
// updated print-out.
func AttachProgressBar(m *model.Model, extraMetrics ...ExtraMetricFn) {
	pBar := &progressBar{
		termenv:        termenv.NewOutput(os.Stdout),
		interactive:    isatty.IsTerminal(os.Stdout.Fd()),
		statsStyle:     lipgloss.NewStyle().PaddingLeft(8),
		extraMetricFns: extraMetrics,
	}
	pBar.statsTable = lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return rightAlignedStyle
			}
			return normalStyle
		})
	m.OnStart(ProgressBarName, 0, pBar.onStart)
	m.OnEpoch(ProgressBarName, 0, pBar.onEpoch)
	m.OnEnd(ProgressBarName, 0, pBar.onEnd)
}
