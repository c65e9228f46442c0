/*
 *	Copyright 2026 The nnframework Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package model

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).
				Padding(0, 2, 0, 2).Align(lipgloss.Center)
	summaryCellStyle = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
)

func newSummaryTable(headers ...string) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return summaryHeaderStyle
			}
			if col == 0 {
				return summaryCellStyle.Align(lipgloss.Right)
			}
			return summaryCellStyle.Align(lipgloss.Left)
		})
}

// Summary writes to w a report of the compiled model: one row per layer with its width, learnable
// coefficients and activation, followed by the totals and the configured loss, metric and optimizer.
//
// It fails with ErrModelNotCompiled if the model is not compiled.
func (m *Model) Summary(w io.Writer) error {
	if !m.compiled {
		return errors.WithMessagef(ErrModelNotCompiled, "Model(%s).Summary", m.name)
	}
	layersTable := newSummaryTable("Layer", "Width", "Coefficients", "Activation")
	for _, layer := range m.layers {
		layersTable.Row(
			fmt.Sprintf("#%d", layer.ID()),
			humanize.Comma(int64(layer.Width())),
			humanize.Comma(int64(layer.LearnableCoeffs())),
			layer.Activation().Name())
	}

	optimizer := m.config.Optimizer()
	configTable := newSummaryTable("Model", m.name)
	configTable.Row("# layers", humanize.Comma(int64(len(m.layers))))
	configTable.Row("# coefficients", humanize.Comma(int64(m.learnableCoeffs)))
	configTable.Row("loss", m.config.Loss().Name())
	configTable.Row("metric", m.config.Metric().Name())
	configTable.Row("optimizer", fmt.Sprintf("%s (learning rate %g)", optimizer.Name(), optimizer.LearningRate()))
	configTable.Row("shuffle", m.config.Shuffle().String())
	if epochs := m.history.Len(); epochs > 0 {
		configTable.Row("trained epochs", humanize.Comma(int64(epochs)))
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", layersTable.Render(), configTable.Render()); err != nil {
		return errors.Wrapf(err, "Model(%s).Summary: failed to write", m.name)
	}
	return nil
}
