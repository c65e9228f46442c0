// Copyright 2026 The nnframework Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline contains convenience UI training tools for the command line.
package commandline

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/nnframework/nnframework/pkg/ml/model"
	"github.com/nnframework/nnframework/ui/plots"
	"github.com/pkg/errors"
)

// ReportFit writes to w a table with the loss and metric of every epoch trained by the model, followed by
// the aggregates of the last epoch.
func ReportFit(w io.Writer, m *model.Model) error {
	history := m.History()
	if history.Len() == 0 {
		return nil
	}
	config := m.Configuration()
	if config == nil {
		return errors.WithStack(model.ErrModelNotCompiled)
	}
	points := plots.NewPoints(plots.PointsFromHistory(history, config))
	last := history.Len() - 1
	metric := config.Metric()
	_, err := fmt.Fprintf(w, "%s\nResults after %s epochs:\n\t%s (%s): %g\n\t%s (%s): %s\n",
		points.TableForMetrics(),
		humanize.Comma(int64(history.Len())),
		config.Loss().Name(), config.Loss(), history.Loss[last],
		metric.Name(), metric.ShortName(), metric.PrettyPrint(history.Metric[last]))
	if err != nil {
		return errors.Wrapf(err, "ReportFit(%s): failed to write", m.Name())
	}
	return nil
}
