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

package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// ErrMalformedText is returned by ReadText for rows with the wrong number of fields or non-numeric fields.
var ErrMalformedText = errors.New("malformed text data")

// ColumnNames returns the names given to the columns of the DataFrame built by ReadDataFrame:
// "x0", "x1", ... for the inputs and "y0", "y1", ... for the targets.
func ColumnNames(numInputs, numTargets int) []string {
	names := make([]string, 0, numInputs+numTargets)
	for ii := range numInputs {
		names = append(names, fmt.Sprintf("x%d", ii))
	}
	for ii := range numTargets {
		names = append(names, fmt.Sprintf("y%d", ii))
	}
	return names
}

// ReadDataFrame reads whitespace-delimited numeric rows from r into a DataFrame of float columns
// named by ColumnNames. Blank lines are skipped.
//
// Every row must have exactly numInputs+numTargets fields, all parseable as float64.
func ReadDataFrame(r io.Reader, numInputs, numTargets int) (dataframe.DataFrame, error) {
	if numInputs <= 0 || numTargets <= 0 {
		return dataframe.DataFrame{}, errors.Errorf("ReadDataFrame: numInputs (%d) and numTargets (%d) must be positive",
			numInputs, numTargets)
	}
	numFields := numInputs + numTargets
	var records [][]string
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != numFields {
			return dataframe.DataFrame{}, errors.WithMessagef(ErrMalformedText, "line %d has %d fields, wanted %d",
				lineNum, len(fields), numFields)
		}
		for ii, field := range fields {
			if _, err := strconv.ParseFloat(field, 64); err != nil {
				return dataframe.DataFrame{}, errors.WithMessagef(ErrMalformedText, "line %d, field %d: %q is not a number",
					lineNum, ii, field)
			}
		}
		records = append(records, fields)
	}
	if err := scanner.Err(); err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, "ReadDataFrame: failed reading text")
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, errors.WithMessage(ErrEmptyMatrix, "ReadDataFrame: no rows found")
	}

	names := ColumnNames(numInputs, numTargets)
	types := make(map[string]series.Type, numFields)
	for _, name := range names {
		types[name] = series.Float
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(false), dataframe.DetectTypes(false), dataframe.DefaultType(series.Float),
		dataframe.Names(names...), dataframe.WithTypes(types))
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Err, "ReadDataFrame: failed to build DataFrame")
	}
	klog.V(1).Infof("ReadDataFrame: %d rows x %d columns", df.Nrow(), df.Ncol())
	return df, nil
}

// Split separates the columns of df into the inputs (first numInputs columns) and targets
// (the remaining columns) matrices, with one row per DataFrame row.
func Split(df dataframe.DataFrame, numInputs int) (inputs, targets *mat.Dense, err error) {
	numCols := df.Ncol()
	if numInputs <= 0 || numInputs >= numCols {
		return nil, nil, errors.Errorf("Split: numInputs=%d must be in the range [1, %d)", numInputs, numCols)
	}
	numRows := df.Nrow()
	inputs = mat.NewDense(numRows, numInputs, nil)
	targets = mat.NewDense(numRows, numCols-numInputs, nil)
	for colIdx, name := range df.Names() {
		values := df.Col(name).Float()
		for row, v := range values {
			if colIdx < numInputs {
				inputs.Set(row, colIdx, v)
			} else {
				targets.Set(row, colIdx-numInputs, v)
			}
		}
	}
	return inputs, targets, nil
}

// ReadText reads whitespace-delimited numeric rows from r: the first numInputs columns of each
// row are the input features and the remaining numTargets columns are the targets.
func ReadText(r io.Reader, numInputs, numTargets int) (inputs, targets *mat.Dense, err error) {
	df, err := ReadDataFrame(r, numInputs, numTargets)
	if err != nil {
		return nil, nil, err
	}
	return Split(df, numInputs)
}

// LoadText opens the file in path and reads it with ReadText.
func LoadText(path string, numInputs, numTargets int) (inputs, targets *mat.Dense, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "LoadText(%q)", path)
	}
	defer func() { _ = f.Close() }()
	inputs, targets, err = ReadText(f, numInputs, numTargets)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "LoadText(%q)", path)
	}
	return inputs, targets, nil
}
