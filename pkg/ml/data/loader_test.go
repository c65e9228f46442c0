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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doublingText = `0 0
1 2

2   4
3	6
`

func TestReadText(t *testing.T) {
	inputs, targets, err := ReadText(strings.NewReader(doublingText), 1, 1)
	require.NoError(t, err)
	rows, cols := inputs.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 1, cols)
	for row := range rows {
		assert.Equal(t, float64(row), inputs.At(row, 0))
		assert.Equal(t, float64(2*row), targets.At(row, 0))
	}

	df, err := ReadDataFrame(strings.NewReader("1 2 3 4\n5 6 7 8\n"), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"x0", "x1", "x2", "y0"}, df.Names())
	inputs, targets, err = Split(df, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 5, 6, 7}, inputs.RawMatrix().Data)
	assert.Equal(t, []float64{4, 8}, targets.RawMatrix().Data)
}

func TestReadTextErrors(t *testing.T) {
	_, _, err := ReadText(strings.NewReader("1 2\n3\n"), 1, 1)
	require.ErrorIs(t, err, ErrMalformedText)
	assert.Contains(t, err.Error(), "line 2")

	_, _, err = ReadText(strings.NewReader("1 two\n"), 1, 1)
	require.ErrorIs(t, err, ErrMalformedText)

	_, _, err = ReadText(strings.NewReader("\n\n"), 1, 1)
	require.ErrorIs(t, err, ErrEmptyMatrix)

	_, _, err = ReadText(strings.NewReader("1 2\n"), 0, 2)
	require.Error(t, err)
}

func TestLoadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doubling.txt")
	require.NoError(t, os.WriteFile(path, []byte(doublingText), 0o644))
	inputs, targets, err := LoadText(path, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, inputs.At(3, 0))
	assert.Equal(t, 6.0, targets.At(3, 0))

	_, _, err = LoadText(filepath.Join(t.TempDir(), "missing.txt"), 1, 1)
	require.Error(t, err)
}
