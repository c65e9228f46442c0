package plots

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nnframework/nnframework/pkg/ml/model"
	"github.com/nnframework/nnframework/pkg/ml/train/losses"
	"github.com/nnframework/nnframework/pkg/ml/train/metrics"
	"github.com/nnframework/nnframework/pkg/ml/train/optimizers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoints() []Point {
	config := model.NewConfiguration(losses.TypeMeanSquaredError, metrics.NewClassificationAccuracy(),
		optimizers.NewGradientDescent(0.1), model.NoShuffle)
	history := model.History{
		Loss:   []float64{0.5, 0.25, 0.125},
		Metric: []float64{0.1, 0.5, 0.9},
	}
	return PointsFromHistory(history, config)
}

func TestPointsFromHistory(t *testing.T) {
	points := testPoints()
	require.Len(t, points, 6)
	assert.Equal(t, Point{MetricName: "Loss: MeanSquaredError", Short: "mse", MetricType: metrics.LossMetricType,
		Step: 1, Value: 0.5}, points[0])
	assert.Equal(t, metrics.AccuracyMetricType, points[1].MetricType)
	assert.Equal(t, 3.0, points[5].Step)
	assert.Equal(t, 0.9, points[5].Value)

	collection := NewPoints(points)
	assert.Len(t, collection, 3)
	assert.Equal(t, []string{"ClassificationAccuracy", "Loss: MeanSquaredError"}, collection.MetricsNames())
	assert.Equal(t, points, collection.Extract())
	assert.Contains(t, collection.String(), "0.125000")
}

func TestSaveLoadPoints(t *testing.T) {
	points := testPoints()
	filePath := filepath.Join(t.TempDir(), TrainingPlotFileName)
	require.NoError(t, SavePoints(filePath, points))
	contents, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, len(points), strings.Count(string(contents), "\n"))

	loaded, err := LoadPoints(filePath)
	require.NoError(t, err)
	assert.Equal(t, points, loaded)

	_, err = LoadPoints(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "history.png")
	require.NoError(t, SavePNG(filePath, "training", testPoints()))
	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	require.Error(t, SavePNG(filePath, "empty", nil))
}

func TestTableForMetrics(t *testing.T) {
	collection := NewPoints(testPoints())
	table := collection.TableForMetrics("Loss: MeanSquaredError")
	assert.Contains(t, table, "Epoch")
	assert.Contains(t, table, "Loss: MeanSquaredError")
	assert.NotContains(t, table, "ClassificationAccuracy")
	for _, value := range []string{"0.500000", "0.250000", "0.125000"} {
		assert.Contains(t, table, value)
	}
	assert.NotContains(t, table, "0.900000")

	full := collection.String()
	assert.Contains(t, full, "ClassificationAccuracy")
	assert.Contains(t, full, "0.900000")
}
