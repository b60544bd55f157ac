package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitScalerRoundTripAtMean(t *testing.T) {
	vectors := [][]float64{
		{70, 115, 75, 95, 6.0, 8.0, 2.5},
		{80, 125, 85, 105, 4.0, 6.0, 4.5},
		{90, 135, 80, 145, 2.0, 5.0, 6.5},
	}
	scaler, err := FitScaler(FeatureNames(), vectors)
	require.NoError(t, err)

	// Transforming the per-feature training mean must land exactly on zero.
	scaled, err := scaler.Transform(append([]float64(nil), scaler.Means...))
	require.NoError(t, err)
	for i, v := range scaled {
		require.InDelta(t, 0, v, 1e-12, "feature %s", scaler.Features[i])
	}
}

func TestFitScalerPopulationStats(t *testing.T) {
	vectors := [][]float64{
		{1, 0, 0, 0, 0, 0, 0},
		{3, 0, 0, 0, 0, 0, 0},
	}
	scaler, err := FitScaler(FeatureNames(), vectors)
	require.NoError(t, err)
	require.InDelta(t, 2.0, scaler.Means[0], 1e-12)
	// Population stddev of {1,3}, not the sample estimate.
	require.InDelta(t, 1.0, scaler.Scales[0], 1e-12)
}

func TestTransformConstantColumn(t *testing.T) {
	vectors := [][]float64{
		{70, 120, 80, 100, 5, 7, 3},
		{75, 120, 82, 110, 6, 8, 4},
	}
	scaler, err := FitScaler(FeatureNames(), vectors)
	require.NoError(t, err)
	require.Zero(t, scaler.Scales[1])

	scaled, err := scaler.Transform([]float64{70, 999, 80, 100, 5, 7, 3})
	require.NoError(t, err)
	// A degenerate column is defined to scale to zero, never divide by zero.
	require.Zero(t, scaled[1])
}

func TestTransformImputesMissingWithMean(t *testing.T) {
	vectors := [][]float64{
		{60, 110, 70, 80, 1, 5, 2},
		{80, 130, 90, 120, 3, 7, 4},
		{math.NaN(), 120, 80, 100, 2, 6, 3},
	}
	scaler, err := FitScaler(FeatureNames(), vectors)
	require.NoError(t, err)
	// NaN cells are excluded from the fitted statistics.
	require.InDelta(t, 70.0, scaler.Means[0], 1e-12)

	scaled, err := scaler.Transform([]float64{math.NaN(), 120, 80, 100, 2, 6, 3})
	require.NoError(t, err)
	// Mean imputation before scaling puts the missing value at zero.
	require.Zero(t, scaled[0])
}

func TestTransformRejectsWrongWidth(t *testing.T) {
	scaler, err := FitScaler(FeatureNames(), [][]float64{
		{60, 110, 70, 80, 1, 5, 2},
		{80, 130, 90, 120, 3, 7, 4},
	})
	require.NoError(t, err)
	_, err = scaler.Transform([]float64{1, 2, 3})
	require.Error(t, err)
}

func TestFitScalerRejectsEmpty(t *testing.T) {
	_, err := FitScaler(FeatureNames(), nil)
	require.Error(t, err)
	_, err = FitScaler(nil, [][]float64{{1}})
	require.Error(t, err)
}
