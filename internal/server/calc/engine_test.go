package calc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/calcledger/internal/common"
	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		calcType models.CalculationType
		inputs   []float64
		want     float64
	}{
		{"addition", models.CalculationAddition, []float64{10.5, 3, 2}, 15.5},
		{"subtraction", models.CalculationSubtraction, []float64{10, 3, 2}, 5},
		{"multiplication", models.CalculationMultiplication, []float64{2, 3, 4}, 24},
		{"division", models.CalculationDivision, []float64{100, 2, 5}, 10},
		{"division negative", models.CalculationDivision, []float64{-100, 2}, -50},
		{"modulus", models.CalculationModulus, []float64{10, 3}, 1},
		{"modulus chain", models.CalculationModulus, []float64{100, 30, 7}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.calcType, tt.inputs)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		calcType models.CalculationType
		inputs   []float64
	}{
		{"too few inputs", models.CalculationAddition, []float64{1}},
		{"empty inputs", models.CalculationAddition, nil},
		{"division by zero", models.CalculationDivision, []float64{10, 0}},
		{"division by zero later", models.CalculationDivision, []float64{10, 2, 0}},
		{"modulus by zero", models.CalculationModulus, []float64{10, 0}},
		{"unknown type", models.CalculationType("exponent"), []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.calcType, tt.inputs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrorValidation), "expected validation error, got %v", err)
		})
	}
}

func TestCompute_LeadingZeroDividendAllowed(t *testing.T) {
	got, err := Compute(models.CalculationDivision, []float64{0, 5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestParseCalculationType(t *testing.T) {
	got, err := models.ParseCalculationType("Addition")
	require.NoError(t, err)
	assert.Equal(t, models.CalculationAddition, got)

	_, err = models.ParseCalculationType("exponent")
	require.Error(t, err)
}
