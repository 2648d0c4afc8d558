// Package calc evaluates calculations over a list of numeric inputs.
package calc

import (
	"fmt"
	"math"

	"github.com/dmitrijs2005/calcledger/internal/common"
	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

// Compute evaluates inputs under the given calculation type. At least two
// inputs are required; division and modulus reject a zero anywhere after
// the first operand. Validation failures wrap common.ErrorValidation.
func Compute(calcType models.CalculationType, inputs []float64) (float64, error) {
	if len(inputs) < 2 {
		return 0, fmt.Errorf("%w: at least two numbers are required", common.ErrorValidation)
	}

	switch calcType {
	case models.CalculationAddition:
		result := 0.0
		for _, v := range inputs {
			result += v
		}
		return result, nil

	case models.CalculationSubtraction:
		result := inputs[0]
		for _, v := range inputs[1:] {
			result -= v
		}
		return result, nil

	case models.CalculationMultiplication:
		result := 1.0
		for _, v := range inputs {
			result *= v
		}
		return result, nil

	case models.CalculationDivision:
		result := inputs[0]
		for _, v := range inputs[1:] {
			if v == 0 {
				return 0, fmt.Errorf("%w: cannot divide by zero", common.ErrorValidation)
			}
			result /= v
		}
		return result, nil

	case models.CalculationModulus:
		result := inputs[0]
		for _, v := range inputs[1:] {
			if v == 0 {
				return 0, fmt.Errorf("%w: cannot take modulus by zero", common.ErrorValidation)
			}
			result = math.Mod(result, v)
		}
		return result, nil

	default:
		return 0, fmt.Errorf("%w: unsupported calculation type: %s", common.ErrorValidation, calcType)
	}
}
