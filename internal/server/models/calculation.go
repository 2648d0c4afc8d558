package models

import (
	"fmt"
	"strings"
	"time"
)

// CalculationType is the tagged variant of a calculation. Dispatch is by
// explicit enum, not open-ended subtyping; unknown strings are rejected at
// the boundary via ParseCalculationType.
type CalculationType string

const (
	CalculationAddition       CalculationType = "addition"
	CalculationSubtraction    CalculationType = "subtraction"
	CalculationMultiplication CalculationType = "multiplication"
	CalculationDivision       CalculationType = "division"
	CalculationModulus        CalculationType = "modulus"
)

// ParseCalculationType matches a user-supplied string (case-insensitive)
// against the known variants.
func ParseCalculationType(s string) (CalculationType, error) {
	switch CalculationType(strings.ToLower(s)) {
	case CalculationAddition:
		return CalculationAddition, nil
	case CalculationSubtraction:
		return CalculationSubtraction, nil
	case CalculationMultiplication:
		return CalculationMultiplication, nil
	case CalculationDivision:
		return CalculationDivision, nil
	case CalculationModulus:
		return CalculationModulus, nil
	default:
		return "", fmt.Errorf("unsupported calculation type: %s", s)
	}
}

type Calculation struct {
	ID        string
	UserID    string
	Type      CalculationType
	Inputs    []float64
	Result    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
