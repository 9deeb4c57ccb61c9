package calc

import (
	"errors"
	"math"
	"slices"
)

var (
	ErrDivideByZero = errors.New("cannot divide by zero")
	ErrOverflow     = errors.New("result overflows uint64")
)

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func Add[T Number](a, b T) T {
	return a + b
}

func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}

	return a / b, nil
}

// Factorial returns n!. Values of n up to 20 fit into an uint64.
func Factorial(n uint) (uint64, error) {
	result := uint64(1)

	for i := uint64(2); i <= uint64(n); i++ {
		if result > math.MaxUint64/i {
			return 0, ErrOverflow
		}

		result *= i
	}

	return result, nil
}

// Reverse reverses s rune by rune.
func Reverse(s string) string {
	runes := []rune(s)
	slices.Reverse(runes)

	return string(runes)
}

func Sum[T Number](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}

	return total
}
