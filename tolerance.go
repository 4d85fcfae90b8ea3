// Package gust tolerance-based verification for floating-point comparisons
package gust

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool

	// CheckInf determines if Inf values should be considered equal
	CheckInf bool
}

// Tolerance32 returns the default tolerance for float32 kernels.
func Tolerance32() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-7,
		RelTol:   1e-6,
		CheckNaN: true,
		CheckInf: true,
	}
}

// Tolerance64 returns the default tolerance for float64 kernels.
func Tolerance64() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-13,
		RelTol:   1e-12,
		CheckNaN: true,
		CheckInf: true,
	}
}

// RelaxedTolerance returns relaxed tolerance for accumulated operations
func RelaxedTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-5,
		RelTol:   1e-3,
		CheckNaN: true,
		CheckInf: true,
	}
}

// NearEqual checks if two values are equal within tolerance
func NearEqual[T Float](a, b T, tol ToleranceConfig) bool {
	fa, fb := float64(a), float64(b)

	// Handle special cases
	if tol.CheckNaN && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}

	if tol.CheckInf {
		if math.IsInf(fa, 1) && math.IsInf(fb, 1) {
			return true
		}
		if math.IsInf(fa, -1) && math.IsInf(fb, -1) {
			return true
		}
	}

	// Check if exactly equal (handles ±0)
	if fa == fb {
		return true
	}

	diff := math.Abs(fa - fb)

	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(fa), math.Abs(fb))
	return diff <= larger*tol.RelTol
}

// VerificationResult summarizes an array comparison
type VerificationResult struct {
	MaxAbsError float64
	MaxRelError float64
	NumErrors   int
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// VerifyArray compares two arrays elementwise and returns detailed results
func VerifyArray[T Float](expected, actual []T, tol ToleranceConfig) VerificationResult {
	result := VerificationResult{
		TotalItems: len(expected),
		FirstError: -1,
	}

	if len(expected) != len(actual) {
		result.NumErrors = len(expected)
		return result
	}

	for i := range expected {
		if !NearEqual(expected[i], actual[i], tol) {
			result.NumErrors++
			if result.FirstError == -1 {
				result.FirstError = i
			}

			absDiff := math.Abs(float64(expected[i] - actual[i]))
			if absDiff > result.MaxAbsError {
				result.MaxAbsError = absDiff
			}

			// Relative error (avoid division by zero)
			if expected[i] != 0 {
				relDiff := absDiff / math.Abs(float64(expected[i]))
				if relDiff > result.MaxRelError {
					result.MaxRelError = relDiff
				}
			}
		}
	}

	return result
}

// IsAcceptable returns true if the verification result is within tolerance
func (r VerificationResult) IsAcceptable(tol ToleranceConfig) bool {
	return r.NumErrors == 0 ||
		(r.MaxAbsError <= tol.AbsTol && r.MaxRelError <= tol.RelTol)
}

// String formats the verification result for display
func (r VerificationResult) String() string {
	if r.NumErrors == 0 {
		return "PASS: All values match within tolerance"
	}

	errorRate := float64(r.NumErrors) / float64(r.TotalItems) * 100
	return fmt.Sprintf("FAIL: %d/%d values differ (%.2f%%)\n"+
		"  Max absolute error: %e\n"+
		"  Max relative error: %e\n"+
		"  First error at index: %d",
		r.NumErrors, r.TotalItems, errorRate,
		r.MaxAbsError, r.MaxRelError,
		r.FirstError)
}
