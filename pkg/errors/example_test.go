package errors_test

import (
	"errors"
	"fmt"

	crispErrors "github.com/ezoic/crispdm/pkg/errors"
)

// Example_customErrorTypes demonstrates custom error type handling
func Example_customErrorTypes() {
	dimErr := crispErrors.NewDimensionError("Transform", 5, 3, 1)
	wrappedErr := fmt.Errorf("preprocessing failed: %w", dimErr)

	var dimensionErr *crispErrors.DimensionError
	if errors.As(wrappedErr, &dimensionErr) {
		fmt.Printf("Dimension error: expected %d, got %d\n",
			dimensionErr.Expected, dimensionErr.Got)
	}

	// Output: Dimension error: expected 5, got 3
}

// Example_invalidParameter shows how the presentation layer turns a range
// violation into a message.
func Example_invalidParameter() {
	err := crispErrors.NewInvalidParameterError("n", 20, 50, 500)

	var ipe *crispErrors.InvalidParameterError
	if errors.As(err, &ipe) {
		fmt.Printf("%s out of range [%g, %g]\n", ipe.Param, ipe.Min, ipe.Max)
	}

	// Output: n out of range [50, 500]
}

// Example_errorLogging demonstrates structured error messages
func Example_errorLogging() {
	baseErr := crispErrors.NewModelError("LinearRegression.Fit", "singular matrix",
		crispErrors.ErrSingularMatrix)
	opErr := fmt.Errorf("modeling phase: %w", baseErr)

	fmt.Printf("Error occurred: %v\n", opErr)

	// Output: Error occurred: modeling phase: crispdm: LinearRegression.Fit: singular matrix: singular matrix
}
