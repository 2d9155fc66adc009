package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

func invalidType(name string) error {
	return errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int or float", name)
}

func invalidWindow(name string, window, minimum int) error {
	return errors.NewInvalidArgumentError(name, window, fmt.Sprintf("must be an integer >= %d", minimum))
}

func fractionalWindow(name string, window float64) error {
	return errors.NewInvalidArgumentError(name, window, "must be a whole number")
}

func paramCount(indicator string, expected string) error {
	return errors.Newf(errors.ErrCodeInvalidParameter, "%s Config expects %s", indicator, expected)
}
