package seeder

import (
	"fmt"
	"strings"
)

// InvalidArgumentError reports an unusable run option.
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RecordContractError means the generated value is not an array of objects
// keyed by the model's attributes.
type RecordContractError struct {
	Model      string
	Violations []string
}

func (e *RecordContractError) Error() string {
	return fmt.Sprintf("generated output for %s does not match the record contract: %s",
		e.Model, strings.Join(e.Violations, "; "))
}
