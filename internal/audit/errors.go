package audit

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/payment-auditor/internal/mapper"
)

var (
	// ErrMissingColumn matches *MissingColumnError.
	ErrMissingColumn = errors.New("missing column")

	// ErrRuleFailed wraps the error recorded for a rule that could not finish.
	ErrRuleFailed = errors.New("rule failed")
)

// MissingColumnError is returned by Run when the normalized dataset lacks
// required logical fields.
type MissingColumnError struct {
	Fields []mapper.Field
}

func (e *MissingColumnError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: dataset has no column for %v", ErrMissingColumn, names)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }
