package tradebook

import "errors"

// Errors returned by the store, the ledger and the normalizer. They are always
// wrapped with context, callers should compare them using errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")

	ErrInvalidAccountID = errors.New("invalid account id")
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidKind      = errors.New("invalid transaction kind")

	ErrInvalidValueType   = errors.New("value must be a number-like type (integer, float, decimal text, decimal)")
	ErrInvalidValueFormat = errors.New("value is not a valid number")
	ErrNonFiniteValue     = errors.New("value must be a finite number")

	ErrInvalidAmount   = errors.New("amount must be > 0")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrInvalidPrice    = errors.New("price must be > 0")

	ErrRecordNotFound  = errors.New("record not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateRecord = errors.New("record already exists")
)

// ValidationError reports a ledger input that could not be accepted. Field
// names the offending input (e.g. "amount", "price").
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return "invalid " + e.Field + ": " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// invalid wraps err into a *ValidationError for field.
func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
