package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so errors.Is recognises a detailed
// error against its sentinel below regardless of the message text.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists           = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized            = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientFunds       = NewDomainError("INSUFFICIENT_FUNDS", "Wallet balance is insufficient for this debit")
	ErrCorrectionNotBalanced   = NewDomainError("CORRECTION_NOT_BALANCED", "Credit and debit notes in a correction must balance")
	ErrInvalidCorrectionEntry  = NewDomainError("INVALID_CORRECTION_ENTRY", "Correction entry is invalid")
	ErrPartialPaymentPresent   = NewDomainError("PARTIAL_PAYMENT_PRESENT", "Invoice has a payment that must be reversed before correction")
	ErrNothingToReverse        = NewDomainError("NOTHING_TO_REVERSE", "Invoice has no applied payment to reverse")
	ErrDuplicatePendingRequest = NewDomainError("DUPLICATE_PENDING_REQUEST", "A pending approval request already exists for this entity")
	ErrAlreadyProcessed        = NewDomainError("ALREADY_PROCESSED", "Approval request has already been reviewed")
	ErrPersistenceFailure      = NewDomainError("PERSISTENCE_ERROR", "Underlying store operation failed")
)
