package domain

import "errors"

var (
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrGroupNotFound      = errors.New("group not found")
	ErrInvalidInvite      = errors.New("invalid invite code")
	ErrPlanLimit          = errors.New("subscription plan limit reached")

	ErrItemNotFound     = errors.New("item not found")
	ErrItemOnLoan       = errors.New("item is already on loan")
	ErrItemNotOnLoan    = errors.New("item is not on loan")
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationCycle    = errors.New("location cannot be its own ancestor")
	ErrLocationInUse    = errors.New("location still holds items")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is still assigned to items")
	ErrLabelNotFound    = errors.New("label not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrDuplicateName    = errors.New("name already in use")
)

// ValidationError reports input that passed decoding but breaks a business rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
