package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeValidation             ErrorType = "VALIDATION"
	ErrTypeNotFound               ErrorType = "NOT_FOUND"
	ErrTypeGenerationFormat       ErrorType = "GENERATION_FORMAT"
	ErrTypeGenerationService      ErrorType = "GENERATION_SERVICE"
	ErrTypeAnswerCountMismatch    ErrorType = "ANSWER_COUNT_MISMATCH"
	ErrTypeInvalidStateTransition ErrorType = "INVALID_STATE_TRANSITION"
	ErrTypeInternal               ErrorType = "INTERNAL"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func Validation(message string) *DomainError {
	return New(ErrTypeValidation, message, nil)
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func GenerationFormat(message string, err error) *DomainError {
	return New(ErrTypeGenerationFormat, message, err)
}

func GenerationService(message string, err error) *DomainError {
	return New(ErrTypeGenerationService, message, err)
}

func AnswerCountMismatch(answers, questions int) *DomainError {
	return New(ErrTypeAnswerCountMismatch,
		fmt.Sprintf("number of answers (%d) must match number of questions (%d)", answers, questions), nil)
}

func InvalidStateTransition(from, to string) *DomainError {
	return New(ErrTypeInvalidStateTransition,
		fmt.Sprintf("cannot move interview from %s to %s", from, to), nil)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

// TypeOf returns the type of the first DomainError in err's chain, or
// ErrTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Type
	}
	return ErrTypeInternal
}

// Is reports whether err carries a DomainError of the given type.
func Is(err error, errType ErrorType) bool {
	var de *DomainError
	return stderrors.As(err, &de) && de.Type == errType
}
