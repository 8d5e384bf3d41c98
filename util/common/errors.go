package common

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL"
	ErrCodeConflict     = "CONFLICT"
)

// ServiceError wraps a service-layer failure with the operation name and
// an error code the controllers and the bot can switch on.
type ServiceError struct {
	Op   string
	Code string
	Err  error
}

func (e *ServiceError) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString("[")
		sb.WriteString(e.Op)
		sb.WriteString("] ")
	}
	if e.Code != "" {
		sb.WriteString("(")
		sb.WriteString(e.Code)
		sb.WriteString(") ")
	}
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(op string, err error) *ServiceError {
	return &ServiceError{Op: op, Err: err}
}

func (e *ServiceError) WithCode(code string) *ServiceError {
	e.Code = code
	return e
}

// Wrap returns nil when err is nil, otherwise a ServiceError.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewServiceError(op, err)
}

func Wrapf(op string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return NewServiceError(op, fmt.Errorf("%s: %w", msg, err))
}

// Domain errors. The messages are user-facing in the bot, hence Russian.
var (
	ErrRegistrationNotFound = errors.New("регистрация не найдена")
	ErrAlreadyRegistered    = errors.New("пользователь уже зарегистрирован")
	ErrRoomFull             = errors.New("дом занят")
	ErrRoomUnavailable      = errors.New("дом недоступен")
	ErrInvalidRoom          = errors.New("недопустимый дом")
	ErrNotHoused            = errors.New("пользователь не расселён")
	ErrAccommodationClosed  = errors.New("расселение ещё не началось")
	ErrQRNotRecognized      = errors.New("не удалось прочитать QR")
	ErrUnauthorized         = errors.New("доступ запрещён")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRegistrationNotFound)
}

// Combine merges the non-nil errors into one.
func Combine(errs ...error) error {
	var msgs []string
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, ", "))
}
