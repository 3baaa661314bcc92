package kerror

import "fmt"

type KineticError struct {
	Err string
}

func New(format string, args ...interface{}) *KineticError {
	return &KineticError{Err: fmt.Sprintf(format, args...)}
}

func (e *KineticError) Error() string {
	return e.Err
}
