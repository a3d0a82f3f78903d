package errors

type (
	customError interface {
		Code() int
		Error() string
	}

	customErrorString struct {
		c int
		s string
	}
)

func New(c int, s string) customError {
	return &customErrorString{
		c: c,
		s: s,
	}
}

func (e *customErrorString) Code() int {
	return e.c
}

func (e *customErrorString) Error() string {
	return e.s
}

// StatusCode returns the code carried by err, or fallback when err does not carry one.
func StatusCode(err error, fallback int) int {
	for err != nil {
		if e, ok := err.(customError); ok {
			return e.Code()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return fallback
}
