package commands

// ExitError pairs an error with the process exit code it should
// produce, letting individual commands distinguish operational
// failures (I/O, codec errors, format drift) from validation
// failures (a document that failed to parse or failed a content
// check) the way the batch command surface's exit code table
// requires.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for err: 1 for a plain
// error, whatever ExitError carries for a tagged one, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*ExitError); ok {
		return ee.Code
	}
	return 1
}

// opErr wraps err as an operational failure (exit code 1).
func opErr(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: 1, Err: err}
}

// validationErr wraps err as a validation failure (exit code 2).
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: 2, Err: err}
}
