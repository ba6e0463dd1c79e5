package builder

import "fmt"

// BuildError is a failure to build one object definition.
type BuildError struct {
	Source string
	Path   string
	Err    error
}

func (e *BuildError) Error() string {
	switch {
	case e.Source != "" && e.Path != "":
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	case e.Source != "":
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *BuildError) Unwrap() error { return e.Err }

func fail(path string, format string, args ...any) *BuildError {
	return &BuildError{Path: path, Err: fmt.Errorf(format, args...)}
}

func wrap(path string, err error) *BuildError {
	return &BuildError{Path: path, Err: err}
}
