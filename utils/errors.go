package utils

import "fmt"

// RunAndWrapOnError runs the given function and wraps its error, if any, together with origErr.
// origErr is returned unchanged when fn succeeds.
func RunAndWrapOnError(fn func() error, origErr error) error {
	if err := fn(); err != nil {
		if origErr == nil {
			return err
		}
		return fmt.Errorf(`failed to run "%w" while handling original error: %w`, err, origErr)
	}
	return origErr
}
