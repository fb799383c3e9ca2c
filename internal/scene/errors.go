package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryUnavailable is returned when the scene count query fails.
	ErrDirectoryUnavailable = errors.New("scene directory unavailable")
	// ErrInvalidSceneCount is returned when the host reports a negative or
	// non-integer count.
	ErrInvalidSceneCount = errors.New("invalid scene count")
	// ErrSceneFetchFailed matches any *SceneFetchError.
	ErrSceneFetchFailed = errors.New("scene fetch failed")
)

// SceneFetchError reports which scene index could not be summarised.
type SceneFetchError struct {
	Index int
	Err   error
}

func (e *SceneFetchError) Error() string {
	return fmt.Sprintf("scene %d: %v", e.Index, e.Err)
}

func (e *SceneFetchError) Unwrap() error {
	return e.Err
}

func (e *SceneFetchError) Is(target error) bool {
	return target == ErrSceneFetchFailed
}
