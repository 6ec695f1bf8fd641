package checkin

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFaceDetected means no submitted image yielded a usable face.
	ErrNoFaceDetected = errors.New("no clear face detected")
	// ErrMaskedFace means a registration image shows a masked face.
	ErrMaskedFace = errors.New("face is masked, please remove the mask and retry")
	// ErrEmptyName means a registration was submitted without a name.
	ErrEmptyName = errors.New("name must not be empty")
)

// DuplicateError means the face being registered already belongs to an
// enrolled identity under a different name.
type DuplicateError struct {
	ExistingName string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("face already enrolled as %q", e.ExistingName)
}
