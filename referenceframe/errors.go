package referenceframe

import "github.com/pkg/errors"

// NewFrameMismatchError returns an error indicating that two transforms do
// not chain because their frames disagree.
func NewFrameMismatchError(sourceFrame, targetFrame string) error {
	return errors.Errorf("cannot compose transforms: source frame %q does not match target frame %q", sourceFrame, targetFrame)
}

// NewNilTransformMatrixError returns an error indicating a transform was
// constructed without a backing matrix.
func NewNilTransformMatrixError(sourceFrame, targetFrame string) error {
	return errors.Errorf("transform %q -> %q has no backing matrix", sourceFrame, targetFrame)
}
