// Package errs defines the error values returned by the upkg codecs.
//
// Every failure of a parse or serialize call is reported through one of the
// sentinel errors below, either directly or wrapped in a structured error that
// carries extra detail. Use errors.Is to test the category and errors.As to
// reach the detail:
//
//	var cbe *errs.CorruptBlockError
//	if errors.As(err, &cbe) {
//	    fmt.Println("block", cbe.Block, "status", cbe.Code)
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader is returned when a magic number or fixed header field is invalid.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrNotAPackage is returned when the first bytes of a file are not a package summary.
	ErrNotAPackage = fmt.Errorf("%w: file is not a valid package", ErrMalformedHeader)
	// ErrUnsupportedVersion is returned for file versions outside the accepted set.
	ErrUnsupportedVersion = errors.New("unsupported package version")
	// ErrCorruptBlock is returned when a compression primitive rejects a block.
	ErrCorruptBlock = errors.New("corrupted compression block")
	// ErrSizeMismatch is returned when two redundant size fields disagree.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrNotImplemented is returned for compression schemes without a concrete implementation.
	ErrNotImplemented = errors.New("not implemented")
	// ErrOutOfBounds is returned when a cursor reads past the end of its backing store.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrAllocationFailure is returned when a declared count or size cannot be allocated.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrWrongMode is returned when a write is attempted on a reading cursor, or vice versa.
	ErrWrongMode = errors.New("operation does not match stream mode")
	// ErrIndexOutOfRange is returned for object or table indices outside the package directory.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// VersionError reports the version pair detected in an unsupported package.
type VersionError struct {
	FileVersion     uint16
	LicenseeVersion uint16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("package version \"%d/%d\" is not supported", e.FileVersion, e.LicenseeVersion)
}

func (e *VersionError) Unwrap() error { return ErrUnsupportedVersion }

// CorruptBlockError reports a block the compression primitive could not decode.
//
// Code carries the primitive's status code using LZO numbering
// (-1 generic error, -4 input overrun, -5 output overrun, -6 look-behind overrun).
// Block is -1 when the block directory itself disagrees with the chunk header.
type CorruptBlockError struct {
	Block int
	Code  int
	Err   error
}

func (e *CorruptBlockError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupted compression block %d. Code: %d: %v", e.Block, e.Code, e.Err)
	}

	return fmt.Sprintf("corrupted compression block %d. Code: %d", e.Block, e.Code)
}

func (e *CorruptBlockError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorruptBlock}
	}

	return []error{ErrCorruptBlock, e.Err}
}

// SizeMismatchError reports two fields that must agree but do not.
type SizeMismatchError struct {
	Field string
	Got   int64
	Want  int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s size mismatch: %d != %d", e.Field, e.Got, e.Want)
}

func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }
