// Package errs holds the error taxonomy shared by every stage of the pipeline.
//
// Callers wrap these sentinels with context and test them with errors.Is.
package errs

import "errors"

var (
	// ErrFileAccess is returned when a file or directory cannot be opened, read, written or stat'ed.
	ErrFileAccess = errors.New("file access error")
	// ErrNameTooLong is returned when the source file name does not fit into the metadata block.
	ErrNameTooLong = errors.New("file name too long")
	// ErrAuthentication is returned when an entry fails AEAD verification.
	ErrAuthentication = errors.New("authentication failed")
	// ErrMalformedContainer is returned for truncated or undecodable container data.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrSequence is returned when staged chunk indices have gaps, duplicates or extras.
	ErrSequence = errors.New("chunk sequence error")
	// ErrEncoding is returned when a recovered file name is not valid UTF-8.
	ErrEncoding = errors.New("encoding error")
)
