package bankstmt

import "errors"

var (
	// ErrUnsupportedInput is returned when the input is not a PDF or an
	// accepted image type. Fatal; no partial result is produced.
	ErrUnsupportedInput = errors.New("bankstmt: unsupported input type")

	// ErrEmptyInput is returned for a zero-length input buffer.
	ErrEmptyInput = errors.New("bankstmt: empty input")

	// ErrZeroYield is returned when every page produced empty text. Zero
	// yield is always an explicit failure, never an empty success.
	ErrZeroYield = errors.New("bankstmt: could not extract text from any page")

	// ErrUnknownBackend is returned for an unrecognized Config.Backend.
	ErrUnknownBackend = errors.New("bankstmt: unknown OCR backend")
)
