package sheets

import "errors"

var (
	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set.
	ErrMissingCredentials = errors.New("missing Google credentials")

	// ErrInvalidSheetURL is returned when the URL does not contain a spreadsheet id.
	ErrInvalidSheetURL = errors.New("invalid Google Sheets URL format")
)
