package sheets

import "context"

// API is the spreadsheet surface the reader and writer depend on.
// Implementations must return cell values as formatted strings.
type API interface {
	// ReadRange returns the non-empty rows of an A1 range
	// ("Sheet!A2:S"). Rows may be ragged, trailing blank cells are
	// omitted by the backend.
	ReadRange(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error)

	// ClearRange blanks every cell of an A1 range.
	ClearRange(ctx context.Context, spreadsheetID, rangeA1 string) error

	// WriteRows writes rows starting at the top-left cell of the range.
	WriteRows(ctx context.Context, spreadsheetID, rangeA1 string, rows [][]string) error

	// ReadMetadata returns all developer-metadata values stored under key.
	ReadMetadata(ctx context.Context, spreadsheetID, key string) ([]string, error)

	// WriteMetadata stores one key/value developer-metadata entry.
	WriteMetadata(ctx context.Context, spreadsheetID, key, value string) error
}
