package commit

import "fmt"

// DocumentFormatError means a document is structurally unsupported (for
// example unparseable formula constructs). It is fatal for that document's
// commit run; nothing is written.
type DocumentFormatError struct {
	Path string
	Err  error
}

func (e *DocumentFormatError) Error() string {
	return fmt.Sprintf("document %s has an unsupported structure: %v (re-save it as a plain .xlsx workbook and retry)", e.Path, e.Err)
}

func (e *DocumentFormatError) Unwrap() error {
	return e.Err
}

// DocumentLockError means a document is held open by another program.
// Fatal for that document's commit run; no retry is attempted.
type DocumentLockError struct {
	Path string
	Err  error
}

func (e *DocumentLockError) Error() string {
	return fmt.Sprintf("document %s is open in another program: %v (close it and retry)", e.Path, e.Err)
}

func (e *DocumentLockError) Unwrap() error {
	return e.Err
}
