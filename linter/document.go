package linter

// DocumentInfo contains a document and its metadata for linting
type DocumentInfo[T any] struct {
	// Document is the parsed document to lint
	Document T

	// Location is the file path of the document. It keys performance sessions and selects rules
	// by extension.
	Location string
}

// NewDocumentInfo creates a new DocumentInfo with the given document and location
func NewDocumentInfo[T any](doc T, location string) *DocumentInfo[T] {
	return &DocumentInfo[T]{
		Document: doc,
		Location: location,
	}
}
