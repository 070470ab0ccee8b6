package request

// ImportDocumentRequest represents the request body for detecting, parsing or
// importing a single document. Text is the plain text extracted from the PDF;
// Name is an optional label (e.g. the original file name).
type ImportDocumentRequest struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
}

// BatchImportRequest represents the request body for importing several documents at once.
type BatchImportRequest struct {
	Documents []ImportDocumentRequest `json:"documents"`
}
