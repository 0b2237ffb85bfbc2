package models

import (
	"time"

	"github.com/google/uuid"
)

// Artifacts are the files written for one generation, named relative to the results directory.
type Artifacts struct {
	TxtFilename string `json:"txt_filename"`
	PDFFilename string `json:"pdf_filename"`
	TxtPath     string `json:"-"`
	PDFPath     string `json:"-"`
	Blocks      int    `json:"blocks"`
	Pages       int    `json:"pages"`
}

// GenerationRecord is one completed generation, as kept in the history table
type GenerationRecord struct {
	ID             uuid.UUID `json:"id"`
	SourceFilename string    `json:"source_filename"`
	Questions      int       `json:"questions"`
	Blocks         int       `json:"blocks"`
	TxtFilename    string    `json:"txt_filename"`
	PDFFilename    string    `json:"pdf_filename"`
	Pages          int       `json:"pages"`
	TxtURL         string    `json:"txt_url,omitempty"`
	PDFURL         string    `json:"pdf_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecentArtifact is what the browser session remembers about a past generation.
type RecentArtifact struct {
	SourceFilename string
	TxtFilename    string
	PDFFilename    string
	CreatedAt      time.Time
}

// GenerateResponse represents the JSON response of the generate endpoint
type GenerateResponse struct {
	RequestID   uuid.UUID `json:"request_id"`
	MCQs        string    `json:"mcqs"`
	TxtFilename string    `json:"txt_filename"`
	PDFFilename string    `json:"pdf_filename"`
	Blocks      int       `json:"blocks"`
	Pages       int       `json:"pages"`
	TxtURL      string    `json:"txt_url,omitempty"`
	PDFURL      string    `json:"pdf_url,omitempty"`
}

// HistoryResponse represents the response for listing past generations
type HistoryResponse struct {
	Generations []GenerationRecord `json:"generations"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
