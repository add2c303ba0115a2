package api

import (
	"io"
)

// DefaultDownloadName is used when the server does not name the download.
const DefaultDownloadName = "merged_exam.pdf"

// Result is implemented by every JSON response envelope.
type Result interface {
	OK() bool
	ErrorMessage() string
}

// Envelope carries the fields every endpoint shares.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e Envelope) OK() bool             { return e.Success }
func (e Envelope) ErrorMessage() string { return e.Error }

type DeletePageRequest struct {
	PageID string `json:"page_id"`
}

type DeletePageResponse struct {
	Envelope
	RemainingPages int `json:"remaining_pages"`
}

type ValidateResponse struct {
	Envelope
	IsValid          bool  `json:"is_valid"`
	MaxQuestion      int   `json:"max_question"`
	MissingQuestions []int `json:"missing_questions"`
	TotalPages       int   `json:"total_pages"`
}

type ExtractResponse struct {
	Envelope
	Report           string `json:"report"`
	OriginalPages    int    `json:"original_pages,omitempty"`
	ExtractedPages   int    `json:"extracted_pages,omitempty"`
	Questions        int    `json:"questions,omitempty"`
	IsValid          bool   `json:"is_valid,omitempty"`
	MissingQuestions []int  `json:"missing_questions,omitempty"`
	MaxQuestion      int    `json:"max_question,omitempty"`
}

// UploadedFile is one accepted file as reported by the server.
type UploadedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UploadResponse struct {
	Envelope
	Redirect string         `json:"redirect"`
	Files    []UploadedFile `json:"files,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
	Details  []string       `json:"details,omitempty"`
}

// UploadFile is one multipart part of an upload request.
type UploadFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}
