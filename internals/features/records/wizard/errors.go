package wizard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSessionNotFound = errors.New("sesi form tidak ditemukan atau sudah kedaluwarsa")
	ErrRecordNotFound  = errors.New("data tidak ditemukan")
	ErrNotLastStep     = errors.New("submit hanya bisa dilakukan dari langkah terakhir")
	ErrSubmitInFlight  = errors.New("form sedang dikirim, tunggu proses selesai")
	ErrInvalidStep     = errors.New("nomor langkah tidak valid")
	ErrUnknownField    = errors.New("field berkas tidak dikenal")
	ErrBadPatch        = errors.New("payload form tidak valid")
	ErrDuplicate       = errors.New("data dengan kunci yang sama sudah ada")
)

// FieldValidationError satu field gagal validasi.
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// StepGateError menahan transisi maju; berisi semua error field di langkah tsb.
type StepGateError struct {
	Step   int               `json:"step"`
	Title  string            `json:"title"`
	Fields map[string]string `json:"fields"`
}

func (e *StepGateError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("langkah %d (%s) belum valid: %s", e.Step, e.Title, strings.Join(keys, ", "))
}

func (e *StepGateError) FieldErrors() []FieldValidationError {
	out := make([]FieldValidationError, 0, len(e.Fields))
	for k, v := range e.Fields {
		out = append(out, FieldValidationError{Field: k, Message: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// UploadError gagal melampirkan / mengunggah berkas pada satu field.
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s gagal: %v", e.Field, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// SubmissionError pipeline submit gagal; sesi dan datanya tetap ada.
type SubmissionError struct {
	Stage string // "upload" | "save"
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit gagal (%s): %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
