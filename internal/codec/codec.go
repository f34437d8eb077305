// Package codec serializes overlays to their export/storage text form and
// parses such text back into an untyped payload.
//
// Serialize is lossless and deterministic: two-space indented JSON with HTML
// escaping disabled, struct fields in declaration order and map keys sorted.
// Parse only checks that the text is well-formed JSON. Interpreting the
// payload's version and shape is the migrate package's job.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/roach88/hq/internal/overlay"
)

// RawPayload is a parsed but unvalidated document: map[string]any,
// []any, string, bool, json.Number or nil.
type RawPayload = any

// DecodeError reports text that is not well-formed JSON.
type DecodeError struct {
	// Offset is the byte offset of the failure, or -1 when unknown.
	Offset int64

	Err error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("decode overlay: malformed JSON at byte %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("decode overlay: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError returns true if err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Serialize encodes every overlay field.
// The output ends with a newline.
func Serialize(o *overlay.Overlay) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("serialize overlay: nil overlay")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // documentPatch must round-trip exactly as typed
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return nil, fmt.Errorf("serialize overlay: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a single JSON document. Numbers are kept as json.Number so
// integer fields never pass through float64.
func Parse(text []byte) (RawPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Offset: 0, Err: errors.New("empty document")}
		}
		return nil, &DecodeError{Offset: errorOffset(err, dec), Err: err}
	}

	// Reject trailing data such as a second document or garbage.
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected trailing data %v", tok)
		}
		return nil, &DecodeError{Offset: dec.InputOffset(), Err: err}
	}
	return v, nil
}

func errorOffset(err error, dec *json.Decoder) int64 {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return syn.Offset
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return dec.InputOffset()
	}
	return -1
}

// ExportFilename names an export file after its creation time (UTC),
// e.g. project-hq-progress-2026-10-17-09-30-00.json.
func ExportFilename(t time.Time) string {
	return "project-hq-progress-" + t.UTC().Format("2006-01-02-15-04-05") + ".json"
}
