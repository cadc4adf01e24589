// Package models defines data structures exchanged by the transform pipeline.
package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UploadedFile is a named blob received for conversion.
type UploadedFile struct {
	// Name is the client-supplied file name; its extension declares the format.
	Name string `json:"name"`
	// Size is the content length in bytes.
	Size int64 `json:"size"`
	// Content is the raw file body.
	Content []byte `json:"-"`
}

// NewUploadedFile builds an UploadedFile whose Size matches the content.
func NewUploadedFile(name string, content []byte) UploadedFile {
	return UploadedFile{
		Name:    name,
		Size:    int64(len(content)),
		Content: content,
	}
}

// Extension returns the lower-cased extension of the file name, dot included.
func (f UploadedFile) Extension() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// FileDetails summarises an ingested file.
type FileDetails struct {
	// Name is the file name as uploaded.
	Name string `json:"name"`
	// SizeBytes is the content length in bytes.
	SizeBytes int64 `json:"size_bytes"`
	// SizeKB is the content length in KiB with two decimals.
	SizeKB string `json:"size_kb"`
	// Rows is the number of data rows after ingestion.
	Rows int `json:"rows"`
	// Columns is the number of columns after ingestion.
	Columns int `json:"columns"`
}

// FormatKB renders a byte count as KiB with two decimals.
func FormatKB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/1024)
}
