package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// Form builds a multipart/form-data request body. Field order is preserved.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	key   string
	value string
}

type formFile struct {
	field string
	name  string
	data  []byte
}

// NewForm creates an empty multipart form
func NewForm() *Form {
	return &Form{}
}

// Set appends a string field
func (f *Form) Set(key, value string) *Form {
	f.fields = append(f.fields, formField{key: key, value: value})
	return f
}

// SetInt appends an integer field
func (f *Form) SetInt(key string, value int64) *Form {
	return f.Set(key, strconv.FormatInt(value, 10))
}

// SetBool appends a boolean field
func (f *Form) SetBool(key string, value bool) *Form {
	return f.Set(key, strconv.FormatBool(value))
}

// AddFile appends a file part
func (f *Form) AddFile(field, name string, data []byte) *Form {
	f.files = append(f.files, formFile{field: field, name: name, data: data})
	return f
}

// HasFiles reports whether any file parts were added
func (f *Form) HasFiles() bool {
	return len(f.files) > 0
}

// Encode serializes the form and returns the body with its content type
func (f *Form) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.key, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to encode form field %s: %w", field.key, err)
		}
	}

	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode form file %s: %w", file.name, err)
		}
		if _, err := part.Write(file.data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", file.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
