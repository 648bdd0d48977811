package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"spanco/internal/domain/catalog"
)

const maxUploadBytes = 5 * 1024 * 1024 // 5mb

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var errImageType = errors.New("Only jpg, jpeg, png and webp images are allowed")

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// multipartForm is a parsed upload request. Close releases the temp files
// backing the form.
type multipartForm struct {
	values url.Values
	image  *catalog.Upload
	file   multipart.File
	form   *multipart.Form
}

func (f *multipartForm) Close() {
	if f.file != nil {
		f.file.Close()
	}
	if f.form != nil {
		f.form.RemoveAll()
	}
}

// parseMultipart reads a multipart body with an optional "image" file part.
// The image is content-sniffed; only jpeg, png and webp pass.
func parseMultipart(w http.ResponseWriter, r *http.Request) (*multipartForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	f := &multipartForm{values: url.Values(r.MultipartForm.Value), form: r.MultipartForm}

	headers := r.MultipartForm.File["image"]
	if len(headers) == 0 {
		return f, nil
	}
	header := headers[0]
	if header.Size > maxUploadBytes {
		f.Close()
		return nil, errors.New("Image must be 5MB or smaller")
	}

	file, err := header.Open()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open file: %w", err)
	}
	f.file = file

	reader, err := sniffImage(file)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.image = &catalog.Upload{File: reader, Filename: header.Filename}
	return f, nil
}

// sniffImage checks the leading bytes of an upload and returns a reader that
// still yields the whole file.
func sniffImage(file io.Reader) (io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read file: %w", err)
	}
	head = head[:n]

	if !allowedImageTypes[http.DetectContentType(head)] {
		return nil, errImageType
	}
	return io.MultiReader(bytes.NewReader(head), file), nil
}

// stringList accepts either a single JSON string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = nonEmpty([]string{s})
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = nonEmpty(list)
	return nil
}

// techSpecList accepts the specification table as an array or as a JSON-encoded string of one.
type techSpecList []catalog.TechSpec

func (t *techSpecList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		specs, err := parseTechSpecs(s)
		if err != nil {
			return err
		}
		*t = specs
		return nil
	}
	var specs []catalog.TechSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return err
	}
	*t = specs
	return nil
}

func parseTechSpecs(s string) ([]catalog.TechSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var specs []catalog.TechSpec
	if err := json.Unmarshal([]byte(s), &specs); err != nil {
		return nil, errors.New("technicalSpecification must be a JSON array of {label, value}")
	}
	return specs, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// formList collects a repeated form field, also accepting the key[] spelling.
func formList(values url.Values, key string) []string {
	return nonEmpty(append(append([]string{}, values[key]...), values[key+"[]"]...))
}
