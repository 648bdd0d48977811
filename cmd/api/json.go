package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

const maxJSONBytes = 1_048_578 // 1mb

// readJSON parses a strict body: unknown fields are rejected.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxJSONBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

// readJSONLoose parses a body that may carry extra fields, such as a
// catalog entity echoed back by an admin client.
func readJSONLoose(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxJSONBytes))
	return json.NewDecoder(r.Body).Decode(data)
}

type messageEnvelope struct {
	Message string `json:"message"`
}

type productMessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSONError answers with {message}.
func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &messageEnvelope{Message: message})
}

// writeProductError answers with {success:false, message}, the shape product clients expect.
func writeProductError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &productMessageEnvelope{Success: false, Message: message})
}

// productResponse wraps a product payload as {success:true, data}.
func (app *application) productResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Success bool `json:"success"`
		Data    any  `json:"data"`
	}
	return writeJSON(w, status, &envelope{Success: true, Data: data})
}
