package inspect

import (
	"encoding/json"
	"net/http"
)

// response wraps http.ResponseWriter with JSON helpers.
type response struct {
	w http.ResponseWriter
}

func newResponse(w http.ResponseWriter) *response {
	return &response{w: w}
}

// send writes v as JSON with status.
func (res *response) send(status int, v any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(v)
}

// success sends 200 JSON: {"data": v}
func (res *response) success(v any) {
	res.send(http.StatusOK, envelope{"data": v})
}

// fail sends {"message": message} with status.
func (res *response) fail(status int, message string) {
	res.send(status, envelope{"message": message})
}

func (res *response) notFound(message ...string) {
	res.fail(http.StatusNotFound, first(message, "Not found."))
}

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
