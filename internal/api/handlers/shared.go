package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// parseJSON decodes the request body into the given request type.
// Unknown fields are rejected so that typos in field names surface as
// errors instead of being silently dropped.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// parseYearParam parses a required four-digit year query or URL parameter.
func parseYearParam(value string) (int, error) {
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid year: %s", value)
	}
	if year < 1900 || year > 2200 {
		return 0, fmt.Errorf("year out of range: %d", year)
	}
	return year, nil
}

// parseDateParam parses a YYYY-MM-DD query parameter.
func parseDateParam(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
