package utils

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// MarshalJSON converts the given data to a pretty-printed JSON string.
func MarshalJSON(data interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "JSON marshaling failed")
	}
	return string(jsonBytes), nil
}

// WriteJSON writes data to w as pretty-printed JSON followed by a newline.
func WriteJSON(w io.Writer, data interface{}) error {
	s, err := MarshalJSON(data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s+"\n")
	return errors.Wrap(err, "write JSON")
}
