package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
)

var errInvalidJSON = errors.New("invalid json")

// JSON validates the document and re-indents it with four spaces. Key order
// is preserved.
func JSON(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return NormalizeJSON(data)
}

func NormalizeJSON(data []byte) (string, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if !json.Valid(data) {
		return "", errInvalidJSON
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
