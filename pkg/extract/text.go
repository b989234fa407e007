package extract

import (
	"os"
	"strings"
	"unicode/utf8"
)

func Text(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		data = []byte(strings.ToValidUTF8(string(data), ""))
	}
	return strings.TrimSpace(string(data)), nil
}
