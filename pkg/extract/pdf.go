package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF concatenates the plain text of every page, one line break per page.
func PDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		if txt == "" {
			continue
		}
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
