package extract

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX emits one line per non-blank row across all sheets, cells separated by
// a single space.
func XLSX(path string) (string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer x.Close()

	var lines []string
	for _, sheet := range x.GetSheetList() {
		rows, err := x.GetRows(sheet)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				if c != "" {
					cells = append(cells, c)
				}
			}
			line := strings.Join(cells, " ")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
