package serviceImp

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"docqa/pkg/document/service"
	"docqa/pkg/extract"
)

// LoadDir reads every file below root whose extension supports() accepts.
// Uploads are named by their base name and sorted by path.
func LoadDir(root string, supports func(ext string) bool) ([]service.Upload, []string, error) {
	var paths, skipped []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !supports(extract.Ext(p)) {
			skipped = append(skipped, p)
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)

	uploads := make([]service.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, err
		}
		uploads = append(uploads, service.Upload{Filename: filepath.Base(p), Data: data})
	}
	return uploads, skipped, nil
}
