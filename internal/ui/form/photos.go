package form

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/imamik/rentwise/internal/wizard"
)

// LoadPhotos reads the files at paths into upload candidates. Files larger
// than wizard.MaxPhotoSize are not read; they carry only their size so the
// wizard can report them.
func LoadPhotos(paths []string) ([]wizard.PhotoFile, error) {
	files := make([]wizard.PhotoFile, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat photo: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}

		f := wizard.PhotoFile{
			Name:        filepath.Base(p),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(p))),
			Size:        info.Size(),
		}
		if info.Size() <= wizard.MaxPhotoSize {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to read photo: %w", err)
			}
			f.Data = data
		}
		files = append(files, f)
	}
	return files, nil
}

// splitPaths splits a comma or whitespace separated list of paths.
func splitPaths(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\t' || r == ' '
	})
}
