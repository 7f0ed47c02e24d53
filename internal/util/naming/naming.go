package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxExtLen bounds the extension kept from an uploaded file name.
const maxExtLen = 8

// PropertyPrefix is the key prefix shared by all photos of a property.
func PropertyPrefix(propertyID string) string {
	return fmt.Sprintf("properties/%s/", propertyID)
}

// PhotoKey names the object for the index-th photo of a property.
func PhotoKey(propertyID string, index int, photoID, fileName string) string {
	return fmt.Sprintf("%s%02d-%s%s", PropertyPrefix(propertyID), index, photoID, Ext(fileName))
}

// PreviewFile names the temporary file backing a preview handle.
func PreviewFile(handleID, fileName string) string {
	return handleID + Ext(fileName)
}

// Ext returns the lower-cased extension of fileName, or "" when it is
// missing, empty, too long or contains a path separator.
func Ext(fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if ext == "." || len(ext) > maxExtLen || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
