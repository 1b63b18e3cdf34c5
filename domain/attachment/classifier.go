// Package attachment classifies stored attachment paths for rendering and
// validates outgoing uploads against per-field policies. Classification is
// a pure function over the filename; only Validate ever looks at content
// bytes.
package attachment

import (
	"path"
	"strings"
)

// Category determines how the UI renders an attachment.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryPDF      Category = "pdf"
	CategoryDocument Category = "document"
)

// Classification is the rendering decision for a stored attachment path.
type Classification struct {
	Category  Category
	Extension string
}

var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
	"bmp":  {},
	"svg":  {},
}

// Classify maps a filename (or stored relative path) to a rendering
// category. It is total and deterministic: any input yields exactly one
// category, extensions compare case-insensitively, and a missing extension
// falls through to the generic document category.
func Classify(filename string) Classification {
	ext := strings.TrimPrefix(path.Ext(path.Base(filename)), ".")
	ext = strings.ToLower(ext)

	switch {
	case ext == "pdf":
		return Classification{Category: CategoryPDF, Extension: ext}
	default:
		if _, ok := imageExtensions[ext]; ok {
			return Classification{Category: CategoryImage, Extension: ext}
		}
		return Classification{Category: CategoryDocument, Extension: ext}
	}
}
