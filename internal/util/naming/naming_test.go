package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "PropertyPrefix",
			got:      PropertyPrefix("p-1"),
			expected: "properties/p-1/",
		},
		{
			name:     "PhotoKey",
			got:      PhotoKey("p", 3, "x", "Front.JPG"),
			expected: "properties/p/03-x.jpg",
		},
		{
			name:     "PhotoKey without extension",
			got:      PhotoKey("p", 0, "x", "noext"),
			expected: "properties/p/00-x",
		},
		{
			name:     "PhotoKey two digit index",
			got:      PhotoKey("p", 12, "x", "a.png"),
			expected: "properties/p/12-x.png",
		},
		{
			name:     "PhotoKey trailing dot",
			got:      PhotoKey("p", 0, "id", "x."),
			expected: "properties/p/00-id",
		},
		{
			name:     "PreviewFile without name",
			got:      PreviewFile("h1", ""),
			expected: "h1",
		},
		{
			name:     "PreviewFile",
			got:      PreviewFile("h1", "kitchen.WEBP"),
			expected: "h1.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestExt(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":         ".jpg",
		"PHOTO.JPEG":        ".jpeg",
		"dir/photo.png":     ".png",
		"archive.tar.gz":    ".gz",
		"noext":             "",
		"trailing.":         "",
		"weird.verylongext": "",
		"":                  "",
	}
	for in, want := range tests {
		if got := Ext(in); got != want {
			t.Errorf("Ext(%q) = %q, want %q", in, got, want)
		}
	}
}
