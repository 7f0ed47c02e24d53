package testing

import (
	"bytes"
	"strconv"

	"github.com/imamik/rentwise/internal/property"
)

// Photo returns a JPEG photo named name whose data is "data-<name>".
func Photo(name string) property.Photo {
	return property.Photo{
		ID:          "ph-" + name,
		Name:        name,
		ContentType: "image/jpeg",
		Data:        []byte("data-" + name),
	}
}

// SizedPhoto returns a photo with exactly size bytes of data.
func SizedPhoto(name string, size int) property.Photo {
	p := Photo(name)
	p.Data = bytes.Repeat([]byte{0xff}, size)
	return p
}

// Photos returns n photos named photo-1.jpg .. photo-n.jpg.
func Photos(n int) []property.Photo {
	out := make([]property.Photo, n)
	for i := range out {
		out[i] = Photo("photo-" + strconv.Itoa(i+1) + ".jpg")
	}
	return out
}
