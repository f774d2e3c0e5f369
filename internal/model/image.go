package model

import "bytes"

// Image is an optional binary image attachment.
// The zero value is NoImage; a present image may hold zero bytes.
type Image struct {
	data    []byte
	present bool
}

// NoImage is the absent image.
var NoImage = Image{}

// NewImage returns a present image holding a copy of data.
func NewImage(data []byte) Image {
	buf := make([]byte, len(data))
	copy(buf, data)
	return Image{data: buf, present: true}
}

// Present reports whether the image is set.
func (i Image) Present() bool {
	return i.present
}

// Bytes returns the image bytes and whether the image is present.
// The returned slice must not be modified.
func (i Image) Bytes() ([]byte, bool) {
	if !i.present {
		return nil, false
	}
	return i.data, true
}

// Len returns the image size in bytes, zero when absent.
func (i Image) Len() int {
	return len(i.data)
}

// Equal reports whether two images are both absent or hold the same bytes.
func (i Image) Equal(other Image) bool {
	if i.present != other.present {
		return false
	}
	return bytes.Equal(i.data, other.data)
}
