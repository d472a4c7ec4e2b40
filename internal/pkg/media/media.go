// Package media builds base64 data URLs for inline image and audio
// attachments sent to the model provider.
package media

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
)

var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

var audioMIMETypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".m4a": "audio/mp4",
}

// ImageMIMEType resolves the MIME type from the file extension,
// defaulting to image/jpeg for unknown extensions.
func ImageMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := imageMIMETypes[ext]; ok {
		return mime
	}
	return "image/jpeg"
}

// AudioMIMEType resolves the MIME type from the file extension,
// defaulting to audio/mpeg for unknown extensions.
func AudioMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := audioMIMETypes[ext]; ok {
		return mime
	}
	return "audio/mpeg"
}

// DataURL encodes raw bytes as a data URL with the given MIME type.
func DataURL(mimeType string, data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded)
}

// IsImageDataURL reports whether the string already carries an inline
// image payload.
func IsImageDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// IsAudioDataURL reports whether the string already carries an inline
// audio payload.
func IsAudioDataURL(s string) bool {
	return strings.HasPrefix(s, "data:audio")
}
