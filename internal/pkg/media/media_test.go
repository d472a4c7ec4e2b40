package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageMIMEType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ImageMIMEType("photo.jpg"))
	assert.Equal(t, "image/jpeg", ImageMIMEType("photo.JPEG"))
	assert.Equal(t, "image/png", ImageMIMEType("diagram.png"))
	assert.Equal(t, "image/webp", ImageMIMEType("sticker.webp"))
	assert.Equal(t, "image/jpeg", ImageMIMEType("mystery.xyz"))
}

func TestAudioMIMEType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", AudioMIMEType("voice.mp3"))
	assert.Equal(t, "audio/wav", AudioMIMEType("clip.WAV"))
	assert.Equal(t, "audio/mp4", AudioMIMEType("memo.m4a"))
	assert.Equal(t, "audio/mpeg", AudioMIMEType("noext"))
}

func TestDataURL(t *testing.T) {
	url := DataURL("image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	assert.Equal(t, "data:image/png;base64,iVBORw==", url)
}

func TestDataURLPrefixChecks(t *testing.T) {
	assert.True(t, IsImageDataURL("data:image/png;base64,AAAA"))
	assert.False(t, IsImageDataURL("data:audio/wav;base64,AAAA"))
	assert.True(t, IsAudioDataURL("data:audio/mpeg;base64,AAAA"))
	assert.False(t, IsAudioDataURL("https://example.com/a.mp3"))
}
