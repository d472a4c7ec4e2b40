package validator

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intellimulti/chat-backend/internal/config"
	"github.com/intellimulti/chat-backend/internal/entity"
)

func testValidator() *Validator {
	return NewFileValidator(config.FileUploadConfig{
		MaxImageSize: 100,
		MaxAudioSize: 200,
		MaxPDFSize:   300,
	})
}

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateImage(t *testing.T) {
	v := testValidator()

	assert.NoError(t, v.ValidateImage(header("photo.jpg", 50)))
	assert.NoError(t, v.ValidateImage(header("PHOTO.PNG", 100)))

	err := v.ValidateImage(header("photo.tiff", 50))
	assert.ErrorIs(t, err, entity.ErrInvalidExtension)

	err = v.ValidateImage(header("photo.jpg", 101))
	assert.ErrorIs(t, err, entity.ErrFileTooLarge)

	err = v.ValidateImage(nil)
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestValidateAudio(t *testing.T) {
	v := testValidator()

	assert.NoError(t, v.ValidateAudio(header("voice.mp3", 150)))
	assert.NoError(t, v.ValidateAudio(header("clip.M4A", 200)))

	err := v.ValidateAudio(header("clip.ogg", 50))
	assert.ErrorIs(t, err, entity.ErrInvalidExtension)

	err = v.ValidateAudio(header("voice.wav", 201))
	assert.ErrorIs(t, err, entity.ErrFileTooLarge)
}

func TestValidatePDF(t *testing.T) {
	v := testValidator()

	assert.NoError(t, v.ValidatePDF(header("doc.pdf", 300)))

	err := v.ValidatePDF(header("doc.docx", 50))
	assert.ErrorIs(t, err, entity.ErrInvalidExtension)

	err = v.ValidatePDF(header("doc.pdf", 301))
	assert.ErrorIs(t, err, entity.ErrFileTooLarge)
}
