package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/intellimulti/chat-backend/internal/config"
	"github.com/intellimulti/chat-backend/internal/entity"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

var audioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

// Validator enforces per-kind upload limits on multipart attachments
type Validator struct {
	cfg config.FileUploadConfig
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateImage checks that the file looks like a supported image and
// fits the configured size cap.
func (v *Validator) ValidateImage(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: image file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: jpg, jpeg, png, gif, bmp, webp)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxImageSize {
		return fmt.Errorf("%w: image %s is %d bytes, limit %d", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxImageSize)
	}

	return nil
}

// ValidateAudio checks that the file looks like a supported audio clip
// and fits the configured size cap.
func (v *Validator) ValidateAudio(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: audio file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !audioExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: mp3, wav, m4a)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxAudioSize {
		return fmt.Errorf("%w: audio %s is %d bytes, limit %d", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxAudioSize)
	}

	return nil
}

// ValidatePDF checks that the file carries a .pdf extension and fits
// the configured size cap. Content is verified later during parsing.
func (v *Validator) ValidatePDF(fh *multipart.FileHeader) error {
	if fh == nil {
		return fmt.Errorf("%w: pdf file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		return fmt.Errorf("%w: %s (allowed: pdf)", entity.ErrInvalidExtension, ext)
	}

	if fh.Size > v.cfg.MaxPDFSize {
		return fmt.Errorf("%w: pdf %s is %d bytes, limit %d", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxPDFSize)
	}

	return nil
}
