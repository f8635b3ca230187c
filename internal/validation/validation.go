package validation

import (
	"errors"
	"mime/multipart"
	"net/mail"
	"strings"
)

const (
	MaxFileSize    = 10 * 1024 * 1024 // 10MB
	MaxNameLength  = 255
	MaxEmailLength = 254
)

var (
	ErrFileTooLarge    = errors.New("file too large - maximum 10MB allowed")
	ErrInvalidFileType = errors.New("invalid file type - only png, jpeg, webp, gif, svg allowed")
	ErrFilenameTooLong = errors.New("filename too long - maximum 255 characters")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrNameTooLong     = errors.New("name too long - maximum 255 characters")
)

var AllowedMimeTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/webp":    true,
	"image/gif":     true,
	"image/svg+xml": true,
}

// ValidateUpload checks an asset upload and returns its effective content type.
func ValidateUpload(fileHeader *multipart.FileHeader) (string, error) {

	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}

	if fileHeader.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	if len(fileHeader.Filename) > MaxNameLength {
		return "", ErrFilenameTooLong
	}

	contentType := fileHeader.Header.Get("Content-Type")

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = guessContentType(fileHeader.Filename)
	}

	if !AllowedMimeTypes[contentType] {
		return "", ErrInvalidFileType
	}

	return contentType, nil
}

func guessContentType(filename string) string {

	idx := strings.LastIndex(filename, ".")
	if idx == -1 {
		return "application/octet-stream"
	}

	ext := strings.ToLower(filename[idx+1:])

	typeMap := map[string]string{
		"png":  "image/png",
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"webp": "image/webp",
		"gif":  "image/gif",
		"svg":  "image/svg+xml",
	}

	if ct, ok := typeMap[ext]; ok {
		return ct
	}

	return "application/octet-stream"
}

// ValidateEmail rejects blank or unparseable addresses from the signup form.
func ValidateEmail(email string) error {

	email = strings.TrimSpace(email)
	if email == "" || len(email) > MaxEmailLength {
		return ErrInvalidEmail
	}

	// a bare address only; "Name <addr>" would be stored verbatim
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	return nil
}

func ValidateName(name string) error {

	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}

	return nil
}
