package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest document the service accepts.
const MaxUploadSize = 16 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".md":   true,
}

var allowedMIMETypes = map[string]bool{
	"text/plain":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidateUpload checks a file against the upload allow-list and size limit
// before any request is sent. declaredType may be empty; the extension
// check alone is then decisive.
func ValidateUpload(path, declaredType string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] && !allowedMIMETypes[declaredType] {
		return &UploadError{
			Filename: filepath.Base(path),
			Reason:   "unsupported file type (allowed: .txt, .md, .pdf, .doc, .docx)",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &UploadError{Filename: filepath.Base(path), Reason: fmt.Sprintf("cannot stat file: %v", err)}
	}
	if info.IsDir() {
		return &UploadError{Filename: filepath.Base(path), Reason: "is a directory"}
	}
	if info.Size() > MaxUploadSize {
		return &UploadError{Filename: filepath.Base(path), Reason: "file too large, maximum size is 16MB"}
	}
	return nil
}

// UploadConfirmation builds the system message appended after a successful
// upload.
func UploadConfirmation(filename string) Message {
	return Message{
		ID:                   NewMessageID("system"),
		Role:                 "system",
		Content:              fmt.Sprintf("Document %q has been uploaded and analyzed. You can now ask questions about its content and it will be used alongside web search.", filename),
		Timestamp:            nowRFC3339(),
		IsUploadConfirmation: true,
	}
}
