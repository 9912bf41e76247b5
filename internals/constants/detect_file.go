package constants

import (
	"path/filepath"
	"strings"
)

type FileKind int

const (
	FileKindUnknown FileKind = 99
	FileKindDoc     FileKind = 3
	FileKindPDF     FileKind = 4
	FileKindSheet   FileKind = 5
	FileKindImage   FileKind = 6
)

func DetectFileTypeFromExt(filename string) FileKind {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".doc", ".docx":
		return FileKindDoc
	case ".pdf":
		return FileKindPDF
	case ".xls", ".xlsx":
		return FileKindSheet
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileKindImage
	default:
		return FileKindUnknown
	}
}

// MIME yang boleh dilampirkan ke berkas arsip.
var AllowedDocumentMIME = map[string]FileKind{
	"image/jpeg":               FileKindImage,
	"image/png":                FileKindImage,
	"image/webp":               FileKindImage,
	"application/pdf":          FileKindPDF,
	"application/msword":       FileKindDoc,
	"application/vnd.ms-excel": FileKindSheet,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileKindDoc,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       FileKindSheet,
}

// Gambar raster yang di-encode ulang ke WebP saat upload.
func IsConvertibleImage(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}
