package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileTypeFromExt(t *testing.T) {
	cases := map[string]FileKind{
		"ijazah.PDF":     FileKindPDF,
		"foto.jpeg":      FileKindImage,
		"kk.webp":        FileKindImage,
		"nilai.xlsx":     FileKindSheet,
		"surat.docx":     FileKindDoc,
		"rekaman.mp3":    FileKindUnknown,
		"tanpa-ekstensi": FileKindUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, DetectFileTypeFromExt(name), name)
	}
}

func TestRoles(t *testing.T) {
	assert.True(t, IsKnownRole(RoleOperator))
	assert.False(t, IsKnownRole("owner"))
	assert.Contains(t, RoleErrorEditor("siswa"), "siswa")
}
