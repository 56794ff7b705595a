package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"keeps single blank line", "a\n\nb", "a\n\nb"},
		{"trims", "  \n a \n\n", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestReadTextFile(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"utf8", []byte("héllo\r\nworld"), "héllo\nworld"},
		{"bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("notes")...), "notes"},
		{"latin1 fallback", []byte{'c', 'a', 'f', 0xE9}, "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTextFile(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	text, err := Extract("Notes.MD", []byte("# Title\n\n\n\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", text)

	_, err = Extract("image.png", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Extract("empty.txt", []byte(" \r\n "))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestExtractInvalidPDF(t *testing.T) {
	_, err := Extract("broken.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}
