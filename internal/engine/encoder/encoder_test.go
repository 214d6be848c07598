package encoder_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports/mocks"
	"go.trai.ch/livepush/internal/engine/encoder"
	"go.uber.org/mock/gomock"
)

func code(contents string) domain.File {
	return domain.File{Type: domain.FileTypeCode, Contents: contents}
}

func TestDiff_Golden(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		contents string
	}{
		{name: "first_publish", base: "", contents: "new code"},
		{name: "edit_lines", base: "a\nb\nc\nd\n", contents: "a\nB\nc\nd\ne\nf\n"},
		{name: "add_trailing_newline", base: "one\ntwo", contents: "one\ntwo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goldie.New(t)
			g.Assert(t, tt.name, []byte(encoder.Diff(tt.base, tt.contents)))
		})
	}
}

func TestDiff_Unchanged(t *testing.T) {
	assert.Empty(t, encoder.Diff("same\n", "same\n"))
	assert.Empty(t, encoder.Diff("", ""))
}

func TestPayloadSize(t *testing.T) {
	empty := encoder.PayloadSize("abcdef", map[string]string{}, map[string]string{})
	// Channel, the 9 letters of diff and s3url, and 13 escaped punctuation bytes.
	assert.Equal(t, 6+9+13*3+5000, empty)

	withSlash := encoder.PayloadSize("abcdef", map[string]string{"a": "/"}, map[string]string{})
	withLetter := encoder.PayloadSize("abcdef", map[string]string{"a": "b"}, map[string]string{})
	assert.Equal(t, withLetter+2, withSlash)
}

func TestEncoder_FirstPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)

	enc := encoder.New(blobs)
	payload, err := enc.Encode(context.Background(), "123456", domain.Files{
		"App.js": code("new code"),
	})
	require.NoError(t, err)

	assert.Equal(t, encoder.Diff("", "new code"), payload.Diff["App.js"])
	assert.Empty(t, payload.S3URL)
	assert.LessOrEqual(t, payload.Size, encoder.MaxPayloadSize)
}

func TestEncoder_PassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)

	enc := encoder.New(blobs)
	payload, err := enc.Encode(context.Background(), "123456", domain.Files{
		"App.js":    code(""),
		"logo.png":  {Type: domain.FileTypeAsset, Contents: "https://cdn.example.com/logo.png"},
		"stored.js": code("https://snack-code-uploads/abc"),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"App.js": "", "logo.png": "", "stored.js": ""}, payload.Diff)
	assert.Equal(t, map[string]string{
		"logo.png":  "https://cdn.example.com/logo.png",
		"stored.js": "https://snack-code-uploads/abc",
	}, payload.S3URL)
}

func TestEncoder_PendingAsset(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	blobs.EXPECT().UploadAsset(gomock.Any(), "icon.png", []byte{1, 2, 3}).Return("https://blobs/icon", nil)

	enc := encoder.New(blobs)
	payload, err := enc.Encode(context.Background(), "123456", domain.Files{
		"icon.png": {Type: domain.FileTypeAsset, Data: []byte{1, 2, 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://blobs/icon", payload.S3URL["icon.png"])
	assert.Empty(t, payload.Diff["icon.png"])
}

func TestEncoder_EvictsLargestFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)

	large := strings.Repeat("xxxxxxxxx\n", 400)
	medium := strings.Repeat("yyyyyyyyy\n", 100)

	blobs.EXPECT().UploadText(gomock.Any(), large).Return("https://blobs/large", nil).Times(1)

	enc := encoder.New(blobs, encoder.WithMaxSize(9000))
	files := domain.Files{
		"large.js":  code(large),
		"medium.js": code(medium),
		"small.js":  code("hi"),
	}

	payload, err := enc.Encode(context.Background(), "123456", files)
	require.NoError(t, err)

	assert.Empty(t, payload.Diff["large.js"])
	assert.Equal(t, "https://blobs/large", payload.S3URL["large.js"])
	assert.NotEmpty(t, payload.Diff["medium.js"])
	assert.NotContains(t, payload.S3URL, "medium.js")
	assert.LessOrEqual(t, payload.Size, 9000)
	assert.Equal(t, []string{"large.js"}, enc.Mirrored())

	t.Run("later diffs use the mirrored copy", func(t *testing.T) {
		files["large.js"] = code(large + "zz\n")

		payload, err := enc.Encode(context.Background(), "123456", files)
		require.NoError(t, err)

		assert.Equal(t, encoder.Diff(large, large+"zz\n"), payload.Diff["large.js"])
		assert.Equal(t, "https://blobs/large", payload.S3URL["large.js"])
	})

	t.Run("reset forgets mirrors", func(t *testing.T) {
		enc.Reset()
		assert.Empty(t, enc.Mirrored())

		blobs.EXPECT().UploadText(gomock.Any(), large+"zz\n").Return("https://blobs/large2", nil)

		payload, err := enc.Encode(context.Background(), "123456", files)
		require.NoError(t, err)
		assert.Equal(t, "https://blobs/large2", payload.S3URL["large.js"])
	})
}

func TestEncoder_DeletedFilesDropMirror(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	blobs.EXPECT().UploadText(gomock.Any(), gomock.Any()).Return("https://blobs/x", nil)

	enc := encoder.New(blobs, encoder.WithMaxSize(5100))
	_, err := enc.Encode(context.Background(), "123456", domain.Files{"big.js": code(strings.Repeat("a", 500))})
	require.NoError(t, err)
	require.Equal(t, []string{"big.js"}, enc.Mirrored())

	_, err = enc.Encode(context.Background(), "123456", domain.Files{"App.js": code("")})
	require.NoError(t, err)
	assert.Empty(t, enc.Mirrored())
}

func TestEncoder_UploadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	boom := errors.New("boom")
	blobs.EXPECT().UploadText(gomock.Any(), gomock.Any()).Return("", boom)

	enc := encoder.New(blobs, encoder.WithMaxSize(5100))
	_, err := enc.Encode(context.Background(), "123456", domain.Files{"big.js": code(strings.Repeat("a", 500))})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, enc.Mirrored())
}
