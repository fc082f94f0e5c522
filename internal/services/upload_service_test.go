package services_test

import (
	"io"
	"strings"
	"testing"

	"jumboprint/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestUploadService_SaveAndOpen(t *testing.T) {
	svc, err := services.NewUploadService(t.TempDir())
	assert.NoError(t, err)

	result, err := svc.Save("design.pdf", strings.NewReader("pdf-bytes"))
	assert.NoError(t, err)
	assert.Contains(t, result.Key, "design.pdf")
	assert.Equal(t, "/files/"+result.Key, result.URL)

	f, err := svc.Open(result.Key)
	assert.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	assert.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(content))
}

func TestUploadService_UniqueKeys(t *testing.T) {
	svc, err := services.NewUploadService(t.TempDir())
	assert.NoError(t, err)

	first, err := svc.Save("card.png", strings.NewReader("one"))
	assert.NoError(t, err)
	second, err := svc.Save("card.png", strings.NewReader("two"))
	assert.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
}

func TestUploadService_RejectsEmptyUpload(t *testing.T) {
	svc, err := services.NewUploadService(t.TempDir())
	assert.NoError(t, err)

	_, err = svc.Save("empty.pdf", strings.NewReader(""))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestUploadService_StripsPathFromFilename(t *testing.T) {
	svc, err := services.NewUploadService(t.TempDir())
	assert.NoError(t, err)

	result, err := svc.Save("../../etc/passwd", strings.NewReader("x"))
	assert.NoError(t, err)
	assert.NotContains(t, result.Key, "/")
	assert.Contains(t, result.Key, "passwd")
}

func TestUploadService_OpenRejectsTraversal(t *testing.T) {
	svc, err := services.NewUploadService(t.TempDir())
	assert.NoError(t, err)

	_, err = svc.Open("../secret.txt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file key")

	_, err = svc.Open("")
	assert.Error(t, err)
}
