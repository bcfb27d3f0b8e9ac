package uploads

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfspace/shelfspace/internal/shared"
)

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func newUploadHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(&stubStore{}, "covers", "http://127.0.0.1:9000"))
}

func doUpload(h *Handler, body *bytes.Buffer, contentType string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	if authenticated {
		req = req.WithContext(shared.ContextWithUserID(req.Context(), uuid.New()))
	}
	w := httptest.NewRecorder()
	h.handleUpload(w, req)
	return w
}

func TestHandleUploadStoresImage(t *testing.T) {
	h := newUploadHandler()
	body, contentType := multipartImage(t, "image", "cover.jpg", "image/jpeg", []byte("fake-jpeg"))

	w := doUpload(h, body, contentType, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"url":"http://127.0.0.1:9000/covers/`)
}

func TestHandleUploadRejectsUnsupportedType(t *testing.T) {
	h := newUploadHandler()
	body, contentType := multipartImage(t, "image", "cover.pdf", "application/pdf", []byte("%PDF"))

	w := doUpload(h, body, contentType, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUploadRequiresImageField(t *testing.T) {
	h := newUploadHandler()
	body, contentType := multipartImage(t, "file", "cover.jpg", "image/jpeg", []byte("fake-jpeg"))

	w := doUpload(h, body, contentType, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUploadRequiresAuth(t *testing.T) {
	h := newUploadHandler()
	body, contentType := multipartImage(t, "image", "cover.jpg", "image/jpeg", []byte("fake-jpeg"))

	w := doUpload(h, body, contentType, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
