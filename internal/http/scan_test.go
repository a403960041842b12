package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granthpal/libscan/internal/barcode"
)

func setupScanRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewScanController(barcode.NewImageDecoder(), nil)

	router := gin.New()
	router.POST("/api/scan/classify", controller.Classify)
	router.POST("/api/scan/image", controller.DecodeImage)
	return router
}

func postClassify(t *testing.T, router *gin.Engine, body ClassifyRequest) (*httptest.ResponseRecorder, ClassifyResponse) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/scan/classify", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var response ClassifyResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w, response
}

func TestScanController_Classify(t *testing.T) {
	router := setupScanRouter()

	t.Run("classifies structured student payload", func(t *testing.T) {
		w, response := postClassify(t, router, ClassifyRequest{
			Payload: `{"student_id":"42","student_number":"STU-2024-0042","email":"asha@example.edu"}`,
			Mode:    "student",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, response.Accepted)
		require.NotNil(t, response.Record)
		assert.Equal(t, "student", response.Record.Type)
		require.NotNil(t, response.Record.Student)
		assert.Equal(t, "STU-2024-0042", response.Record.Student.StudentNumber)
	})

	t.Run("classifies ISBN-shaped code as book", func(t *testing.T) {
		w, response := postClassify(t, router, ClassifyRequest{
			Payload: "978-0-13-595705-9",
			Mode:    "book",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, response.Record)
		assert.Equal(t, "book", response.Record.Type)
		require.NotNil(t, response.Record.Book)
		assert.Equal(t, "9780135957059", response.Record.Book.ISBN)
	})

	t.Run("rejects book code when student expected", func(t *testing.T) {
		w, response := postClassify(t, router, ClassifyRequest{
			Payload: "9780135957059",
			Mode:    "student",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, response.Accepted)
		assert.Equal(t, "book code scanned, expected student", response.Reason)
	})

	t.Run("coerces unknown code to expected mode", func(t *testing.T) {
		w, response := postClassify(t, router, ClassifyRequest{
			Payload: "LIB-UNKNOWN-001",
			Mode:    "book",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, response.Record)
		assert.Equal(t, "generic", response.Record.Type)
		require.NotNil(t, response.Record.Generic)
		assert.Equal(t, "book", response.Record.Generic.Assumed)
	})

	t.Run("rejects missing payload", func(t *testing.T) {
		w, _ := postClassify(t, router, ClassifyRequest{Mode: "book"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects invalid mode", func(t *testing.T) {
		w, _ := postClassify(t, router, ClassifyRequest{Payload: "anything", Mode: "shelf"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScanController_DecodeImage(t *testing.T) {
	router := setupScanRouter()

	t.Run("rejects request without image", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/scan/image", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reports unreadable image as one error", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("not an image"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/scan/image", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "could not read barcode")
	})
}
