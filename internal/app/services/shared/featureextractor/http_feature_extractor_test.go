package featureextractor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ct", r.FormValue("image_type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "scan.png", header.Filename)
		assert.Equal(t, []byte("pixels"), content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"image_type": "ct",
			"features": {"mean_intensity": 182.5, "edge_density": 0.12, "texture_variance": 310.4, "bright_region_ratio": 0.2, "dark_region_ratio": 0.05, "histogram_peak": 201, "label": "x"},
			"image_dimensions": {"height": 512, "width": 640}
		}`))
	}))
	defer server.Close()

	extractor := NewHTTPFeatureExtractor(server.URL+"/", 5*time.Second, 10, zap.NewNop())
	extracted, err := extractor.Extract(context.Background(), []byte("pixels"), "scan.png", models.ModalityCT)

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"mean_intensity":      182.5,
		"edge_density":        0.12,
		"texture_variance":    310.4,
		"bright_region_ratio": 0.2,
		"dark_region_ratio":   0.05,
		"histogram_peak":      201,
	}, extracted.Features)
	assert.Equal(t, models.ImageDimensions{Height: 512, Width: 640}, extracted.Dimensions)
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad request", http.StatusBadRequest, `{"detail": "Invalid image_type"}`},
		{"analysis error", http.StatusOK, `{"status": "error", "error": "cannot decode image"}`},
		{"missing features", http.StatusOK, `{"status": "success"}`},
		{"incomplete features", http.StatusOK, `{"status": "success", "features": {"mean_intensity": 120, "edge_density": 0.1}}`},
		{"not json", http.StatusInternalServerError, `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			extractor := NewHTTPFeatureExtractor(server.URL, 5*time.Second, 10, zap.NewNop())
			_, err := extractor.Extract(context.Background(), []byte("pixels"), "scan.png", models.ModalityXRay)

			require.Error(t, err)
			assert.Equal(t, http.StatusBadGateway, exceptions.StatusCodeOf(err))
		})
	}
}

func TestExtract_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	extractor := NewHTTPFeatureExtractor(url, time.Second, 10, zap.NewNop())
	_, err := extractor.Extract(context.Background(), []byte("pixels"), "scan.png", models.ModalityMRI)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, exceptions.StatusCodeOf(err))
}
