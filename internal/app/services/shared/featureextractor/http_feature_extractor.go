package featureextractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const analyzePath = "/analyze"

// httpFeatureExtractor calls the image analysis service. Outbound calls are
// throttled so a burst of uploads cannot overload it.
type httpFeatureExtractor struct {
	BaseURL string
	client  *http.Client
	limiter *rate.Limiter
	Log     *zap.Logger
}

func NewHTTPFeatureExtractor(baseURL string, timeout time.Duration, requestsPerSecond int, logger *zap.Logger) contracts.FeatureExtractor {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &httpFeatureExtractor{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		Log:     logger,
	}
}

func (c *httpFeatureExtractor) Extract(ctx context.Context, image []byte, fileName string, modality models.Modality) (*models.ExtractedFeatures, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("httpFeatureExtractor.Extract called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, string(modality)),
		zap.Int(constvars.LoggingFileSizeKey, len(image)),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrServerDeadlineExceeded(err)
	}

	body, contentType, err := buildMultipartBody(image, fileName, modality)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseURL+analyzePath, body)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, contentType)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.Log.Error("httpFeatureExtractor.Extract error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrFeatureExtraction(err)
	}

	extracted, err := parseAnalysisResponse(resp.StatusCode, payload)
	if err != nil {
		c.Log.Error("httpFeatureExtractor.Extract error parsing analysis response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.Error(err),
		)
		return nil, exceptions.ErrFeatureExtraction(err)
	}

	c.Log.Info("httpFeatureExtractor.Extract succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("features_count", len(extracted.Features)),
	)
	return extracted, nil
}

func buildMultipartBody(image []byte, fileName string, modality models.Modality) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(constvars.MultipartFormFieldFile, fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField(constvars.MultipartFormFieldImageTyp, string(modality)); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func parseAnalysisResponse(statusCode int, payload []byte) (*models.ExtractedFeatures, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("image analysis returned status %d with a non JSON body", statusCode)
	}
	result := gjson.ParseBytes(payload)

	if statusCode != http.StatusOK {
		detail := result.Get("detail").String()
		if detail == "" {
			detail = result.Get("error").String()
		}
		return nil, fmt.Errorf("image analysis returned status %d: %s", statusCode, detail)
	}
	if status := result.Get("status"); status.Exists() && status.String() != "success" {
		return nil, fmt.Errorf("image analysis failed: %s", result.Get("error").String())
	}

	featuresNode := result.Get("features")
	if !featuresNode.IsObject() {
		return nil, fmt.Errorf("image analysis response has no features")
	}
	features := make(map[string]float64)
	featuresNode.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			features[key.String()] = value.Float()
		}
		return true
	})
	if missing := models.MissingFeatures(features); len(missing) > 0 {
		return nil, fmt.Errorf("image analysis response is missing features %v", missing)
	}

	dimensions := result.Get("image_dimensions")
	if !dimensions.Exists() {
		dimensions = result.Get("dimensions")
	}

	return &models.ExtractedFeatures{
		Features: features,
		Dimensions: models.ImageDimensions{
			Height: int(dimensions.Get("height").Int()),
			Width:  int(dimensions.Get("width").Int()),
		},
	}, nil
}
