package utils

import (
	"fmt"
	"medreport-service/internal/pkg/constvars"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateFileName(prefix, owner, fileExtension string) string {
	timestamp := time.Now().Format("20060102_150405.000000000")
	return fmt.Sprintf("%s_%s_%s%s", prefix, owner, timestamp, fileExtension)
}

// GenerateReportID builds RPT-YYYYMMDD-HHMMSS-xxxxxxxx, unique even for
// reports created within the same second.
func GenerateReportID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("RPT-%s-%s", now.Format("20060102-150405"), suffix)
}
