package models

import (
	"fmt"
	"strings"
	"time"
)

type Modality string

const (
	ModalityXRay Modality = "xray"
	ModalityMRI  Modality = "mri"
	ModalityCT   Modality = "ct"
)

func ParseModality(value string) (Modality, error) {
	switch Modality(strings.ToLower(strings.TrimSpace(value))) {
	case ModalityXRay:
		return ModalityXRay, nil
	case ModalityMRI:
		return ModalityMRI, nil
	case ModalityCT:
		return ModalityCT, nil
	}
	return "", fmt.Errorf("unsupported modality %q", value)
}

// Label is the upper-cased form used in report headers, e.g. XRAY.
func (m Modality) Label() string {
	return strings.ToUpper(string(m))
}

type FeatureSet struct {
	MeanIntensity     float64 `json:"mean_intensity" bson:"mean_intensity"`
	StdIntensity      float64 `json:"std_intensity" bson:"std_intensity"`
	MinIntensity      float64 `json:"min_intensity" bson:"min_intensity"`
	MaxIntensity      float64 `json:"max_intensity" bson:"max_intensity"`
	EdgeDensity       float64 `json:"edge_density" bson:"edge_density"`
	TextureVariance   float64 `json:"texture_variance" bson:"texture_variance"`
	BrightRegionRatio float64 `json:"bright_region_ratio" bson:"bright_region_ratio"`
	DarkRegionRatio   float64 `json:"dark_region_ratio" bson:"dark_region_ratio"`
	HistogramPeak     float64 `json:"histogram_peak" bson:"histogram_peak"`
}

// RequiredFeatureNames are the measurements the observation rules read.
var RequiredFeatureNames = []string{
	"mean_intensity",
	"edge_density",
	"texture_variance",
	"bright_region_ratio",
	"dark_region_ratio",
}

// MissingFeatures lists the required measurements absent from features.
func MissingFeatures(features map[string]float64) []string {
	var missing []string
	for _, name := range RequiredFeatureNames {
		if _, ok := features[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// FeatureSetFromMap picks the known feature names; unknown names are ignored.
func FeatureSetFromMap(features map[string]float64) FeatureSet {
	return FeatureSet{
		MeanIntensity:     features["mean_intensity"],
		StdIntensity:      features["std_intensity"],
		MinIntensity:      features["min_intensity"],
		MaxIntensity:      features["max_intensity"],
		EdgeDensity:       features["edge_density"],
		TextureVariance:   features["texture_variance"],
		BrightRegionRatio: features["bright_region_ratio"],
		DarkRegionRatio:   features["dark_region_ratio"],
		HistogramPeak:     features["histogram_peak"],
	}
}

type ImageDimensions struct {
	Height int `json:"height" bson:"height"`
	Width  int `json:"width" bson:"width"`
}

func (d ImageDimensions) IsZero() bool {
	return d.Height == 0 && d.Width == 0
}

type ImageEvidence struct {
	Modality     Modality        `json:"modality" bson:"modality"`
	Features     FeatureSet      `json:"features" bson:"features"`
	Dimensions   ImageDimensions `json:"dimensions" bson:"dimensions"`
	Observations []string        `json:"observations" bson:"observations"`
	Disclaimer   string          `json:"disclaimer" bson:"disclaimer"`
	ImageObject  string          `json:"image_object,omitempty" bson:"image_object,omitempty"`
	AnalyzedAt   time.Time       `json:"analyzed_at" bson:"analyzed_at"`
}

// ExtractedFeatures is what the external image analysis returns for one image.
type ExtractedFeatures struct {
	Features   map[string]float64 `json:"features"`
	Dimensions ImageDimensions    `json:"dimensions"`
}
