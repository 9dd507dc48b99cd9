package imaging

import (
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
)

const ImageDisclaimer = "AI-generated observations. For radiologist review only. Not a diagnosis."

const (
	lowContrastTextureVariance  = 50.0
	highContrastTextureVariance = 1000.0
	lucentMeanIntensity         = 180.0
	opaqueMeanIntensity         = 80.0
	regionRatioThreshold        = 0.15
	wellDefinedEdgeDensity      = 0.1
	homogeneousEdgeDensity      = 0.03
)

// rule appends at most one sentence and never looks at other rules' output.
type rule func(features models.FeatureSet, modality models.Modality) (string, bool)

var rules = []rule{
	imageQuality,
	overallDensity,
	lucentRegions,
	denseRegions,
	structuralBorders,
	modalityRemark,
}

var modalityRemarks = map[models.Modality]string{
	models.ModalityXRay: "Radiographic examination completed. Standard positioning maintained.",
	models.ModalityMRI:  "MRI acquisition parameters within acceptable range.",
	models.ModalityCT:   "CT scan slice reviewed. Axial plane visualization adequate.",
}

type observationRuleEngine struct{}

func NewObservationRuleEngine() contracts.ObservationRuleEngine {
	return &observationRuleEngine{}
}

func (e *observationRuleEngine) Observe(features models.FeatureSet, modality models.Modality) []string {
	observations := make([]string, 0, len(rules))
	for _, apply := range rules {
		if sentence, ok := apply(features, modality); ok {
			observations = append(observations, sentence)
		}
	}
	return observations
}

func imageQuality(features models.FeatureSet, _ models.Modality) (string, bool) {
	switch {
	case features.TextureVariance < lowContrastTextureVariance:
		return "Image quality: Low contrast detected. Clinical correlation recommended.", true
	case features.TextureVariance > highContrastTextureVariance:
		return "Image quality: High contrast with detailed structural visibility.", true
	}
	return "Image quality: Adequate for diagnostic assessment.", true
}

func overallDensity(features models.FeatureSet, _ models.Modality) (string, bool) {
	switch {
	case features.MeanIntensity > lucentMeanIntensity:
		return "Overall density: Predominantly lucent appearance noted.", true
	case features.MeanIntensity < opaqueMeanIntensity:
		return "Overall density: Increased opacity observed.", true
	}
	return "Overall density: Within expected range.", true
}

func lucentRegions(features models.FeatureSet, _ models.Modality) (string, bool) {
	if features.BrightRegionRatio > regionRatioThreshold {
		return "Notable lucent regions identified. Further radiologist review recommended.", true
	}
	return "", false
}

func denseRegions(features models.FeatureSet, _ models.Modality) (string, bool) {
	if features.DarkRegionRatio > regionRatioThreshold {
		return "Dense regions noted. Clinical correlation advised.", true
	}
	return "", false
}

func structuralBorders(features models.FeatureSet, _ models.Modality) (string, bool) {
	switch {
	case features.EdgeDensity > wellDefinedEdgeDensity:
		return "Well-defined structural borders present.", true
	case features.EdgeDensity < homogeneousEdgeDensity:
		return "Homogeneous appearance with minimal structural variation.", true
	}
	return "", false
}

func modalityRemark(_ models.FeatureSet, modality models.Modality) (string, bool) {
	remark, ok := modalityRemarks[modality]
	return remark, ok
}
