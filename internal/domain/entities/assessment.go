package entities

// Sentiment is the overall polarity of a check-in.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Intensity buckets how strongly the emotional state is expressed.
type Intensity string

const (
	IntensityLow     Intensity = "low"
	IntensityMedium  Intensity = "medium"
	IntensityHigh    Intensity = "high"
	IntensityExtreme Intensity = "extreme"
)

// SupportLevel estimates how much support the user needs right now.
type SupportLevel string

const (
	SupportNone   SupportLevel = "none"
	SupportLow    SupportLevel = "low"
	SupportMedium SupportLevel = "medium"
	SupportHigh   SupportLevel = "high"
	SupportUrgent SupportLevel = "urgent"
)

// RiskLevel grades safety risk indicators found in a check-in.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskMonitor RiskLevel = "monitor"
	RiskConcern RiskLevel = "concern"
	RiskUrgent  RiskLevel = "urgent"
)

// EmotionAssessment is the derived classification of a check-in.
// It is recomputed on demand and never persisted.
type EmotionAssessment struct {
	Sentiment        Sentiment    `json:"sentiment"`
	Intensity        Intensity    `json:"intensity"`
	SupportLevel     SupportLevel `json:"support_level"`
	RiskLevel        RiskLevel    `json:"risk_level"`
	DominantEmotions []string     `json:"dominant_emotions"`
}

// NeedsCrisisSupport reports whether risk indicators crossed the
// threshold at which crisis suggestions must be surfaced.
func (a *EmotionAssessment) NeedsCrisisSupport() bool {
	return a.RiskLevel == RiskConcern || a.RiskLevel == RiskUrgent
}
