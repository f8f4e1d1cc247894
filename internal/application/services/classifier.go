package services

import (
	"strings"

	"github.com/seren-labs/attune/internal/domain/entities"
)

// Lexicons for the hand-tuned emotion decision table. These are fixed
// word lists, not a statistical model; thresholds below are tuned
// against the check-in corpus.
var (
	positiveEmotions = tagSet(
		"happy", "joyful", "excited", "grateful", "content", "calm",
		"peaceful", "hopeful", "proud", "loved", "energetic", "relaxed",
	)

	negativeEmotions = tagSet(
		"sad", "angry", "anxious", "stressed", "lonely", "tired",
		"frustrated", "overwhelmed", "scared", "hopeless", "numb",
		"irritable", "depressed", "worried", "exhausted",
	)

	needsSupportEmotions = tagSet(
		"sad", "anxious", "lonely", "overwhelmed", "scared", "hopeless",
		"stressed", "depressed", "numb",
	)

	severeEmotions = tagSet(
		"sad", "tired", "angry", "anxious", "lonely", "overwhelmed",
		"scared", "hopeless", "numb", "depressed", "exhausted",
	)

	concerningMarkers = []string{
		"can't cope", "cant cope", "falling apart", "hopeless",
		"worthless", "trapped", "no way out", "give up", "hate myself",
		"so alone", "unbearable",
	}

	crisisKeywords = []string{
		"suicide", "suicidal", "kill myself", "end it all", "end my life",
		"self harm", "self-harm", "hurt myself", "don't want to live",
		"dont want to live", "better off dead",
	}

	intensityAdverbs = []string{
		"very", "extremely", "really", "completely", "totally",
		"incredibly", "utterly",
	}
)

// EmotionClassifier derives an EmotionAssessment from a check-in's
// emotion tags and free text. It is a pure function of its inputs:
// no I/O, no side effects, and it never fails. Empty input yields the
// neutral/none/safe/low assessment.
type EmotionClassifier struct{}

// NewEmotionClassifier creates a new classifier.
func NewEmotionClassifier() *EmotionClassifier {
	return &EmotionClassifier{}
}

// Classify computes the assessment for the given tags and free text.
func (c *EmotionClassifier) Classify(emotionTags []string, freeText string) *entities.EmotionAssessment {
	tags := normalizeTags(emotionTags)
	text := strings.ToLower(freeText)

	return &entities.EmotionAssessment{
		Sentiment:        c.sentiment(tags),
		Intensity:        c.intensity(tags, text),
		SupportLevel:     c.supportLevel(tags, text),
		RiskLevel:        c.riskLevel(tags, text),
		DominantEmotions: dominantEmotions(tags),
	}
}

// sentiment counts tags against the positive and negative sets;
// majority wins, ties are neutral.
func (c *EmotionClassifier) sentiment(tags []string) entities.Sentiment {
	positive, negative := 0, 0
	for _, tag := range tags {
		if positiveEmotions[tag] {
			positive++
		}
		if negativeEmotions[tag] {
			negative++
		}
	}
	switch {
	case positive > negative:
		return entities.SentimentPositive
	case negative > positive:
		return entities.SentimentNegative
	default:
		return entities.SentimentNeutral
	}
}

// supportLevel combines a needs-support tag score with a concerning
// text-marker score.
func (c *EmotionClassifier) supportLevel(tags []string, text string) entities.SupportLevel {
	emotionScore := 0
	for _, tag := range tags {
		if needsSupportEmotions[tag] {
			emotionScore++
		}
	}

	textScore := 0
	if text != "" {
		for _, marker := range concerningMarkers {
			if strings.Contains(text, marker) {
				textScore++
			}
		}
	}

	switch {
	case textScore >= 2 || emotionScore >= 3:
		return entities.SupportHigh
	case textScore >= 1 || emotionScore >= 2:
		return entities.SupportMedium
	case emotionScore >= 1:
		return entities.SupportLow
	default:
		return entities.SupportNone
	}
}

// riskLevel grades safety indicators. A crisis keyword in free text
// short-circuits to urgent regardless of anything else.
func (c *EmotionClassifier) riskLevel(tags []string, text string) entities.RiskLevel {
	if text != "" {
		for _, keyword := range crisisKeywords {
			if strings.Contains(text, keyword) {
				return entities.RiskUrgent
			}
		}

		concernMatches := 0
		for _, marker := range concerningMarkers {
			if strings.Contains(text, marker) {
				concernMatches++
			}
		}
		if concernMatches >= 2 {
			return entities.RiskConcern
		}
	}

	severeCount := 0
	for _, tag := range tags {
		if severeEmotions[tag] {
			severeCount++
		}
	}
	if severeCount >= 3 {
		return entities.RiskConcern
	}

	return entities.RiskSafe
}

// intensity buckets adverb occurrences plus raw tag count.
func (c *EmotionClassifier) intensity(tags []string, text string) entities.Intensity {
	adverbCount := 0
	if text != "" {
		for _, adverb := range intensityAdverbs {
			adverbCount += strings.Count(text, adverb)
		}
	}

	tagCount := len(tags)
	switch {
	case adverbCount >= 3 || tagCount >= 5:
		return entities.IntensityExtreme
	case adverbCount >= 2 || tagCount >= 4:
		return entities.IntensityHigh
	case adverbCount >= 1 || tagCount >= 2:
		return entities.IntensityMedium
	default:
		return entities.IntensityLow
	}
}

// dominantEmotions keeps the first three tags in submission order.
func dominantEmotions(tags []string) []string {
	if len(tags) <= 3 {
		return tags
	}
	return tags[:3]
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func tagSet(tags ...string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
