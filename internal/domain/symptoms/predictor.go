package symptoms

import (
	"context"
	"fmt"
	"strings"
)

// Predictor is the disease-prediction collaborator. The model behind it is
// opaque to this service: it receives a 0/1 vector ordered per the fixed
// symptom list and returns a condition label.
type Predictor interface {
	Predict(ctx context.Context, vector []int) (string, error)
}

// Vectorizer maps selected symptom names onto the model's fixed input
// vector. The symptom order is part of the model contract and must not
// change between training and serving.
type Vectorizer struct {
	symptoms []string
	index    map[string]int
}

func NewVectorizer(symptoms []string) *Vectorizer {
	index := make(map[string]int, len(symptoms))
	for i, s := range symptoms {
		index[s] = i
	}
	return &Vectorizer{symptoms: symptoms, index: index}
}

// Symptoms returns the ordered symptom list for display.
func (v *Vectorizer) Symptoms() []string { return v.symptoms }

// Vector builds the binary input vector for the given selection. Unknown
// symptom names are rejected so a typo never silently maps to a zero
// vector position.
func (v *Vectorizer) Vector(selected []string) ([]int, error) {
	if len(selected) == 0 {
		return nil, fmt.Errorf("symptoms: at least one symptom is required")
	}
	vec := make([]int, len(v.symptoms))
	for _, s := range selected {
		i, ok := v.index[normalize(s)]
		if !ok {
			return nil, fmt.Errorf("symptoms: unknown symptom %q", s)
		}
		vec[i] = 1
	}
	return vec, nil
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// DefaultSymptoms is the fixed, ordered symptom list the bundled model was
// trained against.
func DefaultSymptoms() []string {
	return []string{
		"itching", "skin_rash", "continuous_sneezing", "shivering", "chills",
		"joint_pain", "stomach_pain", "acidity", "vomiting", "fatigue",
		"weight_loss", "restlessness", "lethargy", "cough", "high_fever",
		"breathlessness", "sweating", "headache", "nausea", "loss_of_appetite",
		"abdominal_pain", "diarrhoea", "mild_fever", "yellowing_of_eyes",
		"chest_pain", "dizziness", "obesity", "muscle_pain", "irritability",
		"red_spots_over_body",
	}
}
