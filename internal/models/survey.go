package models

type QuestionType string

const (
	QuestionMulti  QuestionType = "multi"
	QuestionSingle QuestionType = "single"
)

type SurveyQuestion struct {
	Title    string       `json:"title" yaml:"title"`
	Subtitle string       `json:"subtitle" yaml:"subtitle"`
	Type     QuestionType `json:"type" yaml:"type"`
	Field    string       `json:"field" yaml:"field"`
	Options  []string     `json:"options" yaml:"options"`
}

// SurveyAnswers holds one respondent's answers, keyed by question field.
type SurveyAnswers struct {
	ConsolesOwned    []string `json:"consolesOwned" validate:"required,min=1"`
	ImportantFactors []string `json:"importantFactors" validate:"required,min=1"`
	PlayFrequency    string   `json:"playFrequency" validate:"required"`
	GameTypes        []string `json:"gameTypes" validate:"required,min=1"`
	PS5Features      []string `json:"ps5Features" validate:"required,min=1"`
	InfoSources      []string `json:"infoSources" validate:"required,min=1"`
	PurchaseReason   string   `json:"purchaseReason" validate:"required"`
	PurchaseType     string   `json:"purchaseType" validate:"required"`
	AgeRange         string   `json:"ageRange" validate:"required"`
	GamerType        string   `json:"gamerType" validate:"required"`
}

// Values returns the selected options for field; single-select answers yield at most one.
func (a SurveyAnswers) Values(field string) []string {
	single := func(v string) []string {
		if v == "" {
			return nil
		}
		return []string{v}
	}
	switch field {
	case "consolesOwned":
		return a.ConsolesOwned
	case "importantFactors":
		return a.ImportantFactors
	case "playFrequency":
		return single(a.PlayFrequency)
	case "gameTypes":
		return a.GameTypes
	case "ps5Features":
		return a.PS5Features
	case "infoSources":
		return a.InfoSources
	case "purchaseReason":
		return single(a.PurchaseReason)
	case "purchaseType":
		return single(a.PurchaseType)
	case "ageRange":
		return single(a.AgeRange)
	case "gamerType":
		return single(a.GamerType)
	}
	return nil
}

// SurveySubmission is the payload delivered to the lead webhook.
type SurveySubmission struct {
	SurveyAnswers
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}
