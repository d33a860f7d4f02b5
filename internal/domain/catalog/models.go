package catalog

import (
	"encoding/json"
)

const DefaultLanguage = "en"

// TerminalChapter marks a choice that ends the story.
const TerminalChapter = -1

// LocalizedText maps a language code to text. A bare JSON string decodes as
// the default language.
type LocalizedText map[string]string

func (t LocalizedText) Get(lang string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	if v, ok := t[DefaultLanguage]; ok {
		return v
	}
	for _, v := range t {
		return v
	}
	return ""
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = LocalizedText{DefaultLanguage: plain}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = m
	return nil
}

type Quiz struct {
	ID          string        `json:"id"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	XP          int           `json:"xp"`
	Questions   []Question    `json:"questions"`
}

type Question struct {
	ID          int             `json:"id"`
	Text        LocalizedText   `json:"text"`
	Options     []LocalizedText `json:"options"`
	Correct     int             `json:"correct"`
	Explanation LocalizedText   `json:"explanation,omitempty"`
}

type Reel struct {
	ID              string        `json:"id"`
	Title           LocalizedText `json:"title"`
	Description     LocalizedText `json:"description,omitempty"`
	VideoURL        string        `json:"videoUrl"`
	DurationSeconds int           `json:"durationSeconds"`
	XP              int           `json:"xp"`
	Tags            []string      `json:"tags,omitempty"`
}

type HealthCenter struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	Phone    string   `json:"phone,omitempty"`
	Services []string `json:"services,omitempty"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
}

type Story struct {
	ID          string        `json:"id"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description,omitempty"`
	Chapters    []Chapter     `json:"chapters"`
}

type Chapter struct {
	ID      int           `json:"id"`
	Content LocalizedText `json:"content"`
	Choices []Choice      `json:"choices"`
}

type Choice struct {
	Text        LocalizedText `json:"text"`
	NextChapter int           `json:"nextChapter"`
	XP          int           `json:"xp"`
	Feedback    LocalizedText `json:"feedback,omitempty"`
}

// Chapter looks a chapter up by id.
func (s *Story) Chapter(id int) (*Chapter, bool) {
	for i := range s.Chapters {
		if s.Chapters[i].ID == id {
			return &s.Chapters[i], true
		}
	}
	return nil, false
}

// FirstChapter is where every traversal starts. Only valid stories reach the
// engine, so there is always at least one.
func (s *Story) FirstChapter() *Chapter {
	return &s.Chapters[0]
}

type RewardType string

const (
	RewardCoupon   RewardType = "coupon"
	RewardActivity RewardType = "activity"
	RewardMentor   RewardType = "mentor"
)

type Reward struct {
	ID             string        `json:"id"`
	Title          LocalizedText `json:"title"`
	Description    LocalizedText `json:"description,omitempty"`
	Type           RewardType    `json:"type"`
	Category       string        `json:"category,omitempty"`
	RequiredLevel  int           `json:"requiredLevel"`
	RequiredBadges []string      `json:"requiredBadges,omitempty"`
	TotalAvailable *int          `json:"totalAvailable,omitempty"`
}
