package models

import (
	"github.com/ellavondegurechaff/healthquest/internal/domain/progress"
)

type PointsRequest struct {
	Category string `json:"category"`
	Amount   int    `json:"amount"`
}

type AnswerRequest struct {
	Option *int `json:"option"`
}

type ChoiceRequest struct {
	Choice *int `json:"choice"`
}

type AnswerResponse struct {
	Correct     bool                  `json:"correct"`
	Explanation string                `json:"explanation,omitempty"`
	Award       *progress.AwardResult `json:"award,omitempty"`
}

// BadgeStatus is a catalog badge and whether the user holds it.
type BadgeStatus struct {
	progress.Badge
	Unlocked bool `json:"unlocked"`
}
