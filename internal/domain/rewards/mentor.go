package rewards

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	"github.com/google/uuid"
)

const (
	mentorMinAge        = 16
	mentorMaxNameLen    = 100
	mentorMotivationMin = 30
	mentorMotivationMax = 2000
)

type MentorApplication struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Age        *int   `json:"age,omitempty"`
	Motivation string `json:"motivation"`
	Experience string `json:"experience,omitempty"`
}

type MentorResult struct {
	Success       bool   `json:"success"`
	Reason        Reason `json:"reason,omitempty"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId,omitempty"`
}

type MentorService struct {
	repo MentorRepository
	now  func() time.Time
}

func NewMentorService(repo MentorRepository) *MentorService {
	return &MentorService{repo: repo, now: time.Now}
}

// Submit validates and stores a peer-mentor application. Every failure comes
// back as a result with a message fit to show the applicant.
func (s *MentorService) Submit(ctx context.Context, userID string, form MentorApplication) *MentorResult {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Motivation = strings.TrimSpace(form.Motivation)
	form.Experience = strings.TrimSpace(form.Experience)

	if msg := validateMentorForm(form); msg != "" {
		return &MentorResult{Reason: ReasonInvalid, Message: msg}
	}

	pending, err := s.repo.HasPendingApplication(ctx, userID)
	if err != nil {
		slog.Warn("Failed to check pending mentor applications",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return unavailableMentorResult()
	}
	if pending {
		return &MentorResult{Reason: ReasonDuplicate, Message: "You already have an application under review"}
	}

	app := &models.MentorApplication{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       form.Name,
		Email:      form.Email,
		Age:        form.Age,
		Motivation: form.Motivation,
		Experience: form.Experience,
		Status:     "pending",
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateMentorApplication(ctx, app); err != nil {
		slog.Warn("Failed to store mentor application",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return unavailableMentorResult()
	}

	return &MentorResult{
		Success:       true,
		Message:       "Thanks! Your application has been received",
		ApplicationID: app.ID,
	}
}

func validateMentorForm(form MentorApplication) string {
	if form.Name == "" {
		return "Please tell us your name"
	}
	if utf8.RuneCountInString(form.Name) > mentorMaxNameLen {
		return "Name is too long"
	}
	if addr, err := mail.ParseAddress(form.Email); err != nil || addr.Address != form.Email {
		return "Please enter a valid email address"
	}
	if form.Age != nil && *form.Age < mentorMinAge {
		return "Mentors must be at least 16 years old"
	}
	n := utf8.RuneCountInString(form.Motivation)
	if n < mentorMotivationMin {
		return "Please tell us a bit more about why you want to mentor (at least 30 characters)"
	}
	if n > mentorMotivationMax {
		return "Motivation must be 2000 characters or fewer"
	}
	return ""
}

func unavailableMentorResult() *MentorResult {
	return &MentorResult{
		Reason:  ReasonUnavailable,
		Message: "We couldn't submit your application right now. Please try again later",
	}
}
