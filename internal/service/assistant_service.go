package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/repository"
)

const helpMessage = "I'm not sure about that. Try asking about 'fee', 'documents', 'hostel', 'progress', 'timetable', or 'subjects'."

// intentRule is one entry in the ordered intent table. The first rule whose
// keyword matches the lowered input wins.
type intentRule struct {
	name     string
	keywords []string
	render   func(profile models.StudentProfile) string
}

// intentRules is evaluated top to bottom; order is part of the contract
// (e.g. "payment status" resolves to fee, not progress).
var intentRules = []intentRule{
	{
		name:     "fee",
		keywords: []string{"fee", "payment", "pay"},
		render:   renderFee,
	},
	{
		name:     "documents",
		keywords: []string{"document", "upload", "reject", "marksheet", "certificate"},
		render:   renderDocuments,
	},
	{
		name:     "hostel",
		keywords: []string{"hostel", "room", "accommodation"},
		render:   renderHostel,
	},
	{
		name:     "progress",
		keywords: []string{"progress", "status", "complete", "onboarding"},
		render:   renderProgress,
	},
	{
		name:     "subjects",
		keywords: []string{"subject", "course", "lms", "learning"},
		render:   renderSubjects,
	},
	{
		name:     "timetable",
		keywords: []string{"timetable", "schedule", "class"},
		render: func(models.StudentProfile) string {
			return "Your timetable will be published on the learning system once your LMS account is active."
		},
	},
	{
		name:     "greeting",
		keywords: []string{"hello", "hi", "hey", "good morning", "good evening"},
		render: func(models.StudentProfile) string {
			return "Hello! How can I help you complete your onboarding today?"
		},
	},
}

// RenderReply maps free text to a status message from the profile snapshot.
// It is a pure read: no module state is mutated.
func RenderReply(text string, profile models.StudentProfile) string {
	lowered := strings.ToLower(text)
	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.render(profile)
			}
		}
	}
	return helpMessage
}

// AssistantService answers free-text status queries. Every exchange writes
// the inbound message and the rendered reply to the chat log, including the
// default no-match path.
type AssistantService interface {
	Respond(ctx context.Context, studentID uint, req dto.ChatTextRequest) (dto.ChatMessageResponse, error)
	History(ctx context.Context, studentID uint, limit int) ([]dto.ChatMessageResponse, error)
}

type assistantService struct {
	profiles  repository.ProfileRepository
	chat      repository.ChatRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewAssistantService constructs the conversational status responder.
func NewAssistantService(profiles repository.ProfileRepository, chat repository.ChatRepository, logger zerolog.Logger) AssistantService {
	return &assistantService{
		profiles:  profiles,
		chat:      chat,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "assistant_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/onboard-go-api/internal/service/assistant"),
	}
}

func (s *assistantService) Respond(ctx context.Context, studentID uint, req dto.ChatTextRequest) (dto.ChatMessageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "assistant.respond")
	defer span.End()

	message := strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if message == "" {
		return dto.ChatMessageResponse{}, errors.New("message is required")
	}

	inbound := models.ChatMessage{StudentID: studentID, Sender: models.SenderStudent, Message: message}
	if err := s.chat.Save(ctx, &inbound); err != nil {
		return dto.ChatMessageResponse{}, err
	}

	reply := helpMessage
	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	switch {
	case err == nil:
		reply = RenderReply(message, profile)
	case errors.Is(err, gorm.ErrRecordNotFound):
		reply = "I couldn't find your onboarding profile yet. Please contact the admissions office."
	default:
		return dto.ChatMessageResponse{}, err
	}

	outbound := models.ChatMessage{StudentID: studentID, Sender: models.SenderAssistant, Message: reply}
	if err := s.chat.Save(ctx, &outbound); err != nil {
		return dto.ChatMessageResponse{}, err
	}

	span.SetAttributes(attribute.Int("assistant.reply_length", len(reply)))

	return dto.NewChatMessageResponse(outbound), nil
}

func (s *assistantService) History(ctx context.Context, studentID uint, limit int) ([]dto.ChatMessageResponse, error) {
	messages, err := s.chat.ListByStudent(ctx, studentID, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewChatMessageResponseSlice(messages), nil
}

func renderFee(profile models.StudentProfile) string {
	fee := profile.Fee
	remaining := fee.Remaining()
	if remaining <= 0 && fee.TotalAmount > 0 {
		return fmt.Sprintf("Great news! Your tuition fees are fully paid. (Total: ₹%d)", fee.TotalAmount)
	}
	return fmt.Sprintf("You have paid ₹%d. The remaining balance is ₹%d.", fee.PaidAmount, remaining)
}

func renderDocuments(profile models.StudentProfile) string {
	var outstanding []string
	for _, record := range profile.Documents {
		switch record.Status {
		case models.DocumentApproved, models.DocumentSubmitted:
			continue
		case models.DocumentRejected:
			reason := record.RejectionReason
			if reason == "" {
				reason = "no reason recorded"
			}
			outstanding = append(outstanding, fmt.Sprintf("%s (rejected: %s)", record.Type, reason))
		default:
			outstanding = append(outstanding, string(record.Type))
		}
	}

	if len(outstanding) == 0 {
		if len(profile.Documents) == 0 {
			return "You haven't uploaded any documents yet. Send me a photo or PDF and I'll classify it for you."
		}
		return "All your documents are submitted or approved!"
	}
	return "You still need to upload or re-submit: " + strings.Join(outstanding, ", ") + "."
}

func renderHostel(profile models.StudentProfile) string {
	return hostelModule{hostel: profile.Hostel}.Summarize()
}

func renderProgress(profile models.StudentProfile) string {
	progress := ComputeProgress(profile)
	lines := make([]string, 0, len(progress.Modules)+1)
	lines = append(lines, fmt.Sprintf("Your onboarding is %d%% complete.", progress.Percentage))
	for _, module := range progress.Modules {
		lines = append(lines, "- "+module.Summary)
	}
	return strings.Join(lines, "\n")
}

func renderSubjects(profile models.StudentProfile) string {
	if profile.LMS.Status != models.LMSActive {
		return "Your learning system account is not active yet. Activate it from the LMS module first."
	}

	subjects := DecodeSubjects(profile.LMS.Subjects)
	if len(subjects) == 0 {
		return "Your LMS account is active but no subjects are registered yet."
	}
	return "You are registered for: " + strings.Join(subjects, ", ") + "."
}
