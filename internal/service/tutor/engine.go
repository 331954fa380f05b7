package tutor

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/samber/lo"

	"tutorgo/internal/models"
	"tutorgo/internal/prompt"
)

// TutorialResult is the outcome of starting a new tutoring conversation.
type TutorialResult struct {
	ConversationID int64       `json:"conversation_id"`
	Response       string      `json:"response"`
	Mode           models.Mode `json:"mode"`
}

// TurnResult is the outcome of one follow-up turn.
type TurnResult struct {
	Response string      `json:"response"`
	Mode     models.Mode `json:"mode"`
}

// StartTutorial creates a conversation for the subject, generates the
// introductory lesson, and stores it as the first message. A failed
// generation call still completes the turn with the apology text.
func (s *Service) StartTutorial(ctx context.Context, sessionID, subject string) (*TutorialResult, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("subject is required")
	}

	conv, err := s.CreateConversation(ctx, sessionID, subject)
	if err != nil {
		return nil, err
	}

	gen := s.llm.Generate(ctx, prompt.Tutorial(subject))
	if gen.Degraded() {
		log.Printf("tutorial generation degraded for conversation %d: %v", conv.ID, gen.Err)
	}

	if _, err := s.AddMessage(ctx, models.Message{
		ConversationID: conv.ID,
		Role:           models.RoleAssistant,
		Content:        gen.Text,
		MessageType:    models.TypeTutorial,
	}); err != nil {
		return nil, err
	}

	return &TutorialResult{ConversationID: conv.ID, Response: gen.Text, Mode: models.ModeQA}, nil
}

// ContinueConversation runs one turn against an existing conversation. The
// branch is derived fresh from the stored log: an unanswered evaluation
// question forces answer grading regardless of inputType, otherwise
// inputType selects between a new evaluation question and regular Q&A.
// Turns against the same conversation are serialized.
func (s *Service) ContinueConversation(ctx context.Context, conversationID int64, userInput string, inputType models.InputType) (*TurnResult, error) {
	var result *TurnResult
	err := s.turns.Do(conversationID, func() error {
		conv, err := s.GetConversation(ctx, conversationID)
		if err != nil {
			return err
		}
		history, err := s.GetHistory(ctx, conversationID)
		if err != nil {
			return err
		}

		var lastType models.MessageType
		if len(history) > 0 {
			lastType = history[len(history)-1].MessageType
		}

		switch nextAction(lastType, inputType) {
		case actionEvaluateAnswer:
			result, err = s.evaluateAnswer(ctx, conv, history, userInput)
		case actionCreateEvaluation:
			result, err = s.createEvaluation(ctx, conv, history)
		default:
			result, err = s.handleQuestion(ctx, conv, history, userInput)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// handleQuestion answers a follow-up question using a bounded window of
// recent history as context, then stores both sides of the exchange.
func (s *Service) handleQuestion(ctx context.Context, conv *models.Conversation, history []models.Message, question string) (*TurnResult, error) {
	window := history
	if len(window) > prompt.MaxContextMessages {
		window = window[len(window)-prompt.MaxContextMessages:]
	}

	gen := s.llm.Generate(ctx, prompt.Question(conv.Subject, prompt.FormatContext(window), question))
	if gen.Degraded() {
		log.Printf("answer generation degraded for conversation %d: %v", conv.ID, gen.Err)
	}

	if err := s.addMessagePair(ctx,
		models.Message{ConversationID: conv.ID, Role: models.RoleUser, Content: question, MessageType: models.TypeQuestion},
		models.Message{ConversationID: conv.ID, Role: models.RoleAssistant, Content: gen.Text, MessageType: models.TypeAnswer},
	); err != nil {
		return nil, err
	}
	return &TurnResult{Response: gen.Text, Mode: models.ModeQA}, nil
}

// createEvaluation drafts a new comprehension-check question over the
// assistant content produced so far. The user utterance that requested the
// quiz is intentionally not stored; only the generated question enters the
// log, and its presence at the tail routes the next turn to grading.
func (s *Service) createEvaluation(ctx context.Context, conv *models.Conversation, history []models.Message) (*TurnResult, error) {
	covered := lo.FilterMap(history, func(m models.Message, _ int) (string, bool) {
		return m.Content, m.Role == models.RoleAssistant
	})
	number := lo.CountBy(history, func(m models.Message) bool {
		return m.MessageType == models.TypeEvaluationQuestion
	}) + 1

	gen := s.llm.Generate(ctx, prompt.EvaluationQuestion(conv.Subject, strings.Join(covered, "\n"), number))
	if gen.Degraded() {
		log.Printf("evaluation generation degraded for conversation %d: %v", conv.ID, gen.Err)
	}

	if _, err := s.AddMessage(ctx, models.Message{
		ConversationID: conv.ID,
		Role:           models.RoleAssistant,
		Content:        gen.Text,
		MessageType:    models.TypeEvaluationQuestion,
	}); err != nil {
		return nil, err
	}
	return &TurnResult{Response: gen.Text, Mode: models.ModeEvaluation}, nil
}

// evaluateAnswer grades the student's answer to the evaluation question at
// the tail of the log and stores both the answer and the feedback.
func (s *Service) evaluateAnswer(ctx context.Context, conv *models.Conversation, history []models.Message, answer string) (*TurnResult, error) {
	question := history[len(history)-1].Content

	gen := s.llm.Generate(ctx, prompt.Feedback(conv.Subject, question, answer))
	if gen.Degraded() {
		log.Printf("feedback generation degraded for conversation %d: %v", conv.ID, gen.Err)
	}

	if err := s.addMessagePair(ctx,
		models.Message{ConversationID: conv.ID, Role: models.RoleUser, Content: answer, MessageType: models.TypeEvaluationAnswer},
		models.Message{ConversationID: conv.ID, Role: models.RoleAssistant, Content: gen.Text, MessageType: models.TypeEvaluationFeedback},
	); err != nil {
		return nil, err
	}
	return &TurnResult{Response: gen.Text, Mode: models.ModeQA}, nil
}
