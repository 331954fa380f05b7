package models

import "time"

// Message is one stored turn in a conversation's append-only log.

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageType tags what a stored turn was: lesson content, a question and
// its answer, or one leg of an evaluation exchange. The tail of the log
// decides how the next turn is handled.
type MessageType string

const (
	TypeChat               MessageType = "chat"
	TypeTutorial           MessageType = "tutorial"
	TypeQuestion           MessageType = "question"
	TypeAnswer             MessageType = "answer"
	TypeEvaluationQuestion MessageType = "evaluation_question"
	TypeEvaluationAnswer   MessageType = "evaluation_answer"
	TypeEvaluationFeedback MessageType = "evaluation_feedback"
)

// Mode is the advisory label attached to a completed turn. It is never read
// back as state; the branch taken next turn is derived from stored types.
type Mode string

const (
	ModeTutorial   Mode = "tutorial"
	ModeQA         Mode = "qa"
	ModeEvaluation Mode = "evaluation"
)

// InputType is the caller-supplied hint for a user turn, derived by the
// presentation layer (e.g. keyword matching on "test"/"quiz"/"evaluate").
type InputType string

const (
	InputQuestion          InputType = "question"
	InputEvaluationRequest InputType = "evaluation_request"
)

type Message struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversation_id"`
	Role           Role        `json:"role"`
	Content        string      `json:"content"`
	MessageType    MessageType `json:"message_type"`
	Timestamp      time.Time   `json:"timestamp"`
}
