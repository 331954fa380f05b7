package tutor

import "tutorgo/internal/models"

// action is the branch taken for one conversation turn.
type action int

const (
	actionHandleQuestion action = iota
	actionCreateEvaluation
	actionEvaluateAnswer
)

// nextAction picks the branch for a turn. An unanswered evaluation question
// at the tail of the log always wins over the caller's hint; otherwise the
// hint decides between drafting an evaluation question and answering a
// regular question.
func nextAction(lastType models.MessageType, hint models.InputType) action {
	if lastType == models.TypeEvaluationQuestion {
		return actionEvaluateAnswer
	}
	if hint == models.InputEvaluationRequest {
		return actionCreateEvaluation
	}
	return actionHandleQuestion
}
