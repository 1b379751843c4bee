package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestQuizDecodesNumericAndStringIDs(t *testing.T) {
	raw := `{"questions":[
		{"id":1,"question":"What is a block?","options":["A","B"],"correctAnswer":"A"},
		{"id":"q2","question":"What is gas?","options":["A","B"],"correctAnswer":"B"}
	]}`
	var quiz Quiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if quiz.Questions[0].ID != "1" || quiz.Questions[1].ID != "q2" {
		t.Fatalf("unexpected ids %q %q", quiz.Questions[0].ID, quiz.Questions[1].ID)
	}
	if quiz.Questions[0].Text != "What is a block?" || quiz.Questions[1].CorrectAnswer != "B" {
		t.Fatalf("unexpected question %+v", quiz.Questions)
	}

	var answers SubmissionAnswers
	if err := json.Unmarshal([]byte(`{"1":"A","q2":"A"}`), &answers); err != nil {
		t.Fatalf("unmarshal answers: %v", err)
	}
	if answers["1"] != "A" || answers["q2"] != "A" {
		t.Fatalf("unexpected answers %+v", answers)
	}
}

func TestQuestionIDRejectsObjects(t *testing.T) {
	var id QuestionID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatalf("expected error for object id")
	}
}

func TestValidateRecipient(t *testing.T) {
	for _, addr := range []string{
		"0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		"70997970c51812dc3a010c7d01b50e0d17dc79c8",
	} {
		if err := ValidateRecipient(addr); err != nil {
			t.Fatalf("expected %s to be valid: %v", addr, err)
		}
	}
	for _, addr := range []string{"", "0x123", "alice.eth"} {
		if err := ValidateRecipient(addr); !errors.Is(err, ErrInvalidRecipient) {
			t.Fatalf("expected %q to be rejected, got %v", addr, err)
		}
	}
}

func TestOutcomePercentage(t *testing.T) {
	if (MintOutcome{}).Percentage() != 0 {
		t.Fatalf("expected zero percentage without score")
	}
	if got := ScoreTooLow(ScoreResult{CorrectCount: 1, TotalQuestions: 5, Percentage: 20}).Percentage(); got != 20 {
		t.Fatalf("expected 20, got %v", got)
	}
}
