package memory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quizdom/internal/domain"
)

func TestDefaultQuestionsAreValid(t *testing.T) {
	bank := DefaultQuestions()
	if err := normalizeBank(bank); err != nil {
		t.Fatalf("built-in bank invalid: %v", err)
	}

	scienceEasy := 0
	for _, q := range bank {
		if q.Category == "science" && q.Difficulty == domain.DifficultyEasy {
			scienceEasy++
		}
	}
	if scienceEasy != 2 {
		t.Fatalf("expected 2 easy science questions, got %d", scienceEasy)
	}
}

func TestStaticCategoriesMatchBackendIDs(t *testing.T) {
	for _, c := range StaticCategories() {
		if c.BackendID() != c.ID {
			t.Fatalf("category %s: id %d, backend id %d", c.Name, c.ID, c.BackendID())
		}
	}
}

func TestLoadQuestionBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	content := `questions:
  - question: "Largest ocean?"
    options: ["Atlantic", "Pacific", "Indian", "Arctic"]
    correct: 1
    difficulty: Medium
    category: geography
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	bank, err := LoadQuestionBank(path)
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	if len(bank) != 1 || bank[0].CorrectIndex != 1 || bank[0].Difficulty != domain.DifficultyMedium {
		t.Fatalf("unexpected bank: %+v", bank)
	}

	if bank, err := LoadQuestionBank(""); err != nil || len(bank) != len(DefaultQuestions()) {
		t.Fatalf("expected built-in bank, got %d questions, err %v", len(bank), err)
	}
}

func TestLoadQuestionBankRejectsBadQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	content := `questions:
  - question: "Broken"
    options: ["a", "b"]
    correct: 4
    difficulty: easy
    category: general
  - question: "Also broken"
    options: ["a", "b"]
    correct: 0
    difficulty: impossible
    category: general
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	_, err := LoadQuestionBank(path)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
