package memory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quizdom/internal/domain"
)

// StaticCategories is the category list offered when the backend is unreachable.
func StaticCategories() []domain.Category {
	return []domain.Category{
		{ID: 1, Name: "science", DisplayName: "Science & Nature", Icon: "🔬", Description: "Explore the wonders of physics, chemistry, biology, and natural phenomena"},
		{ID: 2, Name: "history", DisplayName: "History", Icon: "🏛", Description: "Journey through time from ancient civilizations to modern events"},
		{ID: 3, Name: "technology", DisplayName: "Technology", Icon: "💻", Description: "Test your knowledge of computers, programming, and digital innovation"},
		{ID: 4, Name: "sports", DisplayName: "Sports", Icon: "🏆", Description: "From Olympics to world championships, challenge your sports knowledge"},
		{ID: 5, Name: "arts", DisplayName: "Arts & Literature", Icon: "🎨", Description: "Dive into the world of literature, painting, music, and creative arts"},
		{ID: 6, Name: "geography", DisplayName: "Geography", Icon: "🌍", Description: "Explore countries, capitals, landmarks, and geographical features"},
		{ID: 7, Name: "entertainment", DisplayName: "Entertainment", Icon: "🎬", Description: "Movies, TV shows, celebrities, and pop culture trivia"},
		{ID: 8, Name: "general", DisplayName: "General Knowledge", Icon: "🧠", Description: "Mixed topics covering a wide range of interesting facts and trivia"},
	}
}

// DefaultQuestions is the built-in local bank.
func DefaultQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt:       "What is the chemical symbol for gold?",
			Options:      []string{"Au", "Ag", "Fe", "Cu"},
			CorrectIndex: 0,
			Difficulty:   domain.DifficultyEasy,
			Category:     "science",
			Explanation:  `Gold's chemical symbol is Au, derived from the Latin word "aurum".`,
		},
		{
			Prompt:       "Which planet is closest to the Sun?",
			Options:      []string{"Venus", "Earth", "Mercury", "Mars"},
			CorrectIndex: 2,
			Difficulty:   domain.DifficultyEasy,
			Category:     "science",
			Explanation:  "Mercury is the closest planet to the Sun in our solar system.",
		},
		{
			Prompt:       "What is the speed of light in vacuum?",
			Options:      []string{"299,792,458 m/s", "300,000,000 m/s", "299,792,458 km/s", "186,000 miles/s"},
			CorrectIndex: 0,
			Difficulty:   domain.DifficultyHard,
			Category:     "science",
			Explanation:  "The exact speed of light in vacuum is 299,792,458 meters per second.",
		},
		{
			Prompt:       "In which year did World War II end?",
			Options:      []string{"1944", "1945", "1946", "1947"},
			CorrectIndex: 1,
			Difficulty:   domain.DifficultyEasy,
			Category:     "history",
			Explanation:  "World War II ended in 1945 with the surrender of Japan.",
		},
		{
			Prompt:       "Who was the first President of the United States?",
			Options:      []string{"Thomas Jefferson", "John Adams", "George Washington", "Benjamin Franklin"},
			CorrectIndex: 2,
			Difficulty:   domain.DifficultyEasy,
			Category:     "history",
			Explanation:  "George Washington was the first President of the United States (1789-1797).",
		},
		{
			Prompt:       "What does CPU stand for?",
			Options:      []string{"Central Processing Unit", "Computer Processing Unit", "Central Program Unit", "Computer Program Unit"},
			CorrectIndex: 0,
			Difficulty:   domain.DifficultyEasy,
			Category:     "technology",
			Explanation:  "CPU stands for Central Processing Unit, the main processor of a computer.",
		},
		{
			Prompt:       `Which programming language is known as the "language of the web"?`,
			Options:      []string{"Python", "Java", "JavaScript", "C++"},
			CorrectIndex: 2,
			Difficulty:   domain.DifficultyMedium,
			Category:     "technology",
			Explanation:  `JavaScript is often called the "language of the web" as it runs in web browsers.`,
		},
		{
			Prompt:       "How many players does a soccer team have on the field?",
			Options:      []string{"9", "10", "11", "12"},
			CorrectIndex: 2,
			Difficulty:   domain.DifficultyEasy,
			Category:     "sports",
		},
		{
			Prompt:       "Who wrote Romeo and Juliet?",
			Options:      []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"},
			CorrectIndex: 1,
			Difficulty:   domain.DifficultyEasy,
			Category:     "arts",
		},
		{
			Prompt:       "What is the capital of Australia?",
			Options:      []string{"Sydney", "Melbourne", "Canberra", "Perth"},
			CorrectIndex: 2,
			Difficulty:   domain.DifficultyMedium,
			Category:     "geography",
			Explanation:  "Canberra was purpose-built as the capital as a compromise between Sydney and Melbourne.",
		},
		{
			Prompt:       "Which film won the first Academy Award for Best Picture?",
			Options:      []string{"Wings", "Sunrise", "The Jazz Singer", "Metropolis"},
			CorrectIndex: 0,
			Difficulty:   domain.DifficultyHard,
			Category:     "entertainment",
		},
		{
			Prompt:       "How many continents are there?",
			Options:      []string{"5", "6", "7", "8"},
			CorrectIndex: 2,
			Difficulty:   domain.DifficultyEasy,
			Category:     "general",
		},
	}
}

type bankFile struct {
	Questions []domain.Question `yaml:"questions"`
}

// LoadQuestionBank reads a YAML question bank. An empty path returns the built-in bank.
func LoadQuestionBank(path string) ([]domain.Question, error) {
	if path == "" {
		return DefaultQuestions(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var file bankFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := normalizeBank(file.Questions); err != nil {
		return nil, err
	}
	return file.Questions, nil
}

// normalizeBank checks every question and canonicalizes difficulties in place.
func normalizeBank(questions []domain.Question) error {
	if len(questions) == 0 {
		return &domain.ValidationError{Field: "questions", Message: "bank is empty"}
	}
	var errs []error
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)
		switch {
		case q.Prompt == "":
			errs = append(errs, &domain.ValidationError{Field: field, Message: "question text is required"})
		case q.Category == "":
			errs = append(errs, &domain.ValidationError{Field: field, Message: "category is required"})
		case len(q.Options) < 2:
			errs = append(errs, &domain.ValidationError{Field: field, Message: "at least two options are required"})
		case q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options):
			errs = append(errs, &domain.ValidationError{Field: field, Message: "correct must index an option"})
		}
		d, err := domain.ParseDifficulty(string(q.Difficulty))
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: field, Message: err.Error()})
			continue
		}
		questions[i].Difficulty = d
	}
	return errors.Join(errs...)
}
