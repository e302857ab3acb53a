package model

import "context"

// StudyAids is the generated study material attached to a note.
type StudyAids struct {
	Summary    string
	Flashcards []Flashcard
	Quiz       []QuizQuestion
}

// StudyAidsGenerator produces study aids from extracted note text. The
// shipped implementation is a mock that ignores the text and samples from
// fixed pools; a real summarization pipeline substitutes here without
// touching calling code.
type StudyAidsGenerator interface {
	Generate(ctx context.Context, text string) (StudyAids, error)
}

// TextExtractor extracts plain text from an uploaded document.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}
