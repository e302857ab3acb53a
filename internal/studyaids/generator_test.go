package studyaids

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator_Generate(t *testing.T) {
	g := NewMockGenerator(0)

	aids, err := g.Generate(context.Background(), "lecture notes about graphs")
	require.NoError(t, err)

	assert.Contains(t, summaryPool, aids.Summary)
	assert.Len(t, aids.Flashcards, 3)
	assert.Len(t, aids.Quiz, 2)

	for _, q := range aids.Quiz {
		assert.GreaterOrEqual(t, q.Correct, 0)
		assert.Less(t, q.Correct, len(q.Options))
	}
}

func TestMockGenerator_Generate_NoDuplicates(t *testing.T) {
	g := NewMockGenerator(0)

	for range 20 {
		aids, err := g.Generate(context.Background(), "")
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, fc := range aids.Flashcards {
			assert.False(t, seen[fc.Question], "duplicate flashcard %q", fc.Question)
			seen[fc.Question] = true
		}

		seenQuiz := map[string]bool{}
		for _, q := range aids.Quiz {
			assert.False(t, seenQuiz[q.Question], "duplicate quiz question %q", q.Question)
			seenQuiz[q.Question] = true
		}
	}
}

func TestMockGenerator_Generate_ContextCancelled(t *testing.T) {
	g := NewMockGenerator(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockGenerator_Generate_Delay(t *testing.T) {
	delay := 50 * time.Millisecond
	g := NewMockGenerator(delay)

	start := time.Now()
	_, err := g.Generate(context.Background(), "")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), delay)
}
