// Package studyaids generates summaries, flashcards, and quizzes for uploaded
// notes. The shipped generator is a mock that picks from canned pools after an
// artificial delay; a real AI backend implements model.StudyAidsGenerator the
// same way.
package studyaids

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/studydeck/studydeck-server/internal/model"
)

var _ model.StudyAidsGenerator = (*MockGenerator)(nil)

var summaryPool = []string{
	"This document covers key concepts in computer science including algorithms, data structures, and computational complexity. Main topics include sorting algorithms, graph theory, and Big O notation.",
	"The material focuses on mathematical foundations with emphasis on linear algebra, calculus, and probability theory. Key areas covered are matrix operations, derivatives, and statistical distributions.",
	"This study guide covers fundamental programming concepts including object-oriented programming, design patterns, and software engineering principles. Important topics include inheritance, polymorphism, and SOLID principles.",
	"The content explores database systems and data management, covering SQL operations, database design, and normalization. Key concepts include relational algebra, transactions, and indexing strategies.",
	"This document provides an overview of networking fundamentals including protocols, network architectures, and security principles. Major topics cover TCP/IP, routing, and cryptographic methods.",
}

var flashcardPool = []model.Flashcard{
	{Question: "What is Big O notation?", Answer: "A mathematical notation used to describe the limiting behavior of a function when the argument tends towards a particular value or infinity."},
	{Question: "What is a binary search tree?", Answer: "A tree data structure where each node has at most two children, and the left child is less than the parent while the right child is greater."},
	{Question: "What is polymorphism?", Answer: "The ability of objects of different types to be treated as objects of a common base type, while still maintaining their specific behaviors."},
	{Question: "What is normalization in databases?", Answer: "The process of structuring a relational database to reduce data redundancy and improve data integrity."},
	{Question: "What is TCP/IP?", Answer: "A suite of communication protocols used to interconnect network devices on the internet and other computer networks."},
}

var quizPool = []model.QuizQuestion{
	{
		Question:    "Which sorting algorithm has the best average-case time complexity?",
		Options:     []string{"Bubble Sort", "Quick Sort", "Merge Sort", "Selection Sort"},
		Correct:     2,
		Explanation: "Merge Sort has O(n log n) time complexity in all cases, making it very reliable.",
	},
	{
		Question:    "What is the main principle of object-oriented programming?",
		Options:     []string{"Encapsulation", "Inheritance", "Polymorphism", "All of the above"},
		Correct:     3,
		Explanation: "OOP is built on encapsulation, inheritance, and polymorphism working together.",
	},
	{
		Question:    "Which SQL command is used to retrieve data?",
		Options:     []string{"INSERT", "UPDATE", "DELETE", "SELECT"},
		Correct:     3,
		Explanation: "SELECT is the SQL command used to query and retrieve data from databases.",
	},
}

const (
	flashcardCount = 3
	quizCount      = 2
)

// MockGenerator simulates an AI pipeline. The input text does not influence
// the output.
type MockGenerator struct {
	delay time.Duration
}

func NewMockGenerator(delay time.Duration) *MockGenerator {
	return &MockGenerator{
		delay: delay,
	}
}

// Generate waits for the configured delay, then returns one random summary,
// three random flashcards, and two random quiz questions. It returns early
// with the context's error if the context is cancelled during the delay.
func (g *MockGenerator) Generate(ctx context.Context, text string) (model.StudyAids, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return model.StudyAids{}, ctx.Err()
		case <-timer.C:
		}
	}

	return model.StudyAids{
		Summary:    summaryPool[rand.IntN(len(summaryPool))],
		Flashcards: sample(flashcardPool, flashcardCount),
		Quiz:       sample(quizPool, quizCount),
	}, nil
}

func sample[T any](pool []T, n int) []T {
	if n > len(pool) {
		n = len(pool)
	}

	picked := rand.Perm(len(pool))[:n]
	out := make([]T, 0, n)
	for _, i := range picked {
		out = append(out, pool[i])
	}
	return out
}
