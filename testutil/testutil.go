package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	_ "embed"
)

var (
	//go:embed testdata/careers.json
	careersFixture []byte
	//go:embed testdata/resources.json
	resourcesFixture []byte
	//go:embed testdata/quizzes.json
	quizzesFixture []byte
)

const (
	// CareersCount is the number of records in the careers fixture
	CareersCount = 3
	// ResourcesCount is the number of records in the resources fixture
	ResourcesCount = 2
)

// QuizQuestions is the question ids of the quizzes fixture, by tier
var QuizQuestions = map[string][]string{
	"tier1": {"q1", "q2"},
	"tier2": {"q1", "q2", "q3"},
}

// CareersFixture returns the careers fixture: a flat array of career records
func CareersFixture() []byte {
	return append([]byte(nil), careersFixture...)
}

// ResourcesFixture returns the resources fixture: a flat array of records with a textual publishDate
func ResourcesFixture() []byte {
	return append([]byte(nil), resourcesFixture...)
}

// QuizzesFixture returns the quizzes fixture: quizzes -> tier -> questions -> question id -> fields
func QuizzesFixture() []byte {
	return append([]byte(nil), quizzesFixture...)
}

// FixtureDir writes the careers, resources and quizzes fixtures to a temporary directory and returns it
func FixtureDir(t testing.TB) string {
	dir := t.TempDir()
	WriteFile(t, dir, "careers.json", careersFixture)
	WriteFile(t, dir, "resources.json", resourcesFixture)
	WriteFile(t, dir, "quizzes.json", quizzesFixture)
	return dir
}

// WriteFixture writes the content to a new temporary file and returns its path
func WriteFixture(t testing.TB, name string, content []byte) string {
	return WriteFile(t, t.TempDir(), name, content)
}

// WriteFile writes the content to dir/name and returns its path
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// JSON encodes the value or fails the test
func JSON(t testing.TB, value any) []byte {
	bits, err := json.Marshal(value)
	if err != nil {
		t.Fatal(err)
	}
	return bits
}

// NewCareer returns a random career record
func NewCareer() map[string]any {
	return map[string]any{
		"title":       gofakeit.JobTitle(),
		"category":    gofakeit.JobDescriptor(),
		"description": gofakeit.Sentence(12),
		"skills":      []any{gofakeit.HackerVerb(), gofakeit.HackerNoun()},
		"salaryRange": map[string]any{
			"min":      gofakeit.Number(30000, 60000),
			"max":      gofakeit.Number(60001, 200000),
			"currency": gofakeit.CurrencyShort(),
		},
	}
}

// NewCareers returns n random career records
func NewCareers(n int) []map[string]any {
	careers := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		careers = append(careers, NewCareer())
	}
	return careers
}

// NewResource returns a random resource record with a date-only publishDate
func NewResource() map[string]any {
	return map[string]any{
		"title":       gofakeit.Sentence(4),
		"type":        gofakeit.RandomString([]string{"article", "guide", "video"}),
		"url":         gofakeit.URL(),
		"publishDate": gofakeit.Date().Format("2006-01-02"),
	}
}

// NewQuizzes returns a random quizzes fixture with the given number of tiers and questions per tier. Tier ids are
// tier1..tierN and question ids are q1..qN.
func NewQuizzes(questionsPerTier ...int) map[string]any {
	tiers := map[string]any{}
	for i, n := range questionsPerTier {
		questions := map[string]any{}
		for j := 1; j <= n; j++ {
			questions[fmt.Sprintf("q%d", j)] = map[string]any{
				"question": gofakeit.Question(),
				"options":  []any{gofakeit.Word(), gofakeit.Word(), gofakeit.Word()},
				"hint":     gofakeit.Sentence(5),
			}
		}
		tiers[fmt.Sprintf("tier%d", i+1)] = map[string]any{"questions": questions}
	}
	return map[string]any{"quizzes": tiers}
}
