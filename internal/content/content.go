// Package content loads the static material the bot serves: quiz
// question banks, sacred number cards and the cultural comparison text.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/commedeschamps/KieliSan/internal/quiz"
)

// File names inside the content directory.
const (
	QuestionsFile        = "questions.json"
	CompareQuestionsFile = "compare_questions.json"
	NumbersFile          = "sacred_numbers.json"
	CompareTextFile      = "compare_text.txt"
)

var poolFiles = map[quiz.Pool]string{
	quiz.PoolNumbers: QuestionsFile,
	quiz.PoolCompare: CompareQuestionsFile,
}

// NumberQuiz is the single-answer question attached to a number card.
type NumberQuiz struct {
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Correct     string            `json:"correct"`
	Explanation string            `json:"explanation"`
}

// Keys returns the option keys in display order.
func (q NumberQuiz) Keys() []string {
	keys := lo.Keys(q.Options)
	slices.Sort(keys)
	return keys
}

// Number is the card content of one sacred number.
type Number struct {
	Short       string      `json:"short"`
	Description string      `json:"description"`
	Expressions string      `json:"expressions"`
	Example     string      `json:"example"`
	Fact        string      `json:"fact"`
	Quiz        *NumberQuiz `json:"quiz,omitempty"`
}

// Catalog is one consistent snapshot of all content.
type Catalog struct {
	Questions   map[quiz.Pool][]quiz.Question
	Numbers     map[string]Number
	NumberKeys  []string
	CompareText string
}

// Counts summarises a catalog for logs and the check command.
type Counts struct {
	Questions        int
	CompareQuestions int
	Numbers          int
	CompareSections  int
}

// Counts reports how much content the catalog holds.
func (c *Catalog) Counts() Counts {
	sections := lo.CountBy(CompareNumbers, func(n string) bool {
		return ExtractSection(c.CompareText, n) != ""
	})
	return Counts{
		Questions:        len(c.Questions[quiz.PoolNumbers]),
		CompareQuestions: len(c.Questions[quiz.PoolCompare]),
		Numbers:          len(c.Numbers),
		CompareSections:  sections,
	}
}

// Load reads and validates every content file under dir. Missing files
// yield empty content; malformed ones fail the load.
func Load(dir string) (*Catalog, error) {
	cat := &Catalog{
		Questions: make(map[quiz.Pool][]quiz.Question, len(poolFiles)),
		Numbers:   map[string]Number{},
	}
	for pool, name := range poolFiles {
		qs, err := loadQuestions(filepath.Join(dir, name), pool)
		if err != nil {
			return nil, err
		}
		cat.Questions[pool] = qs
	}

	numbers, err := loadNumbers(filepath.Join(dir, NumbersFile))
	if err != nil {
		return nil, err
	}
	cat.Numbers = numbers
	cat.NumberKeys = sortedNumberKeys(numbers)

	text, err := readOptional(filepath.Join(dir, CompareTextFile))
	if err != nil {
		return nil, err
	}
	cat.CompareText = strings.ReplaceAll(string(text), "\r\n", "\n")
	return cat, nil
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func loadQuestions(path string, pool quiz.Pool) ([]quiz.Question, error) {
	raw, err := readOptional(path)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	if err := validateDocument(schemaQuestions, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	var qs []quiz.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	seen := make(map[string]struct{}, len(qs))
	for i := range qs {
		q := &qs[i]
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			q.ID = fmt.Sprintf("%s-%d", pool, i+1)
		}
		q.Level = quiz.Level(strings.ToLower(strings.TrimSpace(string(q.Level))))
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate question id %q", filepath.Base(path), q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return qs, nil
}

func loadNumbers(path string) (map[string]Number, error) {
	raw, err := readOptional(path)
	if err != nil || len(raw) == 0 {
		return map[string]Number{}, err
	}
	if err := validateDocument(schemaNumbers, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	var numbers map[string]Number
	if err := json.Unmarshal(raw, &numbers); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	for key, n := range numbers {
		if n.Quiz == nil {
			continue
		}
		if _, ok := n.Quiz.Options[n.Quiz.Correct]; !ok {
			return nil, fmt.Errorf("%s: number %s: correct key %q is not an option", filepath.Base(path), key, n.Quiz.Correct)
		}
	}
	return numbers, nil
}

func sortedNumberKeys(numbers map[string]Number) []string {
	keys := lo.Keys(numbers)
	slices.SortFunc(keys, func(a, b string) int {
		ai, _ := strconv.Atoi(a)
		bi, _ := strconv.Atoi(b)
		if ai != bi {
			return ai - bi
		}
		return strings.Compare(a, b)
	})
	return keys
}
