package content

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/internal/quiz"
)

var imageExts = []string{".png", ".jpg", ".jpeg", ".webp"}

// Provider serves the current catalog. Reload swaps it atomically;
// readers keep whatever snapshot they already took.
type Provider struct {
	dir       string
	assetsDir string

	mu  sync.RWMutex
	cat *Catalog
}

// NewProvider loads dir and returns a provider over it. assetsDir holds
// the optional number images.
func NewProvider(ctx context.Context, dir, assetsDir string) (*Provider, error) {
	p := &Provider{dir: dir, assetsDir: assetsDir}
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// NewStaticProvider serves a prebuilt catalog.
func NewStaticProvider(cat *Catalog, assetsDir string) *Provider {
	if cat.NumberKeys == nil {
		cat.NumberKeys = sortedNumberKeys(cat.Numbers)
	}
	return &Provider{assetsDir: assetsDir, cat: cat}
}

// Reload reads the content directory again. On failure the previous
// catalog stays in place.
func (p *Provider) Reload(ctx context.Context) error {
	cat, err := Load(p.dir)
	if err != nil {
		logger.Error(ctx, "service.content", "content.load_failed", slog.String("dir", p.dir), slog.String("err", err.Error()))
		return err
	}
	p.mu.Lock()
	p.cat = cat
	p.mu.Unlock()

	c := cat.Counts()
	logger.Info(ctx, "service.content", "content.loaded",
		slog.String("dir", p.dir),
		slog.Int("questions", c.Questions),
		slog.Int("compare_questions", c.CompareQuestions),
		slog.Int("numbers", c.Numbers),
		slog.Int("compare_sections", c.CompareSections),
	)
	return nil
}

func (p *Provider) catalog() *Catalog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cat
}

// Counts reports the size of the current catalog.
func (p *Provider) Counts() Counts {
	return p.catalog().Counts()
}

// Questions returns the question bank of pool.
func (p *Provider) Questions(pool quiz.Pool) []quiz.Question {
	return slices.Clone(p.catalog().Questions[pool])
}

// NumberKeys returns the known numbers in ascending numeric order.
func (p *Provider) NumberKeys() []string {
	return slices.Clone(p.catalog().NumberKeys)
}

// Number returns the card content of n.
func (p *Provider) Number(n string) (Number, bool) {
	num, ok := p.catalog().Numbers[n]
	return num, ok
}

// RandomNumber picks any known number other than exclude when possible.
func (p *Provider) RandomNumber(exclude string) (string, bool) {
	keys := p.catalog().NumberKeys
	if len(keys) == 0 {
		return "", false
	}
	candidates := keys
	if len(keys) > 1 {
		candidates = slices.DeleteFunc(slices.Clone(keys), func(k string) bool { return k == exclude })
	}
	return candidates[rand.Intn(len(candidates))], true
}

// DescriptiveText returns the comparison section of topic, a number.
func (p *Provider) DescriptiveText(topic string) string {
	return ExtractSection(p.catalog().CompareText, topic)
}

// NumberImage returns the image file of n if one exists.
func (p *Provider) NumberImage(n string) (string, bool) {
	if p.assetsDir == "" {
		return "", false
	}
	for _, ext := range imageExts {
		path := filepath.Join(p.assetsDir, "numbers", "num_"+n+ext)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, true
		}
	}
	return "", false
}
