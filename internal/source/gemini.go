package source

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/tatianab/gamebook/internal/models"
)

//go:embed prompts/generate_book.txt
var generateBookPrompt string

var bookPromptTmpl = template.Must(template.New("generate_book").Parse(generateBookPrompt))

var _ Source = (*Gemini)(nil)

// Gemini writes a new book for every request, using the book id as a theme hint.
// Generated books are not trusted: they go through the same validation as any other.
type Gemini struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	cacheDir string
	logger   *zap.Logger
}

// NewGemini creates a Gemini-backed source. When cacheDir is set, every generated
// book is also written there as <slug>.yaml so it can be replayed from disk.
func NewGemini(ctx context.Context, apiKey, modelName, cacheDir string, logger *zap.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client:   client,
		model:    client.GenerativeModel(modelName),
		cacheDir: cacheDir,
		logger:   logger.Named("GeminiSource"),
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) LoadBook(ctx context.Context, bookID string) (*models.Book, error) {
	hint := strings.TrimSpace(bookID)
	if hint == "" {
		hint = "random"
	}

	prompt, err := bookPrompt(hint)
	if err != nil {
		return nil, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Warn("Gemini request failed", zap.String("hint", hint), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}

	book, err := parseBookReply(string(text))
	if err != nil {
		return nil, err
	}
	g.logger.Info("Generated book", zap.String("hint", hint), zap.String("title", book.Title), zap.Int("sections", len(book.Sections)))

	if g.cacheDir != "" {
		path := filepath.Join(g.cacheDir, Slug(hint)+".yaml")
		if err := models.SaveBookFile(path, book); err != nil {
			g.logger.Warn("Failed to cache generated book", zap.String("path", path), zap.Error(err))
		}
	}
	return book, nil
}

func bookPrompt(hint string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Hint        string
		MinSections int
		MaxSections int
	}{Hint: hint, MinSections: 6, MaxSections: 14}
	if err := bookPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parseBookReply decodes a YAML reply, tolerating a surrounding Markdown fence.
func parseBookReply(text string) (*models.Book, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	book, err := models.ParseBook([]byte(clean))
	if err != nil {
		return nil, fmt.Errorf("failed to parse book YAML: %v\nOutput was: %s", err, clean)
	}
	return book, nil
}

// Slug turns a theme hint into a file-safe book id.
func Slug(hint string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(hint)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "book"
	}
	return slug
}
