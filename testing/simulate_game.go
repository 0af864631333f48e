package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/gamebook/internal/app"
	"github.com/tatianab/gamebook/internal/config"
	"github.com/tatianab/gamebook/internal/engine"
	"github.com/tatianab/gamebook/internal/models"
)

// chooser picks the index of the option to take in the current section.
type chooser func(ctx context.Context, g *engine.Game, s engine.State, section models.Section) int

func main() {
	bookID := flag.String("book", "", "book to play (with GAMEBOOK_SOURCE=gemini, a theme hint)")
	turns := flag.Int("turns", 30, "maximum number of choices")
	player := flag.String("player", "random", "random or gemini")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	var choose chooser = randomChoice
	if *player == "gemini" {
		// Initialize the Player LLM
		playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer playerClient.Close()
		choose = geminiChoice(playerClient.GenerativeModel(cfg.GeminiModel))
	}

	// 1. Load the book
	fmt.Printf("--- Loading %q ---\n", *bookID)
	book, err := a.Source.LoadBook(ctx, *bookID)
	if err != nil {
		log.Fatalf("Failed to load book: %v", err)
	}

	// 2. Validate it
	game := engine.NewGame(*bookID, book)
	if err := game.Err(); err != nil {
		log.Fatalf("Invalid book structure: %v", err)
	}
	fmt.Printf("Title: %s\n", book.Title)
	fmt.Printf("Start: %s, reachable sections: %d\n\n", game.StartID(), game.ReachableCount())

	// 3. Play
	s := game.Start()
	for turn := 1; turn <= *turns; turn++ {
		if game.Status(s) != engine.StatusPlaying {
			break
		}
		section, _ := game.Current(s)
		fmt.Printf("--- Turn %d (section %s) ---\n", turn, game.CurrentID(s))
		fmt.Println(strings.TrimSpace(section.Text))
		if len(section.Options) == 0 {
			fmt.Println("No options available for this section.")
			break
		}

		i := choose(ctx, game, s, section)
		opt := section.Options[i]
		fmt.Printf("Player chose %d: %s\n", i+1, opt.Label())

		var events []engine.Event
		s, events = game.Apply(s, engine.Choose{Option: opt})
		for _, ev := range events {
			switch ev := ev.(type) {
			case engine.HealthChanged:
				fmt.Printf("Health: %d -> %d\n", ev.From, ev.To)
			case engine.NavigationFailed:
				fmt.Printf("Navigation error: %s\n", ev.Message)
			}
		}
		if text, ok := engine.Text(opt.Consequence); ok {
			fmt.Printf("Effect: %s\n", text)
		}
		fmt.Println()
	}

	switch game.Status(s) {
	case engine.StatusEnding:
		fmt.Println("Game Ended: The End")
	case engine.StatusDead:
		fmt.Println("Game Ended: Game Over")
	default:
		fmt.Println("Game Ended: out of turns")
	}
	fmt.Printf("Health=%d/%d, Progress=%d/%d\n", s.Health, engine.MaxHealth, game.VisitedCount(s), game.ReachableCount())

	// 4. Bookmark where the player got to
	s, events := game.Apply(s, engine.Save{})
	for _, ev := range events {
		switch ev := ev.(type) {
		case engine.SaveRequested:
			var saved []engine.Event
			_, saved = game.Apply(s, engine.PerformSave(ctx, a.Sink, ev))
			for _, e := range saved {
				switch e := e.(type) {
				case engine.ProgressSaved:
					fmt.Printf("Progress saved: section %d\n", e.Section)
				case engine.SaveFailed:
					fmt.Printf("Save failed: %s\n", e.Message)
				}
			}
		case engine.SaveFailed:
			fmt.Printf("Save skipped: %s\n", ev.Message)
		}
	}
}

func randomChoice(_ context.Context, _ *engine.Game, _ engine.State, section models.Section) int {
	return rand.IntN(len(section.Options))
}

// geminiChoice asks the model for an option number, falling back to a random pick.
func geminiChoice(model *genai.GenerativeModel) chooser {
	return func(ctx context.Context, g *engine.Game, s engine.State, section models.Section) int {
		var opts strings.Builder
		for i, opt := range section.Options {
			fmt.Fprintf(&opts, "%d. %s", i+1, opt.Label())
			if text, ok := engine.Text(opt.Consequence); ok {
				fmt.Fprintf(&opts, " (%s)", text)
			}
			opts.WriteString("\n")
		}

		prompt := fmt.Sprintf(`You are playing a gamebook.
Book: %s
Health: %d/%d

Current section:
%s

Options:
%s
Which option do you take? Return ONLY the option number.`,
			g.Book().Title,
			s.Health, engine.MaxHealth,
			section.Text,
			opts.String(),
		)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return randomChoice(ctx, g, s, section)
		}
		reply := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
		n, err := strconv.Atoi(strings.Trim(reply, ". "))
		if err != nil || n < 1 || n > len(section.Options) {
			return randomChoice(ctx, g, s, section)
		}
		return n - 1
	}
}
