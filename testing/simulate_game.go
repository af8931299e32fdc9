package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/ethics-journey/internal/config"
	"github.com/tatianab/ethics-journey/internal/content"
	"github.com/tatianab/ethics-journey/internal/engine"
	"github.com/tatianab/ethics-journey/internal/journey"
	"github.com/tatianab/ethics-journey/internal/models"
)

func main() {
	strategy := flag.String("strategy", "best", "how the player picks: first, best, random or llm")
	maxTurns := flag.Int("turns", 25, "maximum number of choices before stopping")
	seed := flag.Uint64("seed", 1, "seed for the random strategy")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("Failed to read log level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	graph, err := content.LoadFile(cfg.ContentPath)
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}
	content.Report(logger, graph)

	eng := engine.NewEngine(graph, engine.WithStore(&models.MemoryStore{}), engine.WithLogger(logger))

	var pick func([]models.Choice) models.Choice
	switch *strategy {
	case "first":
		pick = func(cs []models.Choice) models.Choice { return cs[0] }
	case "best":
		pick = bestChoice
	case "random":
		r := rand.New(rand.NewPCG(*seed, *seed))
		pick = func(cs []models.Choice) models.Choice { return cs[r.IntN(len(cs))] }
	case "llm":
		if !cfg.NarratorEnabled() {
			log.Fatalf("The llm strategy needs GEMINI_API_KEY")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer client.Close()
		playerModel := client.GenerativeModel(cfg.GeminiModel)
		pick = func(cs []models.Choice) models.Choice {
			return getPlayerChoice(ctx, playerModel, eng, cs)
		}
	default:
		log.Fatalf("Unknown strategy %q", *strategy)
	}

	// Walk the preamble.
	eng.SelectChoice(ctx, eng.Choices()[0].ID)

	for turn := 1; turn <= *maxTurns && !eng.IsComplete(); turn++ {
		cur := eng.Current()
		choices := eng.Choices()
		fmt.Printf("--- Turn %d: %s ---\n", turn, cur.Title)

		c := pick(choices)
		eng.SelectChoice(ctx, c.ID)
		fmt.Printf("Player Choice: %s\n", c.Text)

		if p, ok := eng.Pending(); ok {
			fmt.Printf("Outcome: %s\n", p.Outcome)
			fmt.Printf("Points: %+d, Traits: %v\n", p.Score, p.UniqueTags())
		}
		eng.ContinueToNext(ctx)
		fmt.Printf("Score: %d\n\n", eng.Score())
	}

	s := journey.Summarize(graph, eng.State())
	fmt.Println("=== Journey Summary ===")
	fmt.Printf("Final score: %d\n", s.Score)
	for _, d := range s.Dominant {
		fmt.Printf("Dominant trait: %s (%d)\n", d.Name, d.Count)
	}
	for _, sh := range s.Shares {
		fmt.Printf("  %-14s %3d%%\n", sh.Name, sh.Percent)
	}
	fmt.Println()
	fmt.Println(s.Analysis)
	if !eng.IsComplete() {
		fmt.Printf("\nStopped after %d turns at %q.\n", *maxTurns, eng.Position())
	}
}

func bestChoice(cs []models.Choice) models.Choice {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}

func getPlayerChoice(ctx context.Context, model *genai.GenerativeModel, eng *engine.Engine, cs []models.Choice) models.Choice {
	historyText := ""
	for _, entry := range eng.History() {
		historyText += fmt.Sprintf("Choice: %s\nOutcome: %s\n", entry.ChoiceText, entry.OutcomeText)
	}
	options := ""
	for i, c := range cs {
		options += fmt.Sprintf("%d. %s\n", i+1, c.Text)
	}
	cur := eng.Current()

	prompt := fmt.Sprintf(`You are playing a narrative game about ethical financial decisions.
Scenario: %s
%s

History:
%s

Options:
%s
Which option do you pick? Return ONLY the option number.`,
		cur.Title,
		cur.Description,
		historyText,
		options,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return cs[0]
	}
	n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])))
	if err != nil || n < 1 || n > len(cs) {
		return cs[0]
	}
	return cs[n-1]
}
