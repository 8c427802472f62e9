// Command scoreimage grades one product photo several times in a row, to
// check how stable the scoring model is on a given image.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/images"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm/gemini"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: scoreimage <path> [times]")
		os.Exit(2)
	}
	times := 5
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			times = n
		}
	}

	cfg, err := common.LoadConfig(os.Getenv("SOURCING_CONFIG"))
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	if err := cfg.ValidateLLM(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(2)
	}

	img, err := images.LoadFile(os.Args[1], cfg.Images.MaxBytes)
	if err != nil {
		logger.Error("load image", "path", os.Args[1], "error", err)
		os.Exit(1)
	}
	encoded := images.Encode(img)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:       cfg.LLM.APIKey,
		Model:        cfg.LLM.Model,
		ScoringModel: cfg.LLM.ScoringModel,
		Temperature:  cfg.LLM.Temperature,
		Timeout:      cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Error("gemini client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	var scores []int
	for i := 1; i <= times; i++ {
		start := time.Now()
		qs, err := client.ScoreImage(ctx, encoded)
		if err != nil {
			logger.Error("score.run.error", "iter", i, "err", err)
		} else {
			scores = append(scores, qs.QualityScore)
			logger.Info("score.run.ok",
				"iter", i,
				"score", qs.QualityScore,
				"rating", qs.QualityRating,
				"elapsed_ms", time.Since(start).Milliseconds())
		}
		time.Sleep(750 * time.Millisecond)
	}

	if len(scores) == 0 {
		logger.Error("done", "file", img.Name, "times", times, "scored", 0)
		os.Exit(1)
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		lo, hi = min(lo, s), max(hi, s)
	}
	logger.Info("done", "file", img.Name, "mime", img.MIMEType, "times", times, "scored", len(scores), "min", lo, "max", hi, "spread", hi-lo)
}
