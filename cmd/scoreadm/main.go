// scoreadm is the operator tool for the leaderboard store. It exposes
// the delete-by-uuid maintenance primitive (content moderation) and a
// quick per-tier top listing; neither belongs on the HTTP surface.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/sweeplab/leaderboard/internal/app"
	"github.com/sweeplab/leaderboard/internal/models"
	"github.com/sweeplab/leaderboard/internal/store"
)

const topLimit = 100

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	godotenv.Load()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	st, err := app.NewStore(config.DSN())
	if err != nil {
		logger.Error.Fatalf("Failed to init store: %v", err)
	}
	defer st.Close()

	switch flag.Arg(0) {
	case "top":
		printTop(st)
	case "delete":
		deleteScore(st, flag.Arg(1))
	default:
		fmt.Fprintln(os.Stderr, "usage: scoreadm [-config path] top | delete <uuid>")
		os.Exit(2)
	}
}

func printTop(st store.ScoreStore) {
	header := color.New(color.FgCyan, color.Bold)

	for _, difficulty := range models.Difficulties {
		scores, err := st.TopScores(difficulty, topLimit)
		if err != nil {
			logger.Error.Fatalf("Failed to fetch top scores for %s: %v", difficulty, err)
		}

		header.Printf("%s (%d)\n", difficulty, len(scores))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"#", "Name", "Seconds", "Submitted", "UUID"})
		for i, s := range scores {
			table.Append([]string{
				strconv.Itoa(i + 1),
				s.Name,
				strconv.FormatInt(s.Seconds, 10),
				strconv.FormatInt(s.UnixTime, 10),
				s.UUID,
			})
		}
		table.Render()
	}
}

func deleteScore(st store.ScoreStore, target string) {
	if _, err := uuid.Parse(target); err != nil {
		logger.Error.Fatalf("Not a valid score uuid %q: %v", target, err)
	}

	removed, err := st.DeleteScore(target)
	if err != nil {
		logger.Error.Fatalf("Failed to delete score: %v", err)
	}

	if removed == 0 {
		color.Yellow("No score found for %s", target)
		return
	}
	color.Green("Removed %d score(s) for %s", removed, target)
}
