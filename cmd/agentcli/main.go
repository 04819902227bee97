package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/agents"
	"github.com/arpankumarde/neevtrace/internal/app"
	"github.com/arpankumarde/neevtrace/internal/config"
	"github.com/arpankumarde/neevtrace/internal/platform/logging"
)

// agentcli runs one agent from the terminal. The query comes from the
// arguments or, failing that, one line of stdin. The knowledge agent runs an
// interactive loop instead.
func main() {
	name := flag.String("agent", agents.CO2, "co2, route, recommend or knowledge")
	loadSeeds := flag.Bool("load", false, "knowledge: load the seed file before chatting")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// Logs go to stderr so stdout carries only the answer.
	logging.SetupWriter(os.Stderr, cfg.LogLevel, "console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	if *name == agents.Knowledge {
		if *loadSeeds || a.InMemoryKnowledge {
			if err := a.LoadSeeds(ctx, cfg.Knowledge.SeedPath, false); err != nil {
				log.Warn().Err(err).Msg("knowledge seed load failed")
			}
		}
		if err := agents.Chat(ctx, a.Agents.Knowledge, os.Stdin, os.Stdout); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println("\nGoodbye!")
				return
			}
			log.Fatal().Err(err).Msg("chat failed")
		}
		return
	}

	if err := runOnce(ctx, a, *name, flag.Args(), os.Stdin, os.Stdout); err != nil {
		a.Close()
		log.Fatal().Err(err).Msg("query failed")
	}
}

func runOnce(ctx context.Context, a *app.App, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	query := strings.Join(args, " ")
	if query == "" {
		q, err := agents.ReadPrompt(stdin)
		if errors.Is(err, agent.ErrNoInput) {
			return printJSON(stdout, agents.NoInputBody)
		}
		if err != nil {
			return err
		}
		query = q
	}

	var (
		out any
		err error
	)
	switch name {
	case agents.CO2:
		out, err = a.Service.EstimateCO2(ctx, query)
	case agents.Route:
		out, err = a.Service.OptimizeRoute(ctx, query)
	case agents.Recommend:
		out, err = a.Service.RecommendBid(ctx, query)
	default:
		return fmt.Errorf("unknown agent %q", name)
	}
	if err != nil {
		return err
	}
	return printJSON(stdout, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
