package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/research"
	"github.com/mohammad-safakhou/scout/internal/search"
	"github.com/mohammad-safakhou/scout/internal/server"
	"github.com/mohammad-safakhou/scout/provider"
	"github.com/mohammad-safakhou/scout/tools/web_search"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	root := &cobra.Command{Use: "scoutd", Short: "Conversational research assistant"}
	root.AddCommand(serveCMD(), askCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCMD() *cobra.Command {
	var cfgPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return server.Run(cfg)
		},
	}
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return serve
}

func askCMD() *cobra.Command {
	var cfgPath string
	ask := &cobra.Command{
		Use:   "ask [question]",
		Short: "Run one research loop from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			query := args[0]

			llm, err := provider.NewProvider(cfg.LLM)
			if err != nil {
				return err
			}
			searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey)
			if err != nil {
				return err
			}
			gateway := search.NewGateway(searcher, cfg.Search, log.New(log.Writer(), "[SEARCH] ", log.LstdFlags))
			engine := research.NewEngine(llm, gateway, cfg.Research, cfg.LLM.Temperature, log.New(log.Writer(), "[ENGINE] ", log.LstdFlags))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			initial := gateway.Search(ctx, query)
			resp, err := engine.Run(ctx, query, initial, "")
			if err != nil {
				return err
			}

			for i, s := range resp.TraceSteps {
				fmt.Printf("Step %d\n  Thought: %s\n  Action: %s\n  Observation: %s\n", i+1, s.Thought, s.Action, s.Observation)
				if s.Reflection != "" {
					fmt.Printf("  Reflection: %s\n", s.Reflection)
				}
			}
			fmt.Printf("\n%s\n", resp.FinalOutput)
			return nil
		},
	}
	ask.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	return ask
}
