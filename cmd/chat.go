package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solarmap/solarmap/internal/chat"
	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/pipeline"
)

var (
	chatPlace   string
	chatAddress string
	chatLat     float64
	chatLon     float64
	chatRunID   string
	chatOffline bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about an assessment interactively",
	Long:  "Runs (or loads) an assessment, then answers FAQ-style questions about tilt, cost, payback, panels, irradiance, and suitability.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var assessment *model.Assessment
		if chatRunID != "" {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.GetRun(ctx, chatRunID)
			if err != nil {
				return err
			}
			if run.Assessment == nil {
				return fmt.Errorf("run %s has no completed assessment", chatRunID)
			}
			assessment = run.Assessment
		} else {
			req := defaultRequest()
			coordsSet := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
			if err := resolveLocation(ctx, &req, chatPlace, chatAddress, chatLat, chatLon, coordsSet); err != nil {
				return err
			}
			tilt := req.Location.Latitude
			if tilt < 0 {
				tilt = -tilt
			}
			if tilt > 60 {
				tilt = 60
			}
			req.Perf.TiltDeg = tilt
			req.Offline = chatOffline

			var provider = initProvider()
			if chatOffline {
				provider = nil
			}
			a, err := pipeline.NewAssessor(provider).Run(ctx, req)
			if err != nil {
				return err
			}
			assessment = a
		}

		fmt.Printf("Assessment ready: %d panels, %.2f kW, score %.1f (%s).\n",
			assessment.Layout.Panels, assessment.SystemKW,
			assessment.Suitability.Score, assessment.Band)
		fmt.Println(`Ask a question, or "quit" to exit.`)

		responder := chat.NewResponder()
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			q := strings.TrimSpace(scanner.Text())
			if q == "" {
				continue
			}
			if q == "quit" || q == "exit" {
				break
			}
			fmt.Println(responder.Answer(q, assessment))
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatPlace, "place", "", "place name from the gazetteer")
	chatCmd.Flags().StringVar(&chatAddress, "address", "", "free-text address to geocode")
	chatCmd.Flags().Float64Var(&chatLat, "lat", 0, "latitude in decimal degrees")
	chatCmd.Flags().Float64Var(&chatLon, "lon", 0, "longitude in decimal degrees")
	chatCmd.Flags().StringVar(&chatRunID, "run", "", "answer against a saved run instead of assessing")
	chatCmd.Flags().BoolVar(&chatOffline, "offline", false, "skip the irradiance API and use the fallback profile")
	rootCmd.AddCommand(chatCmd)
}
