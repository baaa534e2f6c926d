package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/config"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/domain"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/generator"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/preview"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/solver"
	"github.com/emreCanbazoglu/pixel-sort-level-designer/internal/validator"
)

var (
	cfgPath string
	cfg     config.Config
	logger  *slog.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "levelgen",
		Short: "Generate and check solver-gated puzzle levels",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file")

	root.AddCommand(generateCmd(), solveCmd(), previewCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newSolver() *solver.Engine {
	opts := solver.Options{Workers: cfg.Solver.Workers, MirrorFold: cfg.Solver.MirrorFold}
	if cfg.Solver.Algorithm == "bestfirst" {
		opts.Algorithm = solver.AlgoBestFirst
	}
	return solver.New(cfg.Sim.Build(), opts)
}

func generateCmd() *cobra.Command {
	var (
		skelPath string
		outPath  string
		seed     int64
		mode     string
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a level from a skeleton JSON, gated by the solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(skelPath)
			if err != nil {
				return err
			}
			var skel domain.Skeleton
			if err := json.Unmarshal(data, &skel); err != nil {
				return fmt.Errorf("parse skeleton %s: %w", skelPath, err)
			}
			params := domain.GenParams{
				Seed:             seed,
				Mode:             domain.DeriveMode(mode),
				MaxAttempts:      attempts,
				MaxDominantShare: cfg.Generator.MaxDominantShare,
				SeamThickness:    cfg.Generator.SeamThickness,
			}
			if params.MaxAttempts == 0 {
				params.MaxAttempts = cfg.Generator.MaxAttempts
			}

			g := generator.NewBackward(newSolver(), cfg.Solver.Budget())
			start := time.Now()
			lvl, st, err := g.Generate(cmd.Context(), skel, params)
			if err != nil {
				return err
			}
			logger.Info("generated",
				"id", lvl.ID,
				"size", fmt.Sprintf("%dx%d", lvl.W, lvl.H),
				"solutionLen", len(lvl.Solution),
				"attempts", st.Attempts,
				"nodes", st.Nodes,
				"dur", time.Since(start).Round(time.Millisecond),
			)

			out, err := json.MarshalIndent(lvl, "", "  ")
			if err != nil {
				return err
			}
			out = append(out, '\n')
			if outPath == "" || outPath == "-" {
				_, err = os.Stdout.Write(out)
				return err
			}
			return os.WriteFile(outPath, out, 0o644)
		},
	}
	cmd.Flags().StringVar(&skelPath, "skeleton", "", "skeleton JSON file (palette + top grid)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().Int64Var(&seed, "seed", 0, "derivation seed")
	cmd.Flags().StringVar(&mode, "mode", string(domain.DeriveDerangement), "slots mode: derangement|rotate|same")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "retry budget (0 = config default)")
	_ = cmd.MarkFlagRequired("skeleton")
	return cmd
}

func solveCmd() *cobra.Command {
	var levelPath string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a level file and print the verdict with telemetry",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := readLevel(levelPath)
			if err != nil {
				return err
			}
			board, err := lvl.Board()
			if err != nil {
				return err
			}
			res, err := newSolver().Solve(cmd.Context(), board, cfg.Solver.Budget())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			if res.Outcome != domain.Solved {
				os.Exit(2)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&levelPath, "level", "", "level JSON file")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func previewCmd() *cobra.Command {
	var (
		levelPath string
		maskOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a level's layers as ASCII",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := readLevel(levelPath)
			if err != nil {
				return err
			}
			if maskOnly {
				fmt.Print(preview.Mask(lvl.Top))
				return nil
			}
			board, err := lvl.Board()
			if err != nil {
				// Render anyway so broken files can be inspected.
				if ok, conflicts, verr := validator.New().Validate(cmd.Context(), &domain.Board{
					W: lvl.W, H: lvl.H, Palette: lvl.Palette,
					Top: lvl.Top, Slots: lvl.Slots, Sides: domain.AllSides,
				}); verr == nil && !ok {
					fmt.Fprintf(os.Stderr, "invalid level (%d conflicts): %v\n", len(conflicts), err)
				}
				fmt.Print(preview.Indices(lvl.Top))
				return nil
			}
			fmt.Print(preview.Board(board))
			return nil
		},
	}
	cmd.Flags().StringVar(&levelPath, "level", "", "level JSON file")
	cmd.Flags().BoolVar(&maskOnly, "mask", false, "occupancy mask only")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func readLevel(path string) (*domain.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lvl domain.Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("parse level %s: %w", path, err)
	}
	return &lvl, nil
}
