package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/generate"
	"github.com/galactusaurus/roster-opt/internal/ingest"
	"github.com/galactusaurus/roster-opt/internal/pool"
	"github.com/galactusaurus/roster-opt/internal/solver"
	"github.com/galactusaurus/roster-opt/internal/writer"
	"github.com/galactusaurus/roster-opt/pkg/logger"
)

type cliOptions struct {
	csvPath       string
	format        string
	salaryCap     int
	numLineups    int
	stackTeam     string
	stackCount    int
	maxFromTeam   int
	minTeams      int
	minSalaryUsed float64
	diversity     int
	maxAppear     int
	fadeTeams     []string
	injuryList    string
	outputDir     string
	skipCSV       bool
	solveTimeout  time.Duration
	verbose       bool
}

func main() {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "rosteropt",
		Short: "Generate salary-capped contest lineups from a salary CSV",
		Long: `rosteropt reads a DraftKings-style salary export, builds an exact
optimization model for the chosen contest format, and prints the best
lineups it can find under the requested constraints.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.csvPath, "csv", "", "salary CSV path (default: newest DKSalaries*.csv in cwd or ~/Downloads)")
	flags.StringVar(&opts.format, "format", "motorsport", "contest format: motorsport, baseball, showdown")
	flags.IntVar(&opts.salaryCap, "salary-cap", 0, "override the format's salary cap")
	flags.IntVarP(&opts.numLineups, "num-lineups", "n", 1, "how many lineups to generate")
	flags.StringVar(&opts.stackTeam, "stack-team", "", "require a minimum number of entries from this team")
	flags.IntVar(&opts.stackCount, "stack-count", 0, "entries required from the stack team")
	flags.IntVar(&opts.maxFromTeam, "max-from-team", 0, "override the format's per-team maximum")
	flags.IntVar(&opts.minTeams, "min-teams", 0, "override the format's distinct-team minimum")
	flags.Float64Var(&opts.minSalaryUsed, "min-salary-used", 0, "minimum fraction of the cap each lineup must spend (0-1)")
	flags.IntVar(&opts.diversity, "lineup-diversity", 0, "each lineup must differ from prior ones by at least this many entries")
	flags.IntVar(&opts.maxAppear, "max-player-appearances", 0, "cap on how many lineups any one athlete may join")
	flags.StringSliceVar(&opts.fadeTeams, "fade-team", nil, "discount this team's projections (repeatable)")
	flags.StringVar(&opts.injuryList, "injury-list", "", "file of injured names to drop from the pool")
	flags.StringVar(&opts.outputDir, "output", writer.DefaultOutputDir, "directory for CSV outputs")
	flags.BoolVar(&opts.skipCSV, "no-csv", false, "skip writing CSV outputs")
	flags.DurationVar(&opts.solveTimeout, "solve-timeout", 30*time.Second, "per-lineup solve time limit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *cliOptions) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.InitLogger(level, true)

	cfg, err := contest.ByName(opts.format)
	if err != nil {
		return err
	}
	if opts.salaryCap > 0 {
		cfg.SalaryCap = opts.salaryCap
	}
	if opts.maxFromTeam > 0 {
		cfg.MaxPerTeam = opts.maxFromTeam
	}
	if opts.minTeams > 0 {
		cfg.MinTeams = opts.minTeams
	}

	csvPath := opts.csvPath
	if csvPath == "" {
		csvPath, err = ingest.FindSalaryFile(ingest.SearchDirs()...)
		if err != nil {
			return err
		}
		fmt.Printf("Using salary file %s\n", csvPath)
	}
	records, err := ingest.LoadSalaries(csvPath)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": csvPath, "records": len(records)}).Debug("Loaded salary file")

	if opts.injuryList != "" {
		injured, err := ingest.LoadInjuredNames(opts.injuryList)
		if err != nil {
			return err
		}
		var removed int
		records, removed = ingest.FilterInjured(records, injured)
		if removed > 0 {
			fmt.Printf("Dropped %d injured athletes\n", removed)
		}
	}

	if cfg.CaptainRole != "" && !hasRole(records, cfg.CaptainRole) {
		records = pool.ExpandCaptain(records, cfg.CaptainRole, cfg.UtilityRole)
	}
	p, err := pool.New(records)
	if err != nil {
		return err
	}

	gen, err := generate.New(cfg, p, solver.NewBranchBound(), log.WithField("component", "cli"))
	if err != nil {
		return err
	}
	gen.SolveTimeout = opts.solveTimeout

	req := generate.Request{
		Count:              opts.numLineups,
		StackTeam:          opts.stackTeam,
		StackCount:         opts.stackCount,
		FadeTeams:          opts.fadeTeams,
		MinSalaryFraction:  opts.minSalaryUsed,
		DiversityThreshold: opts.diversity,
		MaxAppearances:     opts.maxAppear,
	}

	start := time.Now()
	lineups, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	if len(lineups) < opts.numLineups {
		fmt.Printf("Only %d of %d requested lineups were feasible\n", len(lineups), opts.numLineups)
	}
	fmt.Printf("Generated %d lineup(s) in %s\n\n", len(lineups), time.Since(start).Round(time.Millisecond))

	writer.RenderLineups(os.Stdout, cfg, lineups)
	if opts.numLineups > 1 {
		writer.RenderUsage(os.Stdout, lineups, opts.maxAppear)
	}

	if !opts.skipCSV {
		detailedPath, err := writer.OutputPath(opts.outputDir, "lineups_detailed.csv")
		if err != nil {
			return err
		}
		if err := writer.WriteDetailed(detailedPath, lineups); err != nil {
			return err
		}
		rosterPath, err := writer.OutputPath(opts.outputDir, "lineups_upload.csv")
		if err != nil {
			return err
		}
		if err := writer.WriteRoster(rosterPath, cfg, lineups); err != nil {
			return err
		}
		fmt.Printf("\nWrote %s\n", detailedPath)
		fmt.Printf("Wrote %s\n", rosterPath)
	}

	return nil
}

func hasRole(records []pool.Record, role string) bool {
	for _, r := range records {
		if r.Role == role {
			return true
		}
	}
	return false
}
