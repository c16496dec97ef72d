// Package cmd holds the fastbox command tree.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coding-with-rohit-914/fastbox/app"
	"github.com/coding-with-rohit-914/fastbox/config"
	"github.com/coding-with-rohit-914/fastbox/core/report"
	"github.com/coding-with-rohit-914/fastbox/infra/logger"
	"github.com/coding-with-rohit-914/fastbox/pkg/export"
)

var (
	cfgPath        string
	inputPath      string
	delaysFlag     bool
	newAgentFlag   bool
	seedFlag       int64
	visualizeID    string
	csvFlag        bool
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "fastbox",
	Short: "FastBox delivery day simulator",
	Long: `Simulates one day of package delivery: agents pick up packages at
warehouses and deliver them using nearest-agent assignment, with
optional random delays and a mid-day fleet join.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "scenario file (skips the interactive selection)")
	rootCmd.Flags().BoolVar(&delaysFlag, "delays", false, "enable random delivery delays")
	rootCmd.Flags().BoolVar(&newAgentFlag, "new-agent", false, "simulate a new agent joining mid-day")
	rootCmd.Flags().Int64Var(&seedFlag, "seed", 0, "random seed (0 = time-based)")
	rootCmd.Flags().StringVar(&visualizeID, "visualize", "", "agent id to visualize after the run")
	rootCmd.Flags().BoolVar(&csvFlag, "csv", false, "export the top performer to CSV")
	rootCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; rely on flags and config only")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)

	log := logger.NewZerolog("main", logger.Settings{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
	})
	out := cmd.OutOrStdout()
	prompts := newPrompter(cmd.InOrStdin(), out, nonInteractive)

	input := inputPath
	if input == "" {
		input, err = selectScenario(prompts, cfg.Scenarios.Dir)
		if err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("delays") && !nonInteractive {
		cfg.Simulation.EnableDelays = prompts.yesNo("Enable random delivery delays?")
	}
	if !cmd.Flags().Changed("new-agent") && !nonInteractive {
		cfg.Simulation.NewAgentMidDay = prompts.yesNo("Simulate new agent joining mid-day?")
	}

	svc := app.New(cfg, log)
	fmt.Fprintf(out, "Loading scenario %s...\n", input)
	rep, err := svc.Run(input)
	if err != nil {
		return err
	}

	printReport(out, rep)
	if err := export.SaveJSON(cfg.Output.ReportPath, rep); err != nil {
		return err
	}
	fmt.Fprintf(out, "Report saved to %s\n", cfg.Output.ReportPath)

	if id := chooseVisualization(cmd, prompts); id != "" {
		if err := svc.Visualize(out, id); err != nil {
			// A bad id is a user mistake, not a failed run.
			fmt.Fprintf(out, "%v\n", err)
		}
	}

	if csvFlag || prompts.yesNo("Export top performer to CSV?") {
		if err := export.SaveTopPerformerCSV(cfg.Output.CSVPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "Top performer exported to %s\n", cfg.Output.CSVPath)
	}
	return nil
}

// applyFlags lets explicit flags win over the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("delays") {
		cfg.Simulation.EnableDelays = delaysFlag
	}
	if cmd.Flags().Changed("new-agent") {
		cfg.Simulation.NewAgentMidDay = newAgentFlag
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = seedFlag
	}
}

// selectScenario lists the scenario files in dir and lets the user pick
// one by number or type a literal filename.
func selectScenario(p *prompter, dir string) (string, error) {
	files, err := listScenarioFiles(dir)
	if err != nil {
		return "", err
	}
	if p.nonInteractive {
		return "", fmt.Errorf("no --input given in non-interactive mode")
	}
	fmt.Fprintln(p.out, "Available scenario files:")
	for i, f := range files {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, f)
	}
	answer := p.line("Enter a number or a filename: ")
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(files) {
			return "", fmt.Errorf("selection %d out of range", n)
		}
		return filepath.Join(dir, files[n-1]), nil
	}
	return answer, nil
}

func listScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func chooseVisualization(cmd *cobra.Command, p *prompter) string {
	if cmd.Flags().Changed("visualize") {
		return visualizeID
	}
	if p.nonInteractive {
		return ""
	}
	answer := p.line("Visualize routes for an agent? (agent id or 'n'): ")
	if answer == "" || answer == "n" || answer == "N" {
		return ""
	}
	return answer
}

func printReport(w io.Writer, rep *report.Report) {
	fmt.Fprintln(w, "FINAL REPORT")
	for _, id := range rep.Order() {
		m := rep.Agents[id]
		fmt.Fprintf(w, "Agent %s:\n", id)
		fmt.Fprintf(w, "  packages delivered: %d\n", m.PackagesDelivered)
		fmt.Fprintf(w, "  total distance:     %.2f\n", m.TotalDistance)
		fmt.Fprintf(w, "  efficiency:         %.2f\n", m.Efficiency)
	}
	if rep.BestAgent != nil {
		fmt.Fprintf(w, "Best agent: %s\n", *rep.BestAgent)
	} else {
		fmt.Fprintln(w, "Best agent: none (no packages delivered)")
	}
}
