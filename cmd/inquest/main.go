package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inferlab/inquest/internal/buildconfig"
	"github.com/inferlab/inquest/internal/console"
	"github.com/inferlab/inquest/internal/domain"
	"github.com/inferlab/inquest/internal/engine"
	"github.com/inferlab/inquest/internal/kbfile"
)

var (
	kbPath       string
	contextNames []string
	logLevel     string
	maxDepth     int
)

var rootCmd = &cobra.Command{
	Use:   "inquest",
	Short: "Run rule-based consultations over a knowledge base",
	Long: `inquest loads a knowledge base of contexts, parameters, and
certainty-factor rules, then reasons backward from its goals,
asking questions on the terminal as evidence is needed.`,
	SilenceUsage: true,
}

var consultCmd = &cobra.Command{
	Use:   "consult",
	Short: "Run an interactive consultation",
	RunE:  runConsult,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the contexts, parameters, and rules of a knowledge base",
	RunE:  runShow,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inquest %s (commit %s, built %s)\n",
			buildconfig.Version(), buildconfig.Commit(), buildconfig.Date())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&kbPath, "kb", "", "Path to the knowledge base YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	consultCmd.Flags().StringSliceVar(&contextNames, "contexts", nil, "Contexts to consult (default: all)")
	consultCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Bound on recursive premise resolution (0 keeps the default)")

	rootCmd.AddCommand(consultCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func loadKB() (*domain.KnowledgeBase, error) {
	if kbPath == "" {
		return nil, fmt.Errorf("--kb is required")
	}
	return kbfile.Load(kbPath)
}

func runConsult(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	kb, err := loadKB()
	if err != nil {
		return err
	}

	names := contextNames
	if len(names) == 0 {
		for _, c := range kb.Contexts() {
			names = append(names, c.Name)
		}
	}

	eng := engine.New(kb, console.New(), logger)
	if maxDepth > 0 {
		eng.SetMaxDepth(maxDepth)
	}

	result, err := eng.Execute(cmd.Context(), names)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(domain.RenderFindings(result))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	kb, err := loadKB()
	if err != nil {
		return err
	}

	fmt.Printf("Knowledge base: %s\n\n", kb.Name)

	fmt.Println("Contexts:")
	for _, c := range kb.Contexts() {
		fmt.Printf("  %s (initial: %v, goals: %v)\n", c.Name, c.Initial, c.Goals)
	}

	fmt.Println("\nParameters:")
	for _, p := range kb.Parameters() {
		line := fmt.Sprintf("  %s (%s, %s", p.Name, p.Context, p.TypeString())
		if p.AskFirst {
			line += ", ask first"
		}
		fmt.Println(line + ")")
	}

	fmt.Println("\nRules:")
	for _, r := range kb.Rules() {
		fmt.Println(r.String())
		fmt.Println()
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
