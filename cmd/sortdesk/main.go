package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sortdesk/sortdesk/internal/config"
	"github.com/sortdesk/sortdesk/internal/engine"
	"github.com/sortdesk/sortdesk/internal/rpc"
	"github.com/sortdesk/sortdesk/internal/ui"
)

var (
	cfgFile       string
	workspacePath string
	includeNested bool
	jsonOutput    bool
	verbose       bool

	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

const exampleConfig = `[workspace]
path = "/home/you/Downloads"
include_nested = false
dotfile_allowlist = [".env", ".envrc", ".editorconfig"]

# Custom categories are tried before the built-in table.
# [[rules]]
# name = "Books"
# extensions = [".epub", ".mobi"]
`

var rootCmd = &cobra.Command{
	Use:   "sortdesk",
	Short: "Workspace reorganization engine",
	Long: `sortdesk sorts a messy folder into category directories, collapses
duplicate-suffixed filenames, removes exact content duplicates and prunes
directories left empty. It never overwrites a file and is safe to run
again on its own output.`,
}

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Reorganize a workspace-relative folder",
	Long: `Run all passes over one folder inside the workspace. The path is
workspace-relative ("/" or omitted means the workspace root). Prints a
summary and, with --json, the full report.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active category table",
	Run:   runRules,
}

var viewCmd = &cobra.Command{
	Use:   "view <report.json>",
	Short: "Browse a saved report in the terminal",
	Args:  cobra.ExactArgs(1),
	Run:   runView,
}

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Serve line-delimited JSON-RPC on stdin/stdout",
	Long: `Serve the engine to a parent process: one JSON request per line on
stdin, one response per line on stdout. Status events stream as id-less
notifications. Methods: reorganize, createFolders, ping.`,
	Run: runRPC,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and contents",
	Run:   runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sortdesk %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sortdesk/config.toml)")
	rootCmd.PersistentFlags().StringVar(&workspacePath, "workspace", "", "workspace root (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	runCmd.Flags().BoolVar(&includeNested, "nested", false, "also process files one directory level down")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full report as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(rpcCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	return config.Load()
}

// resolveSetup loads config and resolves the workspace root, honoring the
// --workspace override.
func resolveSetup() (*config.Config, engine.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, engine.Config{}, err
	}

	if workspacePath != "" {
		cfg.Workspace.Path = workspacePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, engine.Config{}, err
	}

	return cfg, cfg.EngineConfig(), nil
}

func runRun(cmd *cobra.Command, args []string) {
	log := newLogger()

	cfg, engCfg, err := resolveSetup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	workspace := cfg.Workspace.Path

	target := "/"
	if len(args) == 1 {
		target = args[0]
	}
	// The config default applies when the flag is not set explicitly.
	if !cmd.Flags().Changed("nested") {
		includeNested = cfg.Workspace.IncludeNested
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nCancelling...")
		cancel()
	}()

	engCfg.Logger = log
	engCfg.Notify = func(ev engine.StatusEvent) {
		if ev.Kind == engine.StatusPermission {
			log.Warn().Str("path", ev.Path).Msg("permission denied")
		}
	}

	report, err := engine.New(workspace, engCfg).Reorganize(ctx, target, includeNested)
	if err != nil {
		if err == context.Canceled {
			fmt.Fprintln(os.Stderr, "Run cancelled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Print(ui.RenderSummary(report))
	if report.Summary.Errors > 0 {
		fmt.Print(ui.RenderDetails(report))
	}
}

func runRules(cmd *cobra.Command, args []string) {
	_, engCfg, err := resolveSetup()
	if err != nil {
		// Rules are viewable without a valid workspace.
		engCfg = engine.DefaultConfig()
	}

	for _, rule := range engCfg.Rules {
		dated := ""
		if rule.Dated {
			dated = "  (dated)"
		}
		fmt.Printf("%-12s %s%s\n", rule.Name, strings.Join(rule.Extensions, " "), dated)
	}
}

func runView(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading report: %v\n", err)
		os.Exit(1)
	}

	var report engine.Report
	if err := json.Unmarshal(data, &report); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing report: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(ui.NewModel(&report), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}

func runRPC(cmd *cobra.Command, args []string) {
	log := newLogger()

	cfg, engCfg, err := resolveSetup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	engCfg.Logger = log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	server := rpc.NewServer(cfg.Workspace.Path, engCfg, log)
	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConfig(cmd *cobra.Command, args []string) {
	path, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config file: %s\n\n", path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Println("No config file yet. Example:")
		fmt.Println(exampleConfig)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
