package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/avetisov/jobradar/internal/listing"
	"github.com/avetisov/jobradar/internal/logger"
	"github.com/avetisov/jobradar/internal/pipeline"
	"github.com/avetisov/jobradar/internal/report"
	"github.com/avetisov/jobradar/internal/source"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowReport       = "Show full report"
	PromptReportByPlatform = "Report by platform"
	PromptDumpToFile       = "Dump snapshot to a tmp file"
	PromptExit             = "Exit"

	defaultAdapterInterval = time.Second
	defaultRunBudget       = 2 * time.Minute
	defaultOutputDir       = "job_search_results"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptReportByPlatform, PromptDumpToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobradar search across all configured platforms",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "print the report and exit without the interactive menu")
	runCmd.Flags().Bool("offline", false, "skip live scraping, generate search links only")
	runCmd.Flags().StringP("output-dir", "o", "", "directory for result snapshots")

	viper.BindPFlag("output.dir", runCmd.Flags().Lookup("output-dir"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobradar", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Profile == nil {
		logger.Fatal("a profile section is required in the config")
	}

	if err := config.Profile.Validate(); err != nil {
		logger.Fatal("validating profile", zap.Error(err))
	}

	if len(config.Profile.TargetRoles) == 0 {
		logger.Warn("no target roles configured, adapters will have nothing to search for")
	}

	search := config.Search
	if search == nil {
		search = &SearchConfig{}
	}
	if search.AdapterInterval <= 0 {
		search.AdapterInterval = defaultAdapterInterval
	}
	if search.RunBudget <= 0 {
		search.RunBudget = defaultRunBudget
	}

	live := cmd.Flag("offline").Value.String() == "false"
	if live && search.LiveFetch != nil {
		live = *search.LiveFetch
	}

	adapters := buildAdapters(search, live, logger)

	logger.Info("starting the search",
		zap.Strings("roles", config.Profile.TargetRoles),
		zap.Int("adapters", len(adapters)),
		zap.Bool("live_fetch", live),
	)

	ctx, cancel := context.WithTimeout(context.Background(), search.RunBudget)
	defer cancel()

	result, err := pipeline.New(logger, adapters...).Run(ctx, config.Profile)
	if err != nil {
		logger.Fatal("running the search", zap.Error(err))
	}

	outputDir := viper.GetString("output.dir")
	if config.Output != nil && config.Output.Dir != "" {
		outputDir = config.Output.Dir
	}
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	path, err := result.DumpToFile(outputDir)
	if err != nil {
		logger.Fatal("saving the snapshot", zap.Error(err))
	}
	logger.Info("snapshot saved", zap.String("filename", path))

	if cmd.Flag("auto-approve").Value.String() == "true" {
		fmt.Println(report.Render(result))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, result *listing.RankedResult) error {
	switch action {
	case PromptShowReport:
		fmt.Println(report.Render(result))
		return nil
	case PromptReportByPlatform:
		fmt.Println(report.ByPlatform(result))
		return nil
	case PromptDumpToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// buildAdapters constructs the configured adapters in their fixed
// registration order. The order is the merge-order contract for the
// pipeline, so it must stay deterministic.
func buildAdapters(search *SearchConfig, live bool, logger *zap.Logger) []source.Adapter {
	client := source.NewClient(logger)

	all := []source.Adapter{
		source.NewWellfound(),
		source.NewRemoteOK(client, search.AdapterInterval, live, logger),
		source.NewIndeed(client, search.AdapterInterval, live, logger),
		source.NewLinkedIn(),
		source.NewStartupBoards(),
	}

	if len(search.Platforms) == 0 {
		return all
	}

	enabled := make(map[string]bool, len(search.Platforms))
	for _, platform := range search.Platforms {
		enabled[platform] = true
	}

	var adapters []source.Adapter
	for _, adapter := range all {
		if enabled[adapter.Name()] {
			adapters = append(adapters, adapter)
		}
	}
	return adapters
}
