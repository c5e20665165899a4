package cmd

import (
	"log"
	"time"

	"github.com/avetisov/jobradar/internal/profile"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobradar"
)

type Config struct {
	Profile *profile.Profile `mapstructure:"profile"`
	Search  *SearchConfig    `mapstructure:"search"`
	Output  *OutputConfig    `mapstructure:"output"`
}

// SearchConfig tunes how the run behaves. Zero values fall back to the
// defaults applied in run.go.
type SearchConfig struct {
	// LiveFetch disables actual scraping when false: every adapter
	// degrades to search-link generation.
	LiveFetch *bool `mapstructure:"live-fetch"`
	// AdapterInterval is the minimum spacing between requests of one
	// adapter. Platforms rate-limit independently, so the spacing is
	// enforced per adapter, not globally.
	AdapterInterval time.Duration `mapstructure:"adapter-interval"`
	// RunBudget bounds the whole search. When exceeded, adapters stop
	// issuing new requests and the run proceeds with what completed.
	RunBudget time.Duration `mapstructure:"run-budget"`
	// Platforms restricts which adapters run. Empty means all.
	Platforms []string `mapstructure:"platforms"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobradar is a cli for searching job postings across several platforms and ranking them against your profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("output.dir", "JOBRADAR_OUTPUT_DIR"); err != nil {
		log.Fatalf("binding JOBRADAR_OUTPUT_DIR environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobradar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
