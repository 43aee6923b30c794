package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/modelmaster-cli/internal/report"
	"github.com/idlab-discover/modelmaster-cli/internal/ui"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "modelmaster",
	Short: "Compare ML models on a CSV dataset and run predictions",
	Long:  longDescription,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
	},

	// When invoked without a subcommand, show help (with banner) instead of
	// printing a plain usage output.
	RunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return cmd.Help()
	},
}

var cfgFile string

// SetVersion sets the version for the CLI and the exported reports
func SetVersion(v string) {
	rootCmd.Version = v
	report.Version = v
}

// GetRootCmd returns the root command for use with fang
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.modelmaster.yaml or ./config/defaults.yaml)")
	rootCmd.PersistentFlags().String("service-url", "", "Base URL of the model service (default "+defaultServiceURL+")")
	rootCmd.PersistentFlags().Int("service-timeout", 0, "Request timeout in seconds (default 120)")

	viper.BindPFlag("service.url", rootCmd.PersistentFlags().Lookup("service-url"))
	viper.BindPFlag("service.timeout", rootCmd.PersistentFlags().Lookup("service-timeout"))

	viper.SetDefault("service.url", defaultServiceURL)
	viper.SetDefault("service.timeout", defaultTimeoutSec)

	// Ensure `--help` (and help subcommands) show the banner consistently.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(compareCmd, predictCmd, inspectCmd, rangesCmd, stubCmd)
}

func initConfig() {
	// A .env file in the working directory seeds the environment.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "%s could not load .env: %v\n", ui.GetWarnMark(), err)
		}
	}

	// MODELMASTER_SERVICE_URL overrides service.url, and so on.
	viper.SetEnvPrefix("MODELMASTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			cobra.CheckErr(err)
		}
		printConfigUsed()
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	viper.AddConfigPath("./config")

	// Try .modelmaster first
	viper.SetConfigName(".modelmaster")
	err = viper.ReadInConfig()

	// If not found, try defaults.yaml
	notFound := &viper.ConfigFileNotFoundError{}
	if err != nil && errors.As(err, notFound) {
		viper.SetConfigName("defaults")
		err = viper.ReadInConfig()
	}

	switch {
	case err != nil && !errors.As(err, notFound):
		cobra.CheckErr(err)
	case err != nil:
		// The config file is optional
	default:
		printConfigUsed()
	}
}

func printConfigUsed() {
	configMsg := ui.Dim.Render("Using config file: ") + ui.Secondary.Render(viper.ConfigFileUsed())
	fmt.Fprintln(os.Stderr, configMsg)
}

const longDescription = "Upload a CSV dataset, train and compare candidate ML models for a target column, and run predictions against the model service."

func initUIAndBanner(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	cmd.Root().Long = ui.RenderGradientBanner(ui.BannerASCII) + "\n" + longDescription
}
