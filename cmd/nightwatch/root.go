// Package main is the nightwatch CLI entrypoint, wired the way the
// teacher's cmd/root.go wires cobra + viper + godotenv.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flux690/nightwatch/internal/observability"
)

var (
	cfgFile      string
	topologyFile string
	knowledgeFile string
	logLevel     string
	logFormat    string
	modeOverride string

	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nightwatch",
	Short: "An autonomous SRE incident-resolution agent",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		l, err := observability.CreateLogger(observability.Options{
			Level:  viper.GetString("log-level"),
			Format: viper.GetString("log-format"),
			Stdout: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
			os.Exit(1)
		}
		logger = l
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "nightwatch.json", "process configuration file")
	rootCmd.PersistentFlags().StringVar(&topologyFile, "topology", "docker-compose.yml", "container topology file")
	rootCmd.PersistentFlags().StringVar(&knowledgeFile, "knowledge", "knowledge.md", "knowledge store file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&modeOverride, "mode", "", "override the config file's mode (observe|remediate)")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateTopologyCmd)
	rootCmd.AddCommand(replayCmd)

	initConfig()
}

func initConfig() {
	for _, candidate := range []string{".env", "../.env"} {
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			break
		}
	}
	viper.SetConfigName(".nightwatch")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
