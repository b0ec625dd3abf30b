package main

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pdf-converter/internal/config"
)

var (
	envFile       string
	port          string
	converterPath string
	timeout       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "pdf-converter",
	Short: "PDF to text/CSV conversion service",
	Long: `pdf-converter accepts PDF uploads over HTTP, runs them through a converter
and streams the resulting text or CSV back to the caller.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(cmd)
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&converterPath, "converter", "", "converter executable (overrides CONVERTER_PATH)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "conversion timeout (overrides CONVERSION_TIMEOUT)")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadEnvFile loads the dotenv file. A missing default file is only a warning.
func loadEnvFile(cmd *cobra.Command) error {
	err := godotenv.Load(envFile)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
		return nil
	}
	return err
}

// loadConfig reads the environment and applies command-line overrides
func loadConfig(cmd *cobra.Command) *config.AppConfig {
	cfg := config.NewConfig()
	flags := cmd.Flags()
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.ServerPort = port
	}
	if flags.Changed("converter") {
		cfg.ConverterPath = converterPath
	}
	if flags.Changed("timeout") {
		cfg.ConversionTimeout = timeout
	}
	return cfg
}
