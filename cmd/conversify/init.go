package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/service/installer"
	"github.com/conversify/conversify/pkg/env"
	"github.com/conversify/conversify/pkg/log"
)

var initDefaults bool

var initCmd = &cobra.Command{
	Use:           "init",
	Short:         "Set up the runtime directory and write a .env",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if initDefaults {
			return writeDefaultEnv(ctx)
		}

		// run wizard (includes save step)
		if _, err := installer.RunWizard(); err != nil {
			return err
		}

		// Load the newly created .env file so NewAppConfig can see the values
		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Ready! You can now run 'conversify start'.")
		return nil
	},
}

// writeDefaultEnv creates a starter .env without the interactive wizard.
func writeDefaultEnv(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	runtimePath := config.GetRuntimePath()
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envPath); err == nil {
		logger.Info().Str("path", envPath).Msg(".env already exists, leaving it alone")
		return nil
	}

	starter := &config.AppConfig{
		RuntimePath:        runtimePath,
		Mode:               "casual",
		EnableCLI:          true,
		MaxHistorySize:     1000,
		CacheSize:          256,
		IdleTimeoutSeconds: 300,
	}
	content, err := env.MarshalEnv(starter)
	if err != nil {
		return fmt.Errorf("failed to render .env: %w", err)
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}

	logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
	logger.Info().Msg("Ready! You can now run 'conversify start'.")
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "skip the wizard and write a starter .env")
	rootCmd.AddCommand(initCmd)
}
