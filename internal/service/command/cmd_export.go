package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/pkg/log"
)

type ExportCommand struct {
	cfg       *config.AppConfig
	views     EngineViews
	formatter *ResponseFormatter
}

func NewExportCommand(cfg *config.AppConfig, views EngineViews) *ExportCommand {
	return &ExportCommand{
		cfg:       cfg,
		views:     views,
		formatter: NewResponseFormatter(),
	}
}

func (c *ExportCommand) Name() string {
	return "export"
}

func (c *ExportCommand) Description() string {
	return "Export the conversation and profile to a JSON file"
}

func (c *ExportCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	dump := c.views.Export(sessionID)

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}

	dir := c.cfg.GetExportDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("conversation_%s_%s.json", sessionID, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	log.FromCtx(ctx).Info().Str("path", path).Int("messages", len(dump.Messages)).Msg("exported conversation")
	return c.formatter.Success(fmt.Sprintf("Exported %d messages to %s", len(dump.Messages), path)), nil
}
