package command

import (
	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/core"
)

func NewCommands(
	cfg *config.AppConfig,
	views EngineViews,
) []core.Command {
	cmds := []core.Command{
		NewTopicsCommand(views),
		NewTrendsCommand(views),
		NewSummarizeCommand(views),
		NewExportCommand(cfg, views),
	}
	return append(cmds, NewHelpCommand(cmds))
}
