package commands

import (
	"github.com/Zetic/zpt/commands/command"
	"github.com/Zetic/zpt/config"
)

var StatusCommand = command.NewCommand("status", []string{"st"}, statusCommandRun)

func statusCommandRun(cmdctx *command.CommandContext) error {
	config.ConfigMutex.Lock()
	model := config.Config.FluxModel
	folder := config.Config.ImagesFolder
	maxSize := config.Config.MaxFileSizeMB
	timeout := config.Config.InteractiveTimeout
	config.ConfigMutex.Unlock()

	_, err := cmdctx.TryReply(`**Bot Status**
__Model__: %s
__Images folder__: %s
__Max file size__: %dMB
__Interactive session timeout__: %ds`, model, folder, maxSize, timeout)

	return err
}
