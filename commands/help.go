package commands

import (
	"strings"

	"github.com/Zetic/zpt/commands/command"
)

var HelpCommand = command.NewCommand("help", []string{"h", "?"}, helpCommandRun)

func helpCommandRun(cmdctx *command.CommandContext) error {
	_, err := cmdctx.TryReply(`**To edit an image:** reply to a message containing an image, mention me, and describe the change.
Start the description with `+"`interactive`"+` to keep a session open for more edits.
**Usage:** %s<command> [args]
**Commands:** %s`, cmdctx.CalledWithPrefix, strings.Join(cmdctx.Executor.GetCommandNames(), ", "))

	return err
}
