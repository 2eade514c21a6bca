package commands

import (
	"github.com/Zetic/zpt/commands/command"
)

var PingCommand = command.NewCommand("ping", nil, pingCommandRun)

func pingCommandRun(cmdctx *command.CommandContext) error {
	_, err := cmdctx.TryReply("🏓 Pong!")
	return err
}
