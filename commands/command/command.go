// Adapted from https://github.com/cutest-design/bot2/blob/main/command/command.go (my own code)
package command

import (
	"fmt"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
)

type CommandContext struct {
	Executor *Executor
	Message  *discord.Message

	CalledWithPrefix string
	CalledWithAlias  string
	Args             string
}

func (c *CommandContext) TryReply(format string, a ...any) (msg *discord.Message, err error) {
	content := fmt.Sprintf(format, a...)
	content = strings.ReplaceAll(content, "@", "@​") // Just in case
	if len(content) > 2000 {
		content = content[:2000]
	}

	msg, err = c.Executor.SendMessageReply(c.Message.ChannelID, content, c.Message.ID)
	if err != nil {
		msg, err = c.Executor.SendMessage(c.Message.ChannelID, content)
	}
	return msg, err
}

type Command struct {
	Name    string
	Aliases []string
	run     func(*CommandContext) error
}

func NewCommand(name string, aliases []string, run func(*CommandContext) error) *Command {
	return &Command{
		Name:    name,
		Aliases: aliases,
		run:     run,
	}
}

func (c *Command) Run(cmdctx *CommandContext) error {
	return c.run(cmdctx)
}

func (c *Command) String() string {
	return fmt.Sprintf("{Name: %s, Aliases: %s}", c.Name, c.Aliases)
}
