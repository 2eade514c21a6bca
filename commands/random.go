package commands

import (
	"strconv"

	"github.com/Zetic/zpt/commands/command"
	"github.com/Zetic/zpt/utils"
	"github.com/tjarratt/babble"
)

var RandomCommand = command.NewCommand("random", []string{"rand"}, randomCommandRun)

var babbler = babble.NewBabbler()

func init() {
	babbler.Separator = ", "
}

func randomCommandRun(cmdctx *command.CommandContext) error {
	if cmdctx.Args == "" {
		babbler.Count = 10
	} else {
		i, err := strconv.Atoi(cmdctx.Args)
		if err != nil {
			return err
		} else {
			if i < 1 {
				i = 1
			} else if i > 100 {
				i = 100
			}
			babbler.Count = i
		}
	}

	_, err := cmdctx.TryReply("**Try this prompt:** %s", utils.TruncateText(babbler.Babble(), 512))
	return err
}
