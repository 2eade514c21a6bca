package bot

import (
	"log"
	"strings"

	"github.com/Zetic/zpt/commands"
	"github.com/Zetic/zpt/commands/command"
	"github.com/Zetic/zpt/config"
	"github.com/Zetic/zpt/imagestore"
	"github.com/Zetic/zpt/session"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
)

// Bot holds everything the event handlers need. One is constructed at
// startup and passed around explicitly; there is no package-level bot
// state.
type Bot struct {
	Exec     *command.Executor
	Store    *imagestore.Store
	Sessions *session.Manager
	Me       discord.UserID
}

func New(s *state.State, store *imagestore.Store) *Bot {
	exec := command.NewExecutor(s)
	exec.RegisterCommand(commands.HelpCommand)
	exec.RegisterCommand(commands.PingCommand)
	exec.RegisterCommand(commands.StatusCommand)
	exec.RegisterCommand(commands.RandomCommand)

	return &Bot{
		Exec:     exec,
		Store:    store,
		Sessions: session.NewManager(s),
	}
}

func (b *Bot) HandleMessageCreate(c *gateway.MessageCreateEvent) {
	if c.Author.ID == b.Me {
		return
	}

	config.ConfigMutex.Lock()
	allowBots := config.Config.AllowBots
	prefix := config.Config.Prefix
	config.ConfigMutex.Unlock()

	if c.Author.Bot && !allowBots {
		return
	}

	if !config.ChannelAllowed(c.ChannelID) {
		return
	}

	if !config.UserAllowed(c.Author.ID) {
		return
	}

	// A reply that mentions the bot is an image-edit request; a prefixed
	// message is a command.
	if c.Reference != nil && b.mentioned(&c.Message) {
		b.handleEditRequest(c)
		return
	}

	if !strings.HasPrefix(strings.ToLower(c.Content), prefix) {
		return
	}

	args := strings.ReplaceAll(strings.TrimSpace(c.Content[len(prefix):]), "\n", " ")
	if args == "" {
		args = "?"
	}

	name := strings.ToLower(strings.Split(args, " ")[0])
	rest := strings.TrimSpace(args[len(name):])

	cmdctx := &command.CommandContext{
		Executor:         b.Exec,
		Message:          &c.Message,
		CalledWithPrefix: prefix,
		CalledWithAlias:  name,
		Args:             rest,
	}

	if err := b.Exec.RunCommand(name, cmdctx); err != nil {
		if err == command.ErrCommandNotFound {
			return
		}

		log.Printf("Command %q failed: %v", name, err)
		_, _ = cmdctx.TryReply("**Error:** %v", err)
	}
}

func (b *Bot) mentioned(m *discord.Message) bool {
	for _, u := range m.Mentions {
		if u.ID == b.Me {
			return true
		}
	}

	return false
}

// stripMentions removes every user mention from content, leaving just the
// prompt text.
func stripMentions(m *discord.Message) string {
	content := m.Content
	for _, u := range m.Mentions {
		content = strings.ReplaceAll(content, "<@"+u.ID.String()+">", "")
		content = strings.ReplaceAll(content, "<@!"+u.ID.String()+">", "")
	}

	return strings.TrimSpace(content)
}
