package session

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

// Messenger is the slice of the Discord client a Session needs: editing
// the one message it owns. *state.State satisfies it.
type Messenger interface {
	EditMessageComplex(channelID discord.ChannelID, messageID discord.MessageID, data api.EditMessageData) (*discord.Message, error)
}
