package bot

import (
	"log"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
)

// HandleInteractionCreate routes button presses back to the session that
// owns the message they were pressed on. Presses on finalized or unknown
// sessions are acknowledged silently so Discord does not show a failure.
func (b *Bot) HandleInteractionCreate(e *gateway.InteractionCreateEvent) {
	data, ok := e.Data.(*discord.ButtonInteraction)
	if !ok || e.Message == nil {
		return
	}

	sess, ok := b.Sessions.Get(e.Message.ID)
	if !ok {
		b.ackSilently(e)
		return
	}

	var requester discord.UserID
	if e.Member != nil {
		requester = e.Member.User.ID
	} else if e.User != nil {
		requester = e.User.ID
	}

	reply, ok := sess.HandleControl(data.CustomID, requester)
	if !ok || reply == "" {
		b.ackSilently(e)
		return
	}

	err := b.Exec.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &api.InteractionResponseData{
			Content: option.NewNullableString(reply),
			Flags:   discord.EphemeralMessage,
		},
	})
	if err != nil {
		log.Println("Could not respond to interaction:", err)
	}
}

func (b *Bot) ackSilently(e *gateway.InteractionCreateEvent) {
	err := b.Exec.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.DeferredMessageUpdate,
	})
	if err != nil {
		log.Println("Could not acknowledge interaction:", err)
	}
}
