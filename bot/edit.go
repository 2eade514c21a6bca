package bot

import (
	"bytes"
	"encoding/base64"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zetic/zpt/config"
	"github.com/Zetic/zpt/fluxapi"
	"github.com/Zetic/zpt/imagestore"
	"github.com/Zetic/zpt/session"
	"github.com/Zetic/zpt/utils"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/diamondburned/arikawa/v3/utils/sendpart"
)

const interactiveKeyword = "interactive"

func (b *Bot) handleEditRequest(c *gateway.MessageCreateEvent) {
	referenced := c.ReferencedMessage
	if referenced == nil {
		var err error
		referenced, err = b.Exec.Message(c.ChannelID, c.Reference.MessageID)
		if err != nil {
			log.Println("Could not fetch the replied-to message:", err)
			b.reply(c, "Could not find the message you replied to.")
			return
		}
	}

	var attachment *discord.Attachment
	for i, att := range referenced.Attachments {
		if strings.HasPrefix(att.ContentType, "image/") {
			attachment = &referenced.Attachments[i]
			break
		}
	}

	if attachment == nil {
		b.reply(c, "I need an image to modify. Please reply to a message that contains an image.")
		return
	}

	prompt := stripMentions(&c.Message)
	interactive := false
	if lower := strings.ToLower(prompt); lower == interactiveKeyword || strings.HasPrefix(lower, interactiveKeyword+" ") {
		interactive = true
		prompt = strings.TrimSpace(prompt[len(interactiveKeyword):])
	}

	if prompt == "" {
		b.reply(c, "Please provide a description of how you want to modify the image.")
		return
	}

	prompt = utils.TruncateText(prompt, 512)

	var sess *session.Session
	var processing *discord.Message
	var err error
	if interactive {
		processing, err = b.Exec.SendMessageComplex(c.ChannelID, api.SendMessageData{
			Content:    "Processing your image modification request...",
			Components: session.Controls(false),
			Reference:  &discord.MessageReference{MessageID: c.ID},
		})
		if err != nil {
			log.Println("Could not send session message:", err)
			return
		}

		sess = b.Sessions.Create(c.ChannelID, processing.ID, config.InteractiveTimeout())
		if !sess.TryBeginProcessing() {
			return
		}
		defer sess.EndProcessing()
	} else {
		processing, err = b.Exec.SendMessageReply(c.ChannelID, "Processing your image modification request...", c.ID)
		if err != nil {
			processing, err = b.Exec.SendMessage(c.ChannelID, "Processing your image modification request...")
		}
		if err != nil {
			log.Println("Could not send processing message:", err)
			return
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(attachment.Filename), ".")
	inputName := imagestore.InputFilename(attachment.URL, ext)
	inputPath, err := b.Store.DownloadInput(attachment.URL, inputName, config.MaxFileSize())
	if err != nil {
		log.Println("Could not download input image:", err)
		b.editText(processing, "Failed to download the image. Please try again.")
		return
	}

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		log.Println("Could not read input image back:", err)
		b.editText(processing, "Failed to download the image. Please try again.")
		return
	}

	dataURI := "data:" + attachment.ContentType + ";base64," + base64.StdEncoding.EncodeToString(inputData)

	result, err := fluxapi.Edit(prompt, dataURI)
	if err != nil {
		log.Println("Could not query the image model:", err)
		b.editText(processing, "Failed to modify the image. Please try again later.")
		return
	}

	switch result.Kind {
	case fluxapi.ResultError:
		log.Println("Image model returned an error:", result.Reason)
		b.editText(processing, "Failed to modify the image. Please try again later.")
		return
	case fluxapi.ResultEmpty:
		b.editText(processing, "The model returned no output. Please try again later.")
		return
	}

	outputData, err := fluxapi.Download(result.URL)
	if err != nil {
		log.Println("Could not download the generated image:", err)
		b.editText(processing, "Failed to modify the image. Please try again later.")
		return
	}

	config.ConfigMutex.Lock()
	outputFormat := config.Config.OutputFormat
	config.ConfigMutex.Unlock()

	outputName := imagestore.OutputFilename(prompt, outputFormat)
	outputPath, err := b.Store.SaveOutput(outputName, outputData)
	if err != nil {
		log.Println("Could not save the generated image:", err)
		b.editText(processing, "Failed to modify the image. Please try again later.")
		return
	}

	if interactive {
		// The session message is only re-rendered on finalization; a
		// generation finishing after the idle timeout is dropped.
		rec := session.NewOutputRecord(outputPath, prompt, outputName)
		if err := sess.AppendOutput(rec); err != nil {
			log.Println("Dropping output for finalized session:", err)
		}
		return
	}

	_, err = b.Exec.EditMessageComplex(processing.ChannelID, processing.ID, api.EditMessageData{
		Content: option.NewNullableString("Here's your modified image with prompt: '" + prompt + "'"),
		Files: []sendpart.File{{
			Name:   "modified_" + attachment.Filename,
			Reader: bytes.NewReader(outputData),
		}},
	})
	if err != nil {
		log.Println("Could not deliver the modified image:", err)
		b.editText(processing, "Failed to upload the modified image.")
	}
}

func (b *Bot) reply(c *gateway.MessageCreateEvent, content string) {
	_, err := b.Exec.SendMessageReply(c.ChannelID, content, c.ID)
	if err != nil {
		_, err = b.Exec.SendMessage(c.ChannelID, content)
	}
	if err != nil {
		log.Println("Could not send reply:", err)
	}
}

func (b *Bot) editText(msg *discord.Message, content string) {
	if _, err := b.Exec.EditMessage(msg.ChannelID, msg.ID, content); err != nil {
		log.Println("Could not edit message:", err)
	}
}
