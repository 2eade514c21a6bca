package session

import (
	"bytes"
	"fmt"
	"log"

	"github.com/Zetic/zpt/utils"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/sendpart"
)

// EmbedLimit is Discord's per-message embed cap.
const EmbedLimit = 10

// PromptPreviewLength caps how much of a prompt is shown in an embed
// description.
const PromptPreviewLength = 100

const TimeoutBanner = "🕒 Timed out! Here are all your output images."

const (
	ControlProcess discord.ComponentID = "zpt_process"
	ControlOutputs discord.ComponentID = "zpt_outputs"
)

// RenderResult is everything needed to replace the session's message in
// place: text, embeds, file attachments, and the control row (nil once
// the session is finalized).
type RenderResult struct {
	Content    string
	Embeds     []discord.Embed
	Files      []sendpart.File
	Components discord.ContainerComponents
}

func Controls(disabled bool) discord.ContainerComponents {
	return discord.ContainerComponents{
		&discord.ActionRowComponent{
			&discord.ButtonComponent{
				CustomID: ControlProcess,
				Label:    "Edit Again",
				Style:    discord.PrimaryButtonStyle(),
				Disabled: disabled,
			},
			&discord.ButtonComponent{
				CustomID: ControlOutputs,
				Label:    "Show Outputs",
				Style:    discord.SecondaryButtonStyle(),
				Disabled: disabled,
			},
		},
	}
}

// Render turns the accumulated outputs into the message content for the
// session. It is deterministic and touches nothing but the records'
// image caches; applying the result to Discord is the caller's job.
//
// A record that fails to decode is skipped so the rest still render. On
// the finalized path no components are ever returned.
func Render(outputs []*OutputRecord, finalized bool) RenderResult {
	var res RenderResult
	if finalized {
		res.Content = TimeoutBanner
	} else {
		res.Components = Controls(false)
	}

	if len(outputs) == 0 {
		res.Embeds = []discord.Embed{{
			Title:       "No Outputs",
			Description: "No output images were generated during this session.",
		}}
		return res
	}

	shown := outputs
	if len(outputs) > EmbedLimit {
		shown = outputs[:EmbedLimit]
		res.Embeds = append(res.Embeds, discord.Embed{
			Title: "Additional Outputs",
			Description: fmt.Sprintf("%d more output image(s) were generated but exceed the %d embed limit.",
				len(outputs)-EmbedLimit, EmbedLimit),
		})
	}

	total := len(outputs)
	for i, output := range shown {
		data, err := output.EncodePNG()
		if err != nil {
			log.Printf("Skipping output %q in render: %v", output.DisplayFilename, err)
			continue
		}

		title := fmt.Sprintf("Output %d/%d", i+1, total)
		if finalized {
			title = fmt.Sprintf("Final Output %d/%d (Timed Out)", i+1, total)
		}

		res.Embeds = append(res.Embeds, discord.Embed{
			Title:       title,
			Description: utils.EllipsisText(output.Prompt, PromptPreviewLength),
			Image: &discord.EmbedImage{
				URL: "attachment://" + output.DisplayFilename,
			},
		})
		res.Files = append(res.Files, sendpart.File{
			Name:   output.DisplayFilename,
			Reader: bytes.NewReader(data),
		})
	}

	return res
}
