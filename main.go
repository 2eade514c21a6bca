package main

import (
	"context"
	"log"

	"github.com/Zetic/zpt/bot"
	"github.com/Zetic/zpt/config"
	"github.com/Zetic/zpt/imagestore"
	"github.com/Zetic/zpt/webserver"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
)

func main() {
	config.ConfigMutex.Lock()
	botToken := config.Config.BotToken
	replicateToken := config.Config.ReplicateToken
	imagesFolder := config.Config.ImagesFolder
	imageHostBind := config.Config.ImageHostBind
	channelCount := len(config.Config.ChannelIds)
	config.ConfigMutex.Unlock()

	if botToken == "" {
		log.Fatalln("Missing bot token!")
	}

	if replicateToken == "" {
		log.Fatalln("Missing Replicate API token!")
	}

	if channelCount == 0 {
		log.Println("No channel IDs configured, will respond in all channels!")
	}

	store, err := imagestore.New(imagesFolder)
	if err != nil {
		log.Fatalln("Failed to create image folders:", err)
	}

	s := state.New("Bot " + botToken)
	b := bot.New(s, store)

	s.AddHandler(b.HandleMessageCreate)
	s.AddHandler(b.HandleInteractionCreate)
	s.AddIntents(gateway.IntentGuildMessages)
	s.AddIntents(gateway.IntentMessageContent)

	self, err := s.Me()
	if err != nil {
		log.Fatalln("Identity crisis:", err)
	}

	b.Me = self.ID

	if err := s.Open(context.Background()); err != nil {
		log.Fatalln("Failed to connect:", err)
	}
	defer s.Close()

	log.Println("Started as", self.Username)

	if imageHostBind != "" {
		go func() {
			if err := webserver.Serve(imageHostBind, store); err != nil {
				log.Fatalln("Failed to start webserver:", err)
			}
		}()
	}

	select {}
}
