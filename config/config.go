package config

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type UsersList struct {
	WhitelistMode bool
	List          []string
}

type configStruct struct {
	BotToken   string
	ChannelIds []string
	AllowBots  bool
	Prefix     string

	ReplicateToken string
	ReplicateURL   string
	FluxModel      string

	ImagesFolder  string
	MaxFileSizeMB uint
	OutputFormat  string

	InteractiveTimeout uint

	ImageHostBind string
	ImageHostUrl  string

	UsersList UsersList
}

var Config = configStruct{}
var ConfigMutex = sync.Mutex{}
var allowedChannelIds []discord.ChannelID

func init() {
	// .env first so AutomaticEnv can see it.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AutomaticEnv()

	// Tokens have no default; bind them so env-only values still
	// survive Unmarshal.
	viper.MustBindEnv("BotToken")
	viper.MustBindEnv("ReplicateToken")

	viper.SetDefault("Prefix", "!")
	viper.SetDefault("ChannelIds", []string{})
	viper.SetDefault("AllowBots", false)

	viper.SetDefault("ReplicateURL", "https://api.replicate.com")
	viper.SetDefault("FluxModel", "black-forest-labs/flux-kontext-max")

	viper.SetDefault("ImagesFolder", "./images")
	viper.SetDefault("MaxFileSizeMB", 25)
	viper.SetDefault("OutputFormat", "jpg")

	viper.SetDefault("InteractiveTimeout", 1800)

	viper.SetDefault("ImageHostBind", "")
	viper.SetDefault("ImageHostUrl", "")

	viper.SetDefault("UsersList.WhitelistMode", false)
	viper.SetDefault("UsersList.List", []string{})

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Unable to open config file: %v\n", err)
		}
	} else {
		if err := viper.WriteConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				log.Fatalf("Unable to write to config file: %v\n", err)
			}
		}
	}

	err := viper.Unmarshal(&Config)
	if err != nil {
		log.Fatalf("Unable to decode config: %v\n", err)
	}

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := configStruct{}
		err := viper.Unmarshal(&newConfig)
		if err == nil {
			ConfigMutex.Lock()
			Config = newConfig
			allowedChannelIds = nil
			ConfigMutex.Unlock()
			log.Println("Successfully updated config")
		}
	})
}

func getAllowedChannelIds() []discord.ChannelID {
	ConfigMutex.Lock()
	defer ConfigMutex.Unlock()

	if allowedChannelIds != nil {
		return allowedChannelIds
	}

	allowedChannelIds = []discord.ChannelID{}
	for _, raw := range Config.ChannelIds {
		i, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			log.Fatalln("Invalid channel ID in config:", raw)
		}

		allowedChannelIds = append(allowedChannelIds, discord.ChannelID(i))
	}

	return allowedChannelIds
}

// ChannelAllowed reports whether the bot should respond in the given
// channel. An empty ChannelIds list allows every channel.
func ChannelAllowed(id discord.ChannelID) bool {
	allowed := getAllowedChannelIds()
	if len(allowed) == 0 {
		return true
	}

	for _, c := range allowed {
		if c == id {
			return true
		}
	}

	return false
}

func UserAllowed(id discord.UserID) bool {
	ConfigMutex.Lock()
	defer ConfigMutex.Unlock()

	for _, v := range Config.UsersList.List {
		if v == id.String() {
			return Config.UsersList.WhitelistMode
		}
	}

	return !Config.UsersList.WhitelistMode
}

func InteractiveTimeout() time.Duration {
	ConfigMutex.Lock()
	defer ConfigMutex.Unlock()

	return time.Duration(Config.InteractiveTimeout) * time.Second
}

func MaxFileSize() int64 {
	ConfigMutex.Lock()
	defer ConfigMutex.Unlock()

	return int64(Config.MaxFileSizeMB) * 1024 * 1024
}
