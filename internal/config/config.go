package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BackendConfig locates the voice agent backend.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	VoiceID string `yaml:"voice_id"`
}

// RecordingConfig controls microphone capture and the automatic turn loop.
type RecordingConfig struct {
	// Command is the external recorder invocation; it must write container
	// bytes to stdout and stop cleanly on SIGINT.
	Command        string `yaml:"command"`
	AutoDurationMS int    `yaml:"auto_duration_ms"`
	RearmDelayMS   int    `yaml:"rearm_delay_ms"`
	// Extension is the container suffix archived recordings must carry.
	Extension string `yaml:"extension"`
}

// PlaybackConfig controls reply audio playback and the local voice fallback.
type PlaybackConfig struct {
	Command      string `yaml:"command"`
	SpeakCommand string `yaml:"speak_command"`
}

// Config holds client configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Backend   BackendConfig   `yaml:"backend"`
	Recording RecordingConfig `yaml:"recording"`
	Playback  PlaybackConfig  `yaml:"playback"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Backend: BackendConfig{
			BaseURL: "http://127.0.0.1:8000",
			VoiceID: "en-AU-joyce",
		},
		Recording: RecordingConfig{
			Command:        "ffmpeg -loglevel error -f pulse -i default -f webm -",
			AutoDurationMS: 5000,
			RearmDelayMS:   300,
			Extension:      ".webm",
		},
		Playback: PlaybackConfig{
			Command:      "ffplay -loglevel error -nodisp -autoexit",
			SpeakCommand: "espeak",
		},
	}
}

// Load reads an optional YAML file, then applies environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.LogLevel, "VOXCHAT_LOG_LEVEL")
	overrideString(&cfg.Backend.BaseURL, "VOXCHAT_BACKEND_BASE_URL")
	overrideString(&cfg.Backend.VoiceID, "VOXCHAT_BACKEND_VOICE_ID")
	overrideString(&cfg.Recording.Command, "VOXCHAT_RECORDING_COMMAND")
	overrideInt(&cfg.Recording.AutoDurationMS, "VOXCHAT_RECORDING_AUTO_DURATION_MS")
	overrideInt(&cfg.Recording.RearmDelayMS, "VOXCHAT_RECORDING_REARM_DELAY_MS")
	overrideString(&cfg.Recording.Extension, "VOXCHAT_RECORDING_EXTENSION")
	overrideString(&cfg.Playback.Command, "VOXCHAT_PLAYBACK_COMMAND")
	overrideString(&cfg.Playback.SpeakCommand, "VOXCHAT_PLAYBACK_SPEAK_COMMAND")
}

func overrideString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("config: ignoring %s=%q: %v", key, v, err)
			return
		}
		*target = n
	}
}

func validate(cfg Config) error {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend base_url %q is not a valid URL", cfg.Backend.BaseURL)
	}
	if cfg.Recording.AutoDurationMS <= 0 {
		return fmt.Errorf("recording auto_duration_ms must be positive, got %d", cfg.Recording.AutoDurationMS)
	}
	if cfg.Recording.RearmDelayMS < 0 {
		return fmt.Errorf("recording rearm_delay_ms must not be negative, got %d", cfg.Recording.RearmDelayMS)
	}
	if !strings.HasPrefix(cfg.Recording.Extension, ".") {
		return fmt.Errorf("recording extension %q must start with a dot", cfg.Recording.Extension)
	}
	if strings.TrimSpace(cfg.Recording.Command) == "" {
		return fmt.Errorf("recording command must not be empty")
	}
	if strings.TrimSpace(cfg.Playback.Command) == "" {
		return fmt.Errorf("playback command must not be empty")
	}
	return nil
}
