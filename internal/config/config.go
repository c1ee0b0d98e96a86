// Package config loads the jarvis command line configuration from a YAML
// file, JARVIS_* environment variables and flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ReasonerAssistant = "assistant"
	ReasonerGroq      = "groq"
	ReasonerGemini    = "gemini"

	AudioMiniaudio = "miniaudio"
	AudioPortaudio = "portaudio"
)

var (
	reasonerBackends = []string{ReasonerAssistant, ReasonerGroq, ReasonerGemini}
	audioBackends    = []string{AudioMiniaudio, AudioPortaudio}
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Reasoner  ReasonerConfig  `mapstructure:"reasoner"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Keys      KeysConfig      `mapstructure:"keys"`
}

type ServerConfig struct {
	URL string `mapstructure:"url"`
	// SessionToken is the account backend's "token" cookie of a logged in
	// session.
	SessionToken string `mapstructure:"session_token"`
}

type AssistantConfig struct {
	// Name and UserName are used when the backend has no logged in user.
	Name       string `mapstructure:"name"`
	UserName   string `mapstructure:"user_name"`
	WakePhrase string `mapstructure:"wake_phrase"`
}

type ReasonerConfig struct {
	Backend string `mapstructure:"backend"`
	Model   string `mapstructure:"model"`
}

type SpeechConfig struct {
	RecognitionLang  string        `mapstructure:"recognition_lang"`
	Lang             string        `mapstructure:"lang"`
	Rate             float64       `mapstructure:"rate"`
	Pitch            float64       `mapstructure:"pitch"`
	Volume           float64       `mapstructure:"volume"`
	VoicePreferences []string      `mapstructure:"voice_preferences"`
	RestartDelay     time.Duration `mapstructure:"restart_delay"`
}

type AudioConfig struct {
	Backend string `mapstructure:"backend"`
}

type KeysConfig struct {
	Deepgram string `mapstructure:"deepgram"`
	Groq     string `mapstructure:"groq"`
	Gemini   string `mapstructure:"gemini"`
}

var defaults = map[string]any{
	"server.url":               "http://localhost:8000",
	"server.session_token":    "",
	"assistant.name":           "Jarvis",
	"assistant.user_name":      "",
	"assistant.wake_phrase":    "",
	"reasoner.backend":         ReasonerAssistant,
	"reasoner.model":           "",
	"speech.recognition_lang":  "en-US",
	"speech.lang":              "en-IN",
	"speech.rate":              1.5,
	"speech.pitch":             0.2,
	"speech.volume":            1.2,
	"speech.voice_preferences": []string{"en-IN", "en*"},
	"speech.restart_delay":     1000 * time.Millisecond,
	"audio.backend":            AudioMiniaudio,
	"keys.deepgram":            "",
	"keys.groq":                "",
	"keys.gemini":              "",
}

// secretEnv lists the conventional variable names accepted for secrets next
// to their JARVIS_* form.
var secretEnv = map[string]string{
	"keys.deepgram": "DEEPGRAM_API_KEY",
	"keys.groq":     "GROQ_API_KEY",
	"keys.gemini":   "GEMINI_API_KEY",

	"server.session_token": "JARVIS_SESSION_TOKEN",
}

// flagKeys maps the flags registered by RegisterFlags to config keys.
var flagKeys = map[string]string{
	"server":        "server.url",
	"name":          "assistant.name",
	"wake-phrase":   "assistant.wake_phrase",
	"reasoner":      "reasoner.backend",
	"model":         "reasoner.model",
	"audio":         "audio.backend",
	"restart-delay": "speech.restart_delay",
}

func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default $HOME/.jarvis/config.yaml)")
	flags.String("server", "", "account backend URL")
	flags.String("name", "", "assistant name, used when no user is logged in")
	flags.String("wake-phrase", "", "phrase that wakes the assistant (defaults to its name)")
	flags.String("reasoner", "", "reasoner backend: "+strings.Join(reasonerBackends, ", "))
	flags.String("model", "", "model used by the groq and gemini reasoners")
	flags.String("audio", "", "audio backend: "+strings.Join(audioBackends, ", "))
	flags.Duration("restart-delay", 0, "delay before recognition restarts after it stops on its own")
}

type loadOptions struct {
	path      string
	searchDir string
	flags     *pflag.FlagSet
}

type LoadOption func(*loadOptions)

// WithFile reads the config from path. A missing file is an error.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithSearchDir looks for an optional config.yaml in dir.
func WithSearchDir(dir string) LoadOption {
	return func(o *loadOptions) { o.searchDir = dir }
}

// WithFlags applies the flags registered by RegisterFlags that were set.
func WithFlags(flags *pflag.FlagSet) LoadOption {
	return func(o *loadOptions) { o.flags = flags }
}

func Load(fsys afero.Fs, opts ...LoadOption) (*Config, error) {
	options := loadOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	v := viper.New()
	v.SetFs(fsys)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("JARVIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range secretEnv {
		envKey := "JARVIS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, name); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}

	if options.flags != nil {
		for flagName, key := range flagKeys {
			flag := options.flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}
	}

	if err := readConfigFile(v, fsys, options); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, fsys afero.Fs, options loadOptions) error {
	switch {
	case options.path != "":
		v.SetConfigFile(options.path)
	case options.searchDir != "":
		if exists, _ := afero.Exists(fsys, options.searchDir); !exists {
			return nil
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(options.searchDir)
	default:
		return nil
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && options.path == "" {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist: %w", options.path, err)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Validate checks the backends are known and have the keys they need.
func (c *Config) Validate() error {
	if !slices.Contains(reasonerBackends, c.Reasoner.Backend) {
		return fmt.Errorf("%w: unknown reasoner backend %q", ErrInvalidConfig, c.Reasoner.Backend)
	}
	if !slices.Contains(audioBackends, c.Audio.Backend) {
		return fmt.Errorf("%w: unknown audio backend %q", ErrInvalidConfig, c.Audio.Backend)
	}
	if c.Speech.RestartDelay < 0 {
		return fmt.Errorf("%w: negative restart delay", ErrInvalidConfig)
	}

	switch c.Reasoner.Backend {
	case ReasonerGroq:
		if c.Keys.Groq == "" {
			return fmt.Errorf("%w: GROQ_API_KEY is required for the groq reasoner", ErrInvalidConfig)
		}
	case ReasonerGemini:
		if c.Keys.Gemini == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for the gemini reasoner", ErrInvalidConfig)
		}
	}
	return nil
}

// RequireDeepgram reports an error when no Deepgram key is configured.
func (c *Config) RequireDeepgram() error {
	if c.Keys.Deepgram == "" {
		return fmt.Errorf("%w: DEEPGRAM_API_KEY is required", ErrInvalidConfig)
	}
	return nil
}
