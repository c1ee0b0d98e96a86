package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	orchestration "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio/miniaudio"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio/portaudio"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning/assistant"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning/gemini"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/reasoning/groq"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/session"
	sttdeepgram "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/speechtotext/deepgram"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
	ttsdeepgram "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech/deepgram"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

const portaudioBufferSize = 1024

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start listening",
	RunE:  runAssistant,
}

// audioDevice is both the microphone for recognition and the speaker for
// synthesis.
type audioDevice interface {
	sttdeepgram.AudioInput
	ttsdeepgram.AudioOutput
	Close()
}

func runAssistant(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireDeepgram(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	httpClient := session.NewHTTPClient()
	sessionClient := newSessionClient(cfg, httpClient)
	persona, err := loadPersona(ctx, cfg, sessionClient)
	if err != nil {
		return err
	}

	reasoner, err := newReasoner(ctx, cfg, httpClient, persona)
	if err != nil {
		return err
	}

	device, err := newAudioDevice(cfg)
	if err != nil {
		return err
	}
	defer device.Close()

	// the browser helper writes to the terminal the TUI owns
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	wakePhrase := cfg.Assistant.WakePhrase
	if wakePhrase == "" {
		wakePhrase = persona.AssistantName
	}
	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithRecognizer(sttdeepgram.NewRecognizer(device, sttdeepgram.WithAPIKey(cfg.Keys.Deepgram))),
		orchestration.WithRecognitionLang(cfg.Speech.RecognitionLang),
		orchestration.WithSynthesizer(ttsdeepgram.NewSynthesizer(device, ttsdeepgram.WithAPIKey(cfg.Keys.Deepgram))),
		orchestration.WithReasoner(reasoner),
		orchestration.WithAssistantName(persona.AssistantName),
		orchestration.WithWakePhrase(wakePhrase),
		orchestration.WithUserName(persona.UserName),
		orchestration.WithRestartDelay(cfg.Speech.RestartDelay),
		orchestration.WithUtteranceConfig(texttospeech.UtteranceConfig{
			Lang:   cfg.Speech.Lang,
			Rate:   cfg.Speech.Rate,
			Pitch:  cfg.Speech.Pitch,
			Volume: cfg.Speech.Volume,
		}),
		orchestration.WithVoicePreferences(cfg.Speech.VoicePreferences...),
	)

	history := []string{}
	if user, ok := sessionClient.Store().Current(); ok {
		history = user.History
	}
	model := newTUIModel(ctx, sessionClient, persona.AssistantName, history)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	orchestrator.Orchestrate(ctx, orchestration.WithEventCallback(func(event events.Event) {
		select {
		case model.events <- event:
		case <-model.done:
		}
	}))

	finalModel, err := program.Run()
	close(model.done)
	orchestrator.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run terminal ui: %w", err)
	}

	if final, ok := finalModel.(tuiModel); ok && final.loggedOut {
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out. Log in again to keep using jarvis.")
	}
	return nil
}

// newSessionClient returns the account client. The configured session token
// is set on httpClient, so the assistant reasoner sharing it is logged in too.
func newSessionClient(cfg *config.Config, httpClient *http.Client) *session.Client {
	return session.NewClient(cfg.Server.URL,
		session.WithHTTPClient(httpClient),
		session.WithSessionToken(cfg.Server.SessionToken),
	)
}

// loadPersona names the assistant and the user after the logged in account.
// Without an account only the assistant reasoner is unusable, the others fall
// back to the configured names.
func loadPersona(ctx context.Context, cfg *config.Config, client *session.Client) (reasoning.Persona, error) {
	persona := reasoning.Persona{
		AssistantName: cfg.Assistant.Name,
		UserName:      cfg.Assistant.UserName,
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		if cfg.Reasoner.Backend == config.ReasonerAssistant {
			return persona, fmt.Errorf("failed to load current user from %s: %w", cfg.Server.URL, err)
		}
		log.Printf("Warning: no account session, using configured names: %v", err)
		return persona, nil
	}

	if user.AssistantName != "" {
		persona.AssistantName = user.AssistantName
	}
	if user.Name != "" {
		persona.UserName = user.Name
	}
	return persona, nil
}

func newReasoner(ctx context.Context, cfg *config.Config, httpClient *http.Client, persona reasoning.Persona) (orchestration.Reasoner, error) {
	switch cfg.Reasoner.Backend {
	case config.ReasonerGroq:
		return groq.NewReasoner(cfg.Keys.Groq, groq.WithModel(cfg.Reasoner.Model), groq.WithPersona(persona)), nil
	case config.ReasonerGemini:
		reasoner, err := gemini.NewReasoner(ctx, cfg.Keys.Gemini, gemini.WithModel(cfg.Reasoner.Model), gemini.WithPersona(persona))
		if err != nil {
			return nil, err
		}
		return reasoner, nil
	default:
		return assistant.NewClient(cfg.Server.URL, assistant.WithHTTPClient(httpClient)), nil
	}
}

func newAudioDevice(cfg *config.Config) (audioDevice, error) {
	switch cfg.Audio.Backend {
	case config.AudioPortaudio:
		client, err := portaudio.NewClient(portaudioBufferSize)
		if err != nil {
			return nil, fmt.Errorf("failed to open portaudio device: %w", err)
		}
		return client, nil
	default:
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to open miniaudio device: %w", err)
		}
		return client, nil
	}
}
