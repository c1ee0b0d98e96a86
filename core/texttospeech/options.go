package texttospeech

import (
	"context"

	"github.com/google/uuid"
)

// Voice is a synthesizer voice identified by name and BCP 47 language tag.
type Voice struct {
	Name string
	Lang string
}

// Utterance is one unit of synthesized speech with its delivery parameters.
type Utterance struct {
	ID    string
	Text  string
	Lang  string
	Voice *Voice

	Rate   float64
	Pitch  float64
	Volume float64
}

// UtteranceConfig holds the delivery parameters shared by every utterance.
type UtteranceConfig struct {
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64
}

func DefaultUtteranceConfig() UtteranceConfig {
	return UtteranceConfig{
		Lang:   "en-IN",
		Rate:   1.5,
		Pitch:  0.2,
		Volume: 1.2,
	}
}

// NewUtterance builds an utterance with a fresh ID.
func NewUtterance(text string, config UtteranceConfig, voice *Voice) Utterance {
	return Utterance{
		ID:     uuid.NewString(),
		Text:   text,
		Lang:   config.Lang,
		Voice:  voice,
		Rate:   config.Rate,
		Pitch:  config.Pitch,
		Volume: config.Volume,
	}
}

type SpeakOptions struct {
	// UtteranceEndCallback is called once the utterance has been fully played.
	// It is not called for an utterance that was cancelled.
	UtteranceEndCallback func(Utterance)
	// ErrorCallback is called when synthesis fails after Speak has returned.
	ErrorCallback func(Utterance, error)
}

type SpeakOption func(*SpeakOptions)

func NewSpeakOptions(opts ...SpeakOption) SpeakOptions {
	options := SpeakOptions{
		UtteranceEndCallback: func(Utterance) {},
		ErrorCallback:        func(Utterance, error) {},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithUtteranceEndCallback(callback func(Utterance)) SpeakOption {
	return func(o *SpeakOptions) {
		if callback != nil {
			o.UtteranceEndCallback = callback
		}
	}
}

func WithErrorCallback(callback func(Utterance, error)) SpeakOption {
	return func(o *SpeakOptions) {
		if callback != nil {
			o.ErrorCallback = callback
		}
	}
}

type Synthesizer interface {
	// Speak starts playing the utterance, cancelling any utterance already in
	// progress.
	Speak(ctx context.Context, utterance Utterance, opts ...SpeakOption) error
	// Cancel stops the active utterance. Its end callback will not fire.
	//
	// Repeated calls to Cancel are ignored.
	Cancel() error
	IsBusy() bool
}

// VoiceLister is implemented by synthesizers that can enumerate their voices.
type VoiceLister interface {
	Voices() []Voice
}
