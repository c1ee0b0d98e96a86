package deepgram

import "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"

const defaultVoice = "aura-2-thalia-en"

var availableVoices = []texttospeech.Voice{
	{Name: "aura-2-thalia-en", Lang: "en-US"},
	{Name: "aura-2-andromeda-en", Lang: "en-US"},
	{Name: "aura-2-helena-en", Lang: "en-US"},
	{Name: "aura-2-apollo-en", Lang: "en-US"},
	{Name: "aura-2-arcas-en", Lang: "en-US"},
	{Name: "aura-2-aries-en", Lang: "en-US"},
	{Name: "aura-2-draco-en", Lang: "en-GB"},
	{Name: "aura-2-pandora-en", Lang: "en-GB"},
	{Name: "aura-2-hyperion-en", Lang: "en-AU"},
	{Name: "aura-2-theia-en", Lang: "en-AU"},
	{Name: "aura-2-celeste-es", Lang: "es-CO"},
	{Name: "aura-2-estrella-es", Lang: "es-MX"},
	{Name: "aura-2-nestor-es", Lang: "es-ES"},
}

// Voices lists the Aura voices the synthesizer can speak with.
func (s *Synthesizer) Voices() []texttospeech.Voice {
	return append([]texttospeech.Voice(nil), availableVoices...)
}

func voiceModel(utterance texttospeech.Utterance) string {
	if utterance.Voice != nil && utterance.Voice.Name != "" {
		return utterance.Voice.Name
	}
	return defaultVoice
}
