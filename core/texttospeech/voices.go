package texttospeech

import "strings"

// DefaultVoicePreferences prefers an Indian English voice, then any English
// voice.
var DefaultVoicePreferences = []string{"en-IN", "en*"}

// SelectVoice returns the first voice matching the preferences, tried in
// order. A preference ending in "*" matches any language with that prefix,
// otherwise the language must match exactly (case-insensitively). It returns
// nil when nothing matches.
func SelectVoice(voices []Voice, prefs ...string) *Voice {
	if len(prefs) == 0 {
		prefs = DefaultVoicePreferences
	}

	for _, pref := range prefs {
		for i := range voices {
			if matchesLang(voices[i].Lang, pref) {
				voice := voices[i]
				return &voice
			}
		}
	}
	return nil
}

func matchesLang(lang, pref string) bool {
	if prefix, ok := strings.CutSuffix(pref, "*"); ok {
		return strings.HasPrefix(strings.ToLower(lang), strings.ToLower(prefix))
	}
	return strings.EqualFold(lang, pref)
}
