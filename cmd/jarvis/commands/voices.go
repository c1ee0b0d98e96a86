package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
	ttsdeepgram "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech/deepgram"
	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the synthesizer voices and the one that would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		voices := ttsdeepgram.NewSynthesizer(nil).Voices()
		selected := texttospeech.SelectVoice(voices, cfg.Speech.VoicePreferences...)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tLANG")
		for _, voice := range voices {
			marker := ""
			if selected != nil && selected.Name == voice.Name {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", marker, voice.Name, voice.Lang)
		}
		return w.Flush()
	},
}
