// jarvis is a voice assistant for the terminal.
//
// It listens for its name, sends what was said to a reasoner, speaks the
// answer and opens whatever page the answer asks for.
//
// Usage:
//
//	jarvis run                      # Start listening
//	jarvis run --reasoner groq      # Reason with Groq instead of the account backend
//	jarvis voices                   # List the available synthesizer voices
//	jarvis logout                   # End the account session
//
// Configuration is read from ~/.jarvis/config.yaml and JARVIS_* variables.
package main

import (
	"os"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/cmd/jarvis/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
