package portaudio

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio/portaudio"

var logger = otelslog.NewLogger(scopeName)
