package deepgram

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech/deepgram"

var logger = otelslog.NewLogger(scopeName)
