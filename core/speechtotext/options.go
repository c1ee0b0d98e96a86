package speechtotext

import (
	"errors"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio"
)

// ErrAlreadyActive is returned by Start when the session is already running.
// Callers are expected to treat it as benign.
var ErrAlreadyActive = errors.New("recognition session already active")

// ErrorKind classifies a session error reported through ErrorCallback.
type ErrorKind string

const (
	ErrorKindNetwork      ErrorKind = "network"
	ErrorKindNoSpeech     ErrorKind = "no-speech"
	ErrorKindAborted      ErrorKind = "aborted"
	ErrorKindAudioCapture ErrorKind = "audio-capture"
	ErrorKindNotAllowed   ErrorKind = "not-allowed"
	ErrorKindProtocol     ErrorKind = "protocol"
)

type RecognitionOptions struct {
	// StartCallback is called once the session is actively listening.
	StartCallback func()
	// EndCallback is called exactly once per started session, after Stop or
	// after the session terminates on its own.
	EndCallback func()
	// ErrorCallback is called when the session fails; EndCallback follows.
	ErrorCallback func(kind ErrorKind)
	// ResultCallback receives transcripts. Interim results are only
	// delivered when InterimResults is set.
	ResultCallback func(transcript string, isFinal bool)

	Lang           string
	InterimResults bool

	EncodingInfo audio.EncodingInfo
}

type RecognitionOption func(*RecognitionOptions)

func NewRecognitionOptions(opts ...RecognitionOption) RecognitionOptions {
	options := RecognitionOptions{
		StartCallback:  func() {},
		EndCallback:    func() {},
		ErrorCallback:  func(ErrorKind) {},
		ResultCallback: func(string, bool) {},
		Lang:           "en-US",
		EncodingInfo:   audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithStartCallback(callback func()) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.StartCallback = callback
		}
	}
}

func WithEndCallback(callback func()) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.EndCallback = callback
		}
	}
}

func WithErrorCallback(callback func(kind ErrorKind)) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.ErrorCallback = callback
		}
	}
}

func WithResultCallback(callback func(transcript string, isFinal bool)) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.ResultCallback = callback
		}
	}
}

func WithLang(lang string) RecognitionOption {
	return func(o *RecognitionOptions) {
		if lang != "" {
			o.Lang = lang
		}
	}
}

func WithInterimResults(interimResults bool) RecognitionOption {
	return func(o *RecognitionOptions) { o.InterimResults = interimResults }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) RecognitionOption {
	return func(o *RecognitionOptions) {
		if !encodingInfo.IsZero() {
			o.EncodingInfo = encodingInfo
		}
	}
}
