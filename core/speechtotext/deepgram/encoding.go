package deepgram

import (
	"errors"
	"fmt"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio"
)

var (
	errUnsupportedSampleRate = errors.New("unsupported sample rate")
	errUnsupportedEncoding   = errors.New("unsupported encoding")
)

type encodingInfo struct {
	SampleRate int
	Format     string
}

func convertEncoding(encoding audio.EncodingInfo) (*encodingInfo, error) {
	converted := encodingInfo{}
	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
		converted.SampleRate = encoding.SampleRate
	default:
		return nil, fmt.Errorf("%w: %d", errUnsupportedSampleRate, encoding.SampleRate)
	}

	switch encoding.Format {
	case audio.EncodingLinear16:
	case audio.EncodingALaw, audio.EncodingMulaw:
		if converted.SampleRate != 8000 {
			return nil, fmt.Errorf("%w: %s requires 8000 Hz", errUnsupportedSampleRate, encoding.Format.Name())
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedEncoding, encoding.Format.Name())
	}
	converted.Format = encoding.Format.Name()

	return &converted, nil
}
