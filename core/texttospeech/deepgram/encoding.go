package deepgram

import (
	"errors"
	"fmt"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio"
)

var errUnsupportedEncoding = errors.New("unsupported encoding")

type encodingInfo struct {
	SampleRate int
	Format     string
}

func convertEncoding(encoding audio.EncodingInfo) (*encodingInfo, error) {
	switch encoding.Format {
	case audio.EncodingLinear16:
		switch encoding.SampleRate {
		case 8000, 16000, 24000, 32000, 48000:
		default:
			return nil, fmt.Errorf("%w: linear16 at %d Hz", errUnsupportedEncoding, encoding.SampleRate)
		}
	case audio.EncodingMulaw, audio.EncodingALaw:
		switch encoding.SampleRate {
		case 8000, 16000:
		default:
			return nil, fmt.Errorf("%w: %s at %d Hz", errUnsupportedEncoding, encoding.Format.Name(), encoding.SampleRate)
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedEncoding, encoding.Format.Name())
	}

	return &encodingInfo{SampleRate: encoding.SampleRate, Format: encoding.Format.Name()}, nil
}
