package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio"
	"github.com/gordonklaus/portaudio"
)

// Client is a full-duplex PortAudio stream used as microphone for speech
// recognition and as speaker for synthesized speech.
type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte

	in  []int16
	out []int16

	captureCancel context.CancelFunc
	captureDone   chan struct{}

	// generation is bumped by ClearBuffer so pending marks of dropped audio
	// are never confirmed.
	generation int
	mu         sync.Mutex
	writeMu    sync.Mutex
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.captureCancel != nil {
		return nil
	}

	captureCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.captureCancel = cancel
	c.captureDone = done

	go func() {
		defer close(done)
		for {
			select {
			case <-captureCtx.Done():
				return
			default:
				if err := c.stream.Read(); err != nil {
					logger.Warn("failed to read from portaudio stream", "error", err)
					continue
				}

				audioBuffer := bytes.Buffer{}
				_ = binary.Write(&audioBuffer, binary.LittleEndian, c.in)
				onAudio(audioBuffer.Bytes())
			}
		}
	}()

	return nil
}

func (c *Client) StopCapture() error {
	c.mu.Lock()
	cancel, done := c.captureCancel, c.captureDone
	c.captureCancel, c.captureDone = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (c *Client) Close() {
	_ = c.StopCapture()
	c.stream.Stop()
	c.stream.Close()
	portaudio.Terminate()
}

func (c *Client) SendAudio(audio []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	bufferSize := c.bufferSize * 2
	audio = append(c.leftoverAudio, audio...)
	for len(audio) >= bufferSize {
		if err := binary.Read(bytes.NewReader(audio[:bufferSize]), binary.LittleEndian, c.out); err != nil {
			return fmt.Errorf("failed to decode audio: %w", err)
		}
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
		audio = audio[bufferSize:]
	}
	c.leftoverAudio = append([]byte(nil), audio...)

	return nil
}

func (c *Client) ClearBuffer() {
	c.writeMu.Lock()
	c.leftoverAudio = nil
	c.writeMu.Unlock()

	c.mu.Lock()
	c.generation++
	c.mu.Unlock()
}

// Mark flushes the remaining partial buffer and confirms the mark once it has
// been written to the device, unless the buffer was cleared in the meantime.
func (c *Client) Mark(mark string, callback func(string)) error {
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	go func() {
		c.writeMu.Lock()
		if len(c.leftoverAudio) > 0 {
			padded := make([]byte, c.bufferSize*2)
			copy(padded, c.leftoverAudio)
			c.leftoverAudio = nil
			if err := binary.Read(bytes.NewReader(padded), binary.LittleEndian, c.out); err == nil {
				_ = c.stream.Write()
			}
		}
		c.writeMu.Unlock()

		c.mu.Lock()
		current := c.generation
		c.mu.Unlock()
		if current == generation {
			callback(mark)
		}
	}()
	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
