package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/texttospeech"
	"github.com/gorilla/websocket"
)

const defaultSpeakEndpoint = "wss://api.deepgram.com/v1/speak"

type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	// Mark calls callback once all audio sent before the mark has been played.
	Mark(mark string, callback func(string)) error
	EncodingInfo() audio.EncodingInfo
}

// Synthesizer speaks utterances through the Deepgram streaming speak API and
// plays the returned audio on an AudioOutput. One utterance is active at a
// time.
type Synthesizer struct {
	output   AudioOutput
	endpoint string
	apiKey   string

	active *speakRequest
	mu     sync.Mutex
}

type SynthesizerOption func(*Synthesizer)

func WithEndpoint(endpoint string) SynthesizerOption {
	return func(s *Synthesizer) { s.endpoint = endpoint }
}

func WithAPIKey(apiKey string) SynthesizerOption {
	return func(s *Synthesizer) { s.apiKey = apiKey }
}

func NewSynthesizer(output AudioOutput, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		output:   output,
		endpoint: defaultSpeakEndpoint,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type speakRequest struct {
	utterance texttospeech.Utterance
	options   texttospeech.SpeakOptions
	// gain is only applied to linear16 output
	gain float64

	conn    *websocket.Conn
	connMu  sync.Mutex
	writeMu sync.Mutex

	cancelled atomic.Bool
	finished  atomic.Bool
}

// Speak cancels any active utterance and starts synthesizing the new one.
// The connection is opened in the background; failures after Speak returns
// are reported through the error callback.
func (s *Synthesizer) Speak(ctx context.Context, utterance texttospeech.Utterance, opts ...texttospeech.SpeakOption) error {
	if utterance.Text == "" {
		return fmt.Errorf("empty utterance")
	}

	encoding, err := convertEncoding(s.output.EncodingInfo())
	if err != nil {
		return fmt.Errorf("invalid output encoding: %w", err)
	}

	if err := s.Cancel(); err != nil {
		logger.Warn("failed to cancel previous utterance", "error", err)
	}

	req := &speakRequest{
		utterance: utterance,
		options:   texttospeech.NewSpeakOptions(opts...),
		gain:      1,
	}
	if encoding.Format == audio.EncodingLinear16.Name() {
		req.gain = utterance.Volume
	}

	s.mu.Lock()
	s.active = req
	s.mu.Unlock()

	go s.run(ctx, req, encoding)
	return nil
}

// Cancel drops the active utterance and any audio still queued for playback.
func (s *Synthesizer) Cancel() error {
	s.mu.Lock()
	req := s.active
	s.active = nil
	s.mu.Unlock()

	if req == nil || !req.cancelled.CompareAndSwap(false, true) {
		return nil
	}

	s.output.ClearBuffer()

	if err := req.writeJSON(clearMsg); err != nil {
		logger.Debug("failed to send clear message", "error", err)
	}
	return req.close()
}

func (s *Synthesizer) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

func (s *Synthesizer) run(ctx context.Context, req *speakRequest, encoding *encodingInfo) {
	conn, err := s.connect(ctx, voiceModel(req.utterance), encoding)
	if err != nil {
		s.fail(req, fmt.Errorf("failed to open websocket: %w", err))
		return
	}
	req.setConnection(conn)
	defer conn.Close()

	if req.cancelled.Load() {
		return
	}

	if err := req.writeJSON(sendTextMsg(req.utterance.Text)); err != nil {
		s.fail(req, fmt.Errorf("failed to send text: %w", err))
		return
	}
	if err := req.writeJSON(flushMsg); err != nil {
		s.fail(req, fmt.Errorf("failed to flush text: %w", err))
		return
	}

	s.readAndProcessMessages(req, conn)
}

func (s *Synthesizer) connect(ctx context.Context, voice string, encoding *encodingInfo) (*websocket.Conn, error) {
	apiKey := s.apiKey
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("DEEPGRAM_API_KEY"); !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
	}

	speakURL, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid speak endpoint: %w", err)
	}
	urlValues := speakURL.Query()
	urlValues.Set("encoding", encoding.Format)
	urlValues.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	urlValues.Set("model", voice)
	urlValues.Set("container", "none")
	speakURL.RawQuery = urlValues.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, speakURL.String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (s *Synthesizer) readAndProcessMessages(req *speakRequest, conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !req.cancelled.Load() && !req.finished.Load() {
				s.fail(req, fmt.Errorf("speak stream terminated: %w", err))
			}
			return
		}
		if req.cancelled.Load() {
			continue
		}

		switch msgType {
		case websocket.BinaryMessage:
			if len(msg) == 0 {
				continue
			}
			if err := s.output.SendAudio(audio.ApplyGain(msg, req.gain)); err != nil {
				logger.Warn("failed to play synthesized audio", "error", err)
			}
		case websocket.TextMessage:
			var parsedMsg websocketMessage
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				logger.Warn("failed to unmarshal deepgram message", "error", err)
				continue
			}

			switch parsedMsg.Type {
			case "Flushed":
				req.finished.Store(true)
				if err := s.output.Mark(req.utterance.ID, func(string) { s.complete(req) }); err != nil {
					logger.Warn("failed to mark utterance end", "error", err)
					s.complete(req)
				}
				if err := req.writeJSON(closeMsg); err != nil {
					logger.Debug("failed to send close message", "error", err)
				}
			case "Warning", "Error":
				logger.Warn("deepgram speak message", "message", string(msg))
			}
		}
	}
}

// complete fires the end callback for an utterance that played out, unless it
// was cancelled in the meantime.
func (s *Synthesizer) complete(req *speakRequest) {
	if req.cancelled.Load() {
		return
	}

	s.mu.Lock()
	if s.active != req {
		s.mu.Unlock()
		return
	}
	s.active = nil
	s.mu.Unlock()

	req.options.UtteranceEndCallback(req.utterance)
}

func (s *Synthesizer) fail(req *speakRequest, err error) {
	if req.cancelled.Load() {
		return
	}

	s.mu.Lock()
	if s.active == req {
		s.active = nil
	}
	s.mu.Unlock()

	logger.Warn("speech synthesis failed", "utterance_id", req.utterance.ID, "error", err)
	req.options.ErrorCallback(req.utterance, err)
}

func (r *speakRequest) setConnection(conn *websocket.Conn) {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	r.conn = conn
}

func (r *speakRequest) connection() *websocket.Conn {
	r.connMu.Lock()
	defer r.connMu.Unlock()
	return r.conn
}

func (r *speakRequest) writeJSON(msg any) error {
	conn := r.connection()
	if conn == nil {
		return fmt.Errorf("websocket connection closed")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}

func (r *speakRequest) close() error {
	conn := r.connection()
	if conn == nil {
		return nil
	}

	if err := r.writeJSON(closeMsg); err != nil {
		if aggressiveCloseErr := conn.Close(); aggressiveCloseErr != nil {
			return fmt.Errorf("failed to close websocket: %w", errors.Join(err, aggressiveCloseErr))
		}
		return nil
	}
	return conn.Close()
}

type websocketMessage struct {
	Type string `json:"type"`
}

type speakTextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func sendTextMsg(text string) speakTextMessage {
	return speakTextMessage{Type: "Speak", Text: text}
}

var (
	flushMsg = websocketMessage{Type: "Flush"}
	clearMsg = websocketMessage{Type: "Clear"}
	closeMsg = websocketMessage{Type: "Close"}
)
