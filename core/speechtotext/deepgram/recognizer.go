package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/speechtotext"
	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
)

const (
	defaultListenEndpoint = "wss://api.deepgram.com/v1/listen"
	defaultModel          = "nova-3"
	stopTimeout           = 3 * time.Second
)

type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() audio.EncodingInfo
}

// Recognizer is a continuous speech recognition session backed by the
// Deepgram streaming listen API. One session is active at a time; Start on an
// active session returns [speechtotext.ErrAlreadyActive].
type Recognizer struct {
	input    AudioInput
	endpoint string
	model    string
	apiKey   string

	session *session
	mu      sync.Mutex
}

type RecognizerOption func(*Recognizer)

func WithModel(model string) RecognizerOption {
	return func(r *Recognizer) { r.model = model }
}

func WithEndpoint(endpoint string) RecognizerOption {
	return func(r *Recognizer) { r.endpoint = endpoint }
}

func WithAPIKey(apiKey string) RecognizerOption {
	return func(r *Recognizer) { r.apiKey = apiKey }
}

func NewRecognizer(input AudioInput, opts ...RecognizerOption) *Recognizer {
	r := &Recognizer{
		input:    input,
		endpoint: defaultListenEndpoint,
		model:    defaultModel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens a new session without blocking: the connection is dialed in the
// background and StartCallback fires once audio is streaming. A failed dial is
// reported through ErrorCallback followed by EndCallback.
func (r *Recognizer) Start(ctx context.Context, opts ...speechtotext.RecognitionOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return speechtotext.ErrAlreadyActive
	}

	options := speechtotext.NewRecognitionOptions(
		append([]speechtotext.RecognitionOption{speechtotext.WithEncodingInfo(r.input.EncodingInfo())}, opts...)...,
	)

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	s := &session{options: options}
	r.session = s
	go r.run(ctx, s, encoding)

	return nil
}

// Stop asks the server to finalize the stream. EndCallback fires once the
// server closes the connection, or after a timeout.
func (r *Recognizer) Stop() error {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()

	if s == nil || !s.stopping.CompareAndSwap(false, true) {
		return nil
	}

	conn := s.connection()
	if conn == nil {
		// still dialing, run notices stopping once connected
		return nil
	}

	if err := r.input.StopCapture(); err != nil {
		logger.Warn("failed to stop audio capture", "error", err)
	}

	if err := s.writeJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		conn.Close()
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}

	time.AfterFunc(stopTimeout, func() { conn.Close() })
	return nil
}

func (r *Recognizer) run(ctx context.Context, s *session, encoding *encodingInfo) {
	defer r.finish(s)

	conn, err := r.connect(ctx, encoding, s.options)
	if err != nil {
		logger.Warn("failed to open deepgram listen stream", "error", err)
		if !s.stopping.Load() {
			s.options.ErrorCallback(speechtotext.ErrorKindNetwork)
		}
		return
	}
	s.setConnection(conn)
	defer conn.Close()

	if s.stopping.Load() {
		return
	}

	if err := r.input.StartCapture(ctx, s.sendAudio); err != nil {
		logger.Warn("failed to start audio capture", "error", err)
		s.options.ErrorCallback(speechtotext.ErrorKindAudioCapture)
		return
	}

	s.options.StartCallback()
	r.readAndProcessMessages(s, conn)
}

func (r *Recognizer) finish(s *session) {
	r.mu.Lock()
	if r.session == s {
		r.session = nil
	}
	r.mu.Unlock()

	s.options.EndCallback()
}

func (r *Recognizer) connect(ctx context.Context, encoding *encodingInfo, options speechtotext.RecognitionOptions) (*websocket.Conn, error) {
	apiKey := r.apiKey
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("DEEPGRAM_API_KEY"); !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
	}

	listenURL, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid listen endpoint: %w", err)
	}
	queryParams := listenURL.Query()
	queryParams.Set("encoding", encoding.Format)
	queryParams.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", r.model)
	queryParams.Set("language", options.Lang)
	queryParams.Set("smart_format", "true")
	// utterance end detection needs interim results even when they are not
	// forwarded
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")
	listenURL.RawQuery = queryParams.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, listenURL.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (r *Recognizer) readAndProcessMessages(s *session, conn *websocket.Conn) {
	var readErr error
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			readErr = err
			break
		}
		if msgType == websocket.TextMessage {
			s.processMessage(msg)
		}
	}

	if !s.stopping.Load() && !websocket.IsCloseError(readErr, websocket.CloseNormalClosure) {
		logger.Warn("deepgram listen stream terminated", "error", readErr)
		if err := r.input.StopCapture(); err != nil {
			logger.Warn("failed to stop audio capture", "error", err)
		}
		s.options.ErrorCallback(speechtotext.ErrorKindNetwork)
	}
}

type session struct {
	conn    *websocket.Conn
	connMu  sync.Mutex
	writeMu sync.Mutex
	options speechtotext.RecognitionOptions

	stopping atomic.Bool

	// accumulatedTranscript collects final segments until the speaker pauses.
	accumulatedTranscript string
}

func (s *session) setConnection(conn *websocket.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.conn = conn
}

func (s *session) connection() *websocket.Conn {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn
}

func (s *session) writeJSON(msg any) error {
	conn := s.connection()
	if conn == nil {
		return fmt.Errorf("deepgram stream not connected")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

func (s *session) sendAudio(audio []byte) {
	conn := s.connection()
	if s.stopping.Load() || conn == nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		logger.Debug("failed to write audio to deepgram", "error", err)
	}
}

func (s *session) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram results", "error", err)
			return
		}

		transcript := ""
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		}

		if !msgResp.IsFinal {
			if s.options.InterimResults && len(transcript) > 0 {
				s.options.ResultCallback(strings.TrimSpace(s.accumulatedTranscript+" "+transcript), false)
			}
			return
		}

		if len(transcript) > 0 {
			s.accumulatedTranscript += " " + transcript
		}
		if msgResp.SpeechFinal {
			s.flushTranscript()
		}

	case api.TypeUtteranceEndResponse:
		s.flushTranscript()
	}
}

func (s *session) flushTranscript() {
	transcript := strings.TrimSpace(s.accumulatedTranscript)
	s.accumulatedTranscript = ""
	if len(transcript) > 0 {
		s.options.ResultCallback(transcript, true)
	}
}
