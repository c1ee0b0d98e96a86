package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/audio"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/speechtotext"
	"github.com/gorilla/websocket"
)

type fakeAudioInput struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (f *fakeAudioInput) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	f.started.Add(1)
	onAudio([]byte{0, 1, 2, 3})
	return nil
}

func (f *fakeAudioInput) StopCapture() error {
	f.stopped.Add(1)
	return nil
}

func (f *fakeAudioInput) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func newListenServer(t *testing.T, handle func(conn *websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestRecognizerDeliversFinalTranscriptAndStopsCleanly(t *testing.T) {
	closeStreamReceived := make(chan struct{})
	endpoint := newListenServer(t, func(conn *websocket.Conn) {
		results := `{"type":"Results","is_final":true,"speech_final":true,"channel":{"alternatives":[{"transcript":"hey jarvis open youtube"}]}}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(results)); err != nil {
			return
		}
		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}
			var control struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(msg, &control) == nil && control.Type == "CloseStream" {
				close(closeStreamReceived)
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	})

	input := &fakeAudioInput{}
	recognizer := NewRecognizer(input, WithEndpoint(endpoint), WithAPIKey("test"))

	started := make(chan struct{})
	gotResult := make(chan struct{})
	ended := make(chan struct{})
	var transcript atomic.Value
	var errorCount atomic.Int32

	err := recognizer.Start(context.Background(),
		speechtotext.WithStartCallback(func() { close(started) }),
		speechtotext.WithResultCallback(func(text string, isFinal bool) {
			if isFinal {
				transcript.Store(text)
				close(gotResult)
			}
		}),
		speechtotext.WithErrorCallback(func(speechtotext.ErrorKind) { errorCount.Add(1) }),
		speechtotext.WithEndCallback(func() { close(ended) }),
	)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	if err := recognizer.Start(context.Background()); !errors.Is(err, speechtotext.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive on second start, got %v", err)
	}

	waitFor(t, started, "start callback")
	waitFor(t, gotResult, "final result")
	if got := transcript.Load(); got != "hey jarvis open youtube" {
		t.Fatalf("expected transcript %q, got %v", "hey jarvis open youtube", got)
	}

	if err := recognizer.Stop(); err != nil {
		t.Fatalf("expected stop to succeed, got %v", err)
	}
	waitFor(t, closeStreamReceived, "close stream message")
	waitFor(t, ended, "end callback")

	if errorCount.Load() != 0 {
		t.Fatalf("expected no error callback on solicited stop, got %d", errorCount.Load())
	}
	if input.started.Load() != 1 {
		t.Fatalf("expected capture to start once, got %d", input.started.Load())
	}
	if input.stopped.Load() == 0 {
		t.Fatalf("expected capture to be stopped")
	}

	if err := recognizer.Start(context.Background()); err != nil {
		t.Fatalf("expected start after end to succeed, got %v", err)
	}
	recognizer.Stop()
}

func TestRecognizerReportsUnexpectedDisconnect(t *testing.T) {
	endpoint := newListenServer(t, func(conn *websocket.Conn) {
		// drop the connection without a close frame
	})

	ended := make(chan struct{})
	var kinds []speechtotext.ErrorKind
	var mu sync.Mutex

	recognizer := NewRecognizer(&fakeAudioInput{}, WithEndpoint(endpoint), WithAPIKey("test"))
	err := recognizer.Start(context.Background(),
		speechtotext.WithErrorCallback(func(kind speechtotext.ErrorKind) {
			mu.Lock()
			kinds = append(kinds, kind)
			mu.Unlock()
		}),
		speechtotext.WithEndCallback(func() { close(ended) }),
	)
	if err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	waitFor(t, ended, "end callback")

	mu.Lock()
	defer mu.Unlock()
	if len(kinds) != 1 || kinds[0] != speechtotext.ErrorKindNetwork {
		t.Fatalf("expected one network error before end, got %v", kinds)
	}
}

func TestRecognizerReportsFailedDial(t *testing.T) {
	ended := make(chan struct{})
	var errorCount atomic.Int32

	recognizer := NewRecognizer(&fakeAudioInput{}, WithEndpoint("ws://127.0.0.1:1/v1/listen"), WithAPIKey("test"))
	err := recognizer.Start(context.Background(),
		speechtotext.WithErrorCallback(func(speechtotext.ErrorKind) { errorCount.Add(1) }),
		speechtotext.WithEndCallback(func() { close(ended) }),
	)
	if err != nil {
		t.Fatalf("expected start to return before dialing, got %v", err)
	}

	waitFor(t, ended, "end callback")
	if errorCount.Load() != 1 {
		t.Fatalf("expected one error callback, got %d", errorCount.Load())
	}
}

func TestProcessMessageAccumulatesFinalsUntilSpeechFinal(t *testing.T) {
	var finals, interims []string
	s := &session{options: speechtotext.NewRecognitionOptions(
		speechtotext.WithInterimResults(true),
		speechtotext.WithResultCallback(func(text string, isFinal bool) {
			if isFinal {
				finals = append(finals, text)
			} else {
				interims = append(interims, text)
			}
		}),
	)}

	s.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"hey"}]}}`))
	s.processMessage([]byte(`{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"hey jarvis"}]}}`))
	s.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"what"}]}}`))
	s.processMessage([]byte(`{"type":"Results","is_final":true,"speech_final":true,"channel":{"alternatives":[{"transcript":"what time is it"}]}}`))

	if len(finals) != 1 || finals[0] != "hey jarvis what time is it" {
		t.Fatalf("expected one accumulated final transcript, got %v", finals)
	}
	if len(interims) != 2 || interims[1] != "hey jarvis what" {
		t.Fatalf("expected interim transcripts to include accumulated text, got %v", interims)
	}
}

func TestProcessMessageFlushesOnUtteranceEnd(t *testing.T) {
	var finals []string
	s := &session{options: speechtotext.NewRecognitionOptions(
		speechtotext.WithResultCallback(func(text string, isFinal bool) {
			if isFinal {
				finals = append(finals, text)
			}
		}),
	)}

	s.processMessage([]byte(`{"type":"Results","is_final":false,"channel":{"alternatives":[{"transcript":"ignored"}]}}`))
	s.processMessage([]byte(`{"type":"Results","is_final":true,"channel":{"alternatives":[{"transcript":"open google"}]}}`))
	s.processMessage([]byte(`{"type":"UtteranceEnd"}`))
	s.processMessage([]byte(`{"type":"UtteranceEnd"}`))
	s.processMessage([]byte(`not json`))

	if len(finals) != 1 || finals[0] != "open google" {
		t.Fatalf("expected single flush on utterance end, got %v", finals)
	}
}

func TestConvertEncodingRejectsUnsupportedRates(t *testing.T) {
	if _, err := convertEncoding(audio.EncodingInfo{SampleRate: 44100, Format: audio.EncodingLinear16}); !errors.Is(err, errUnsupportedSampleRate) {
		t.Fatalf("expected unsupported sample rate, got %v", err)
	}
	if _, err := convertEncoding(audio.EncodingInfo{SampleRate: 16000, Format: audio.EncodingMulaw}); !errors.Is(err, errUnsupportedSampleRate) {
		t.Fatalf("expected mulaw at 16k to be rejected, got %v", err)
	}

	converted, err := convertEncoding(audio.GetDefaultEncodingInfo())
	if err != nil {
		t.Fatalf("expected default encoding to convert, got %v", err)
	}
	if converted.Format != "linear16" || converted.SampleRate != 16000 {
		t.Fatalf("expected linear16 at 16000, got %+v", converted)
	}
}
