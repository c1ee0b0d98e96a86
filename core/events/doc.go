// Package events defines the typed events emitted by the voice coordinator.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - coordinator.*
//   - recognition.*
//   - display.*
//   - command.*
//   - speech.*
//
// coordinator events
//
//   - StateChanged (coordinator.state_changed): the coordinator moved between
//     states; carries both state names.
//
// recognition events
//
//   - ListeningChanged (recognition.listening_changed): the listening
//     indicator was switched on or off.
//   - RecognitionFailed (recognition.failed): the recognition session reported
//     an error. Recovered by a delayed restart, never shown to the user.
//   - WakeMatched (recognition.wake_matched): a final transcript contained the
//     wake phrase; carries the whole trimmed transcript.
//
// display events
//
//   - UserTextUpdated (display.user_text_updated): the text to show for the
//     user changed. Empty text clears it.
//   - AssistantTextUpdated (display.assistant_text_updated): the text to show
//     for the assistant changed. Empty text clears it.
//
// command events
//
//   - CommandReceived (command.received): the reasoner answered with a command.
//   - CommandFailed (command.failed): the reasoner call failed.
//
// speech events
//
//   - UtteranceStarted (speech.utterance_started): an utterance was handed to
//     the synthesizer.
//   - UtteranceEnded (speech.utterance_ended): the current utterance finished
//     playing. Cancelled utterances never end.
package events
