package navigation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/route"
)

type recordingSpeech struct {
	mu      sync.Mutex
	spoken  []string
	cancels int
}

func (r *recordingSpeech) Speak(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
}

func (r *recordingSpeech) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels++
}

func (r *recordingSpeech) utterances() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.spoken))
	copy(out, r.spoken)
	return out
}

func sampleSteps() []route.Step {
	return []route.Step{
		{Instruction: "Turn right onto Ring Road", DistanceMeters: 850, DurationSeconds: 120},
		{Instruction: "Turn left onto Hospital Road", DistanceMeters: 2345, DurationSeconds: 240},
	}
}

func TestAnnounceStep_SpeaksOncePerStep(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	steps := sampleSteps()
	a.AnnounceStep(steps, 0)
	a.AnnounceStep(steps, 0)
	a.AnnounceStep(steps, 0)

	require.Len(t, speech.utterances(), 1)
	assert.Equal(t, "Turn right onto Ring Road. 850 m.", speech.utterances()[0])
	assert.Equal(t, 0, a.CurrentStep())
}

func TestAnnounceStep_FormatsKilometres(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	a.AnnounceStep(sampleSteps(), 1)

	require.Len(t, speech.utterances(), 1)
	assert.Equal(t, "Turn left onto Hospital Road. 2.3 km.", speech.utterances()[0])
}

func TestAnnounceStep_OutOfRangeIsNoop(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	a.AnnounceStep(sampleSteps(), -1)
	a.AnnounceStep(sampleSteps(), 5)

	assert.Empty(t, speech.utterances())
	assert.Equal(t, -1, a.CurrentStep())
}

func TestSpeak_CancelsBeforeSpeaking(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	a.Speak("first")
	a.Speak("second")

	assert.Equal(t, []string{"first", "second"}, speech.utterances())
	assert.Equal(t, 2, speech.cancels)
}

func TestToggleVoice_SilencesAndCancels(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	enabled := a.ToggleVoice()
	assert.False(t, enabled)
	assert.Equal(t, 1, speech.cancels)

	a.AnnounceStep(sampleSteps(), 0)
	assert.Empty(t, speech.utterances())

	// Re-enabling does not replay the muted step: it was consumed.
	assert.True(t, a.ToggleVoice())
	a.AnnounceStep(sampleSteps(), 0)
	assert.Empty(t, speech.utterances())
}

func TestReset_AllowsReannouncing(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	steps := sampleSteps()
	a.AnnounceStep(steps, 0)
	a.Reset()
	a.AnnounceStep(steps, 0)

	assert.Len(t, speech.utterances(), 2)
}

func TestAnnounceETA_Phrase(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	a.AnnounceETA("12 min", "4.5 km")

	require.Len(t, speech.utterances(), 1)
	assert.Equal(t, "Estimated arrival in 12 min. Distance: 4.5 km.", speech.utterances()[0])
}

func TestAnnounceArrival_Phrase(t *testing.T) {
	speech := &recordingSpeech{}
	a := NewAnnouncer(speech)

	a.AnnounceArrival()

	require.Len(t, speech.utterances(), 1)
	assert.Equal(t, "You have arrived at your destination.", speech.utterances()[0])
}

func TestAnnouncer_NilSpeechIsSilent(t *testing.T) {
	a := NewAnnouncer(nil)

	a.AnnounceStep(sampleSteps(), 0)
	a.AnnounceArrival()
	a.Reset()
	assert.False(t, a.ToggleVoice())
}
