package navigation

import (
	"fmt"
	"sync"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/route"
)

// Speech is a fire-and-forget text-to-speech capability with cancel-current
// semantics. A nil Speech degrades to a silent no-op, never an error.
type Speech interface {
	// Speak submits an utterance for playback.
	Speak(text string)

	// Cancel stops any currently playing utterance.
	Cancel()
}

// Announcer narrates turn-by-turn guidance. Each step is spoken exactly
// once per session, and every new utterance cancels the previous one
// (single-flight: last call wins, no queueing).
type Announcer struct {
	mu           sync.Mutex
	speech       Speech
	voiceEnabled bool
	announced    map[int]struct{}
	currentStep  int
}

// NewAnnouncer creates an Announcer with voice enabled and no steps spoken.
func NewAnnouncer(speech Speech) *Announcer {
	return &Announcer{
		speech:       speech,
		voiceEnabled: true,
		announced:    make(map[int]struct{}),
		currentStep:  -1,
	}
}

// VoiceEnabled reports whether speech output is currently on.
func (a *Announcer) VoiceEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.voiceEnabled
}

// CurrentStep returns the index of the last announced step, or -1.
func (a *Announcer) CurrentStep() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentStep
}

// AnnounceStep speaks the step at index once. Out-of-range indices and
// already-announced steps are no-ops.
func (a *Announcer) AnnounceStep(steps []route.Step, index int) {
	a.mu.Lock()
	if index < 0 || index >= len(steps) {
		a.mu.Unlock()
		return
	}
	if _, done := a.announced[index]; done {
		a.mu.Unlock()
		return
	}
	a.announced[index] = struct{}{}
	a.currentStep = index
	step := steps[index]
	a.mu.Unlock()

	a.Speak(fmt.Sprintf("%s. %s.", step.Instruction, route.FormatDistance(step.DistanceMeters)))
}

// AnnounceETA speaks the estimated arrival time and remaining distance.
func (a *Announcer) AnnounceETA(duration, distance string) {
	a.Speak(fmt.Sprintf("Estimated arrival in %s. Distance: %s.", duration, distance))
}

// AnnounceArrival speaks the arrival phrase. The caller decides when the
// route is complete.
func (a *Announcer) AnnounceArrival() {
	a.Speak("You have arrived at your destination.")
}

// ToggleVoice flips voice output and returns the new state. Turning voice
// off cancels any in-flight utterance.
func (a *Announcer) ToggleVoice() bool {
	a.mu.Lock()
	a.voiceEnabled = !a.voiceEnabled
	enabled := a.voiceEnabled
	speech := a.speech
	a.mu.Unlock()

	if !enabled && speech != nil {
		speech.Cancel()
	}
	return enabled
}

// Reset clears the announced-step set, drops the current-step pointer and
// cancels any in-flight utterance. Call it whenever navigation restarts so
// a new route's steps can be announced again.
func (a *Announcer) Reset() {
	a.mu.Lock()
	a.announced = make(map[int]struct{})
	a.currentStep = -1
	speech := a.speech
	a.mu.Unlock()

	if speech != nil {
		speech.Cancel()
	}
}

// Speak cancels the current utterance and submits a new one. No-op when
// voice is disabled or no speech capability is present.
func (a *Announcer) Speak(text string) {
	a.mu.Lock()
	enabled := a.voiceEnabled
	speech := a.speech
	a.mu.Unlock()

	if !enabled || speech == nil {
		return
	}
	speech.Cancel()
	speech.Speak(text)
}
