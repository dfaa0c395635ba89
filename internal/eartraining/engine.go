// Package eartraining implements the note-recognition game as an explicit
// state machine with no UI binding. The engine only decides which pitch
// class to prompt and how to score a guess; actual audio synthesis is the
// caller's concern, reached through the Player callback.
package eartraining

import (
	"errors"
	"math/rand"

	"muselift/internal/random"
)

// Note is one of the 12 pitch classes within an octave.
type Note string

// The full chromatic scale.
const (
	C      Note = "C"
	CSharp Note = "C#"
	D      Note = "D"
	DSharp Note = "D#"
	E      Note = "E"
	F      Note = "F"
	FSharp Note = "F#"
	G      Note = "G"
	GSharp Note = "G#"
	A      Note = "A"
	ASharp Note = "A#"
	B      Note = "B"
)

var chromaticNotes = []Note{C, CSharp, D, DSharp, E, F, FSharp, G, GSharp, A, ASharp, B}

var naturalNotes = []Note{C, D, E, F, G, A, B}

// ParseNote validates a note name from an untrusted source.
func ParseNote(s string) (Note, bool) {
	for _, n := range chromaticNotes {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Difficulty selects the pool of notes a target is drawn from.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ParseDifficulty validates a difficulty name from an untrusted source.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case Beginner, Intermediate, Advanced:
		return Difficulty(s), true
	default:
		return "", false
	}
}

// notePool returns the notes a difficulty draws targets from: beginners get
// the seven naturals, everyone else the full chromatic scale.
func (d Difficulty) notePool() []Note {
	if d == Beginner {
		return naturalNotes
	}
	return chromaticNotes
}

// State names the engine's position in the game loop.
type State string

const (
	// Idle means no round is running; difficulty may be changed.
	Idle State = "idle"
	// AwaitingGuess means a target note is pending.
	AwaitingGuess State = "awaiting_guess"
)

// Feedback reports the outcome of the most recent guess.
type Feedback string

const (
	FeedbackNone      Feedback = ""
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

// Player receives playback requests for generated targets.
type Player interface {
	Play(note Note)
}

// PlayerFunc adapts a function to the Player interface.
type PlayerFunc func(note Note)

// Play calls f.
func (f PlayerFunc) Play(note Note) { f(note) }

var (
	// ErrNotStarted is returned for game actions taken before Start.
	ErrNotStarted = errors.New("game not started")
	// ErrNoTarget is returned for a guess with no pending target.
	ErrNoTarget = errors.New("no target note pending")
	// ErrRoundInProgress guards the note pool: changing difficulty with
	// a pending target could leave a target outside the new pool.
	ErrRoundInProgress = errors.New("difficulty locked while a round is in progress")
	// ErrInvalidDifficulty is returned for an unknown difficulty name.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// pointsPerCorrectGuess is the fixed score increment.
const pointsPerCorrectGuess = 10

// Engine holds one game session's state. It is owned by a single session
// and not safe for concurrent use; callers needing sharing must serialize.
type Engine struct {
	difficulty Difficulty
	state      State
	score      int
	streak     int
	target     *Note
	feedback   Feedback

	player Player
	rng    *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithPlayer installs the playback callback invoked for each new target.
func WithPlayer(p Player) Option {
	return func(e *Engine) { e.player = p }
}

// WithRand fixes the random source. Used by tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// NewEngine creates an idle engine at beginner difficulty.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{difficulty: Beginner, state: Idle}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a fresh game at the given difficulty: counters reset and the
// first target is generated immediately.
func (e *Engine) Start(difficulty Difficulty) error {
	if _, ok := ParseDifficulty(string(difficulty)); !ok {
		return ErrInvalidDifficulty
	}
	e.difficulty = difficulty
	e.score = 0
	e.streak = 0
	e.feedback = FeedbackNone
	e.state = AwaitingGuess
	e.generate()
	return nil
}

// generate draws a new target uniformly from the difficulty's pool and
// requests its playback.
func (e *Engine) generate() {
	note, _ := random.PickOne(e.rng, e.difficulty.notePool())
	e.target = &note
	e.feedback = FeedbackNone
	if e.player != nil {
		e.player.Play(note)
	}
}

// GenerateTarget replaces the pending target with a fresh one. Valid only
// once the game has started.
func (e *Engine) GenerateTarget() error {
	if e.state != AwaitingGuess {
		return ErrNotStarted
	}
	e.generate()
	return nil
}

// Guess evaluates note against the pending target. A correct guess scores
// ten points, extends the streak, and immediately generates the next
// target; a wrong one resets the streak and keeps the target so the player
// may retry.
func (e *Engine) Guess(note Note) error {
	if e.state != AwaitingGuess {
		return ErrNotStarted
	}
	if e.target == nil {
		return ErrNoTarget
	}

	if note == *e.target {
		e.score += pointsPerCorrectGuess
		e.streak++
		// The next round begins immediately; the UI's correct-answer
		// display delay is presentation, not engine state.
		e.generate()
		e.feedback = FeedbackCorrect
		return nil
	}

	e.feedback = FeedbackIncorrect
	e.streak = 0
	return nil
}

// Skip discards the pending target and generates a new one without touching
// score or streak.
func (e *Engine) Skip() error {
	if e.state != AwaitingGuess {
		return ErrNotStarted
	}
	e.generate()
	return nil
}

// SetDifficulty changes the note pool. Only legal while idle; changing the
// pool mid-round could orphan a pending target.
func (e *Engine) SetDifficulty(difficulty Difficulty) error {
	if _, ok := ParseDifficulty(string(difficulty)); !ok {
		return ErrInvalidDifficulty
	}
	if e.state != Idle {
		return ErrRoundInProgress
	}
	e.difficulty = difficulty
	e.score = 0
	e.streak = 0
	e.feedback = FeedbackNone
	e.target = nil
	return nil
}

// Reset returns the engine to Idle with zeroed counters, keeping the
// difficulty.
func (e *Engine) Reset() {
	e.state = Idle
	e.score = 0
	e.streak = 0
	e.feedback = FeedbackNone
	e.target = nil
}

// Score returns the accumulated score.
func (e *Engine) Score() int { return e.score }

// Streak returns the current run of consecutive correct guesses.
func (e *Engine) Streak() int { return e.streak }

// Feedback returns the outcome of the most recent guess.
func (e *Engine) Feedback() Feedback { return e.feedback }

// State reports whether a round is in progress.
func (e *Engine) State() State { return e.state }

// Difficulty returns the active difficulty.
func (e *Engine) Difficulty() Difficulty { return e.difficulty }

// Target returns the pending target note, or "" when none is set. Exposed
// so a driving layer can echo the prompt to its audio trigger.
func (e *Engine) Target() Note {
	if e.target == nil {
		return ""
	}
	return *e.target
}
