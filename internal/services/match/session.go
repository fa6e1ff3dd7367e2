// Package match owns the per-game session state machine and the directory
// mapping players to their one active session.
package match

import (
	"sync"
	"time"

	"github.com/dropfour/dropfour/internal/model"
)

// Session is the authoritative state machine for one match. All mutation
// goes through its own lock, so concurrent calls from the two participants
// and the scheduler tick are serialized (single-writer discipline).
type Session struct {
	mu sync.Mutex

	id     model.SessionID
	red    model.PlayerName // the inviter; always moves first
	yellow model.PlayerName

	board    model.Board
	turn     model.PlayerName
	status   model.SessionStatus
	winner   string
	lastMove *model.Move

	countdownTicks int
	ticksPerSecond int
	reported       bool

	createdAt time.Time
}

func newSession(id model.SessionID, red, yellow model.PlayerName, countdownTicks, ticksPerSecond int, now time.Time) *Session {
	s := &Session{
		id:             id,
		red:            red,
		yellow:         yellow,
		board:          model.NewBoard(),
		status:         model.StatusCountdown,
		countdownTicks: countdownTicks,
		ticksPerSecond: ticksPerSecond,
		createdAt:      now,
	}
	if countdownTicks <= 0 {
		s.status = model.StatusPlaying
		s.turn = red
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() model.SessionID {
	return s.id
}

// Players returns the red and yellow participants
func (s *Session) Players() (model.PlayerName, model.PlayerName) {
	return s.red, s.yellow
}

// Play validates and applies a move for the named player. Every failure
// leaves the session completely unchanged.
func (s *Session) Play(name model.PlayerName, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name != s.red && name != s.yellow {
		return model.ErrNotParticipant
	}
	if s.status != model.StatusPlaying {
		return model.ErrNotPlaying
	}
	if name != s.turn {
		return model.ErrNotYourTurn
	}

	piece := model.CellRed
	if name == s.yellow {
		piece = model.CellYellow
	}

	row, err := s.board.Drop(col, piece)
	if err != nil {
		return err
	}
	s.lastMove = &model.Move{Col: col, Row: row}

	// Win is evaluated before draw: a move that completes a line on the
	// last empty cell is a win.
	switch {
	case s.board.ConnectsFour(row, col):
		s.status = model.StatusFinished
		s.winner = string(name)
		s.turn = ""
	case s.board.Full():
		s.status = model.StatusFinished
		s.winner = model.WinnerDraw
		s.turn = ""
	default:
		s.turn = s.other(name)
	}
	return nil
}

// TickOutput tells the scheduler what to broadcast after a tick
type TickOutput struct {
	CountdownSeconds *int // countdown value to announce, if counting down
	Snapshot         bool // broadcast a full state snapshot
	Report           bool // announce the terminal result (exactly once)
	Remove           bool // drop the session from the directory
}

// Tick advances time-based transitions by one scheduler tick. It is the only
// entry point for countdown progress and terminal reporting.
func (s *Session) Tick() TickOutput {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out TickOutput
	switch s.status {
	case model.StatusCountdown:
		s.countdownTicks--
		if s.countdownTicks <= 0 {
			s.status = model.StatusPlaying
			s.turn = s.red
			out.Snapshot = true
		} else {
			seconds := (s.countdownTicks + s.ticksPerSecond - 1) / s.ticksPerSecond
			out.CountdownSeconds = &seconds
		}

	case model.StatusPlaying:
		// Unconditional rebroadcast tolerates lost frames on a
		// best-effort transport
		out.Snapshot = true

	case model.StatusFinished:
		if !s.reported {
			s.reported = true
			out.Snapshot = true
			out.Report = true
		}
		out.Remove = true
	}
	return out
}

// ForceFinish ends the match because the named participant left; the other
// participant wins. Returns the winner and whether the session changed
// state (false when already terminal or the leaver is not a participant).
func (s *Session) ForceFinish(leaver model.PlayerName) (model.PlayerName, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if leaver != s.red && leaver != s.yellow {
		return "", false
	}
	if s.status == model.StatusFinished {
		return "", false
	}

	winner := s.other(leaver)
	s.status = model.StatusFinished
	s.winner = string(winner)
	s.turn = ""
	return winner, true
}

// Winner returns the winner name, model.WinnerDraw, or empty
func (s *Session) Winner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner
}

// Status returns the current phase
func (s *Session) Status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// View returns a read-only projection for the requesting participant. The
// board is copied; the caller can hold the view without a lock.
func (s *Session) View(requesting model.PlayerName) model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	color := model.CellRed
	opponent := s.yellow
	if requesting == s.yellow {
		color = model.CellYellow
		opponent = s.red
	}

	var lastMove *model.Move
	if s.lastMove != nil {
		mv := *s.lastMove
		lastMove = &mv
	}

	return model.SessionView{
		ID:       s.id,
		Status:   s.status,
		Turn:     s.turn,
		Winner:   s.winner,
		Board:    s.board.Grid(),
		LastMove: lastMove,
		Color:    color,
		Opponent: opponent,
	}
}

func (s *Session) other(name model.PlayerName) model.PlayerName {
	if name == s.red {
		return s.yellow
	}
	return s.red
}
