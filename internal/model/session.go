package model

// SessionID uniquely identifies a match
type SessionID string

// SessionStatus represents the current phase of a match
type SessionStatus string

const (
	StatusCountdown SessionStatus = "countdown" // pre-game countdown running
	StatusPlaying   SessionStatus = "playing"   // moves accepted
	StatusFinished  SessionStatus = "finished"  // terminal
)

// WinnerDraw is the winner value for a drawn match
const WinnerDraw = "draw"

// SessionView is a point-in-time read-only projection of a session, as seen
// by one participant.
type SessionView struct {
	ID       SessionID
	Status   SessionStatus
	Turn     PlayerName // empty unless Status is playing
	Winner   string     // winner name, WinnerDraw, or empty
	Board    [][]string
	LastMove *Move
	Color    Cell // the requesting player's assigned color
	Opponent PlayerName
}
