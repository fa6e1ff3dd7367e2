// Package protocol defines the wire schema: newline-free UTF-8 JSON frames,
// each a single object with a mandatory "type" field. Client messages decode
// once at the boundary into a closed tagged union; server messages are typed
// structs marshalled as-is.
package protocol

import "github.com/dropfour/dropfour/internal/model"

// Client→server message types
const (
	TypeClientReady        = "clientReady"
	TypeClientInvite       = "clientInvite"
	TypeClientAcceptInvite = "clientAcceptInvite"
	TypeClientRejectInvite = "clientRejectInvite"
	TypeClientPlay         = "clientPlay"
)

// Server→client message types
const (
	TypeClients              = "clients"
	TypeInvitation           = "invitation"
	TypeCountdown            = "countdown"
	TypeServerData           = "serverData"
	TypeGameResult           = "gameResult"
	TypeOpponentDisconnected = "opponentDisconnected"
	TypeError                = "error"
)

// Invitation lifecycle notices
const (
	InvitationReceived = "received"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Game result values from the recipient's point of view
const (
	ResultWin  = "win"
	ResultLose = "lose"
	ResultDraw = "draw"
)

// ClientMessage is the closed union of all client→server messages.
type ClientMessage interface {
	isClientMessage()
}

// Ready is sent by a client after connecting. Registration already happened
// on connect, so this only requests a fresh roster.
type Ready struct{}

// Invite asks to start a match with another player.
type Invite struct {
	Opponent string `json:"opponent"`
}

// AcceptInvite accepts a pending invitation from the named origin.
type AcceptInvite struct {
	From string `json:"from"`
}

// RejectInvite declines a pending invitation from the named origin.
type RejectInvite struct {
	From string `json:"from"`
}

// Play drops a piece into the given column.
type Play struct {
	Col int `json:"col"`
}

func (Ready) isClientMessage()        {}
func (Invite) isClientMessage()       {}
func (AcceptInvite) isClientMessage() {}
func (RejectInvite) isClientMessage() {}
func (Play) isClientMessage()         {}

// ServerMessage is the closed union of all server→client messages.
type ServerMessage interface {
	isServerMessage()
}

// Clients is the roster snapshot sent after every registry change.
type Clients struct {
	Type string   `json:"type"`
	ID   string   `json:"id"` // the recipient's own name
	List []string `json:"list"`
}

// Invitation is an invitation lifecycle notice.
type Invitation struct {
	Type           string `json:"type"`
	From           string `json:"from"`
	InvitationType string `json:"invitationType"` // received, accepted, rejected
}

// Countdown is a pre-game countdown tick.
type Countdown struct {
	Type    string `json:"type"`
	Seconds int    `json:"seconds"`
}

// GameView is the per-recipient game portion of a serverData frame.
type GameView struct {
	Status   string      `json:"status"`
	Turn     string      `json:"turn"`
	Winner   string      `json:"winner,omitempty"`
	Board    [][]string  `json:"board"`
	LastMove *model.Move `json:"lastMove,omitempty"`
	Color    string      `json:"color"`
	Opponent string      `json:"opponent"`
}

// ServerData is the full state snapshot.
type ServerData struct {
	Type        string    `json:"type"`
	ClientName  string    `json:"clientName"`
	ClientsList []string  `json:"clientsList"`
	Game        *GameView `json:"game,omitempty"`
}

// GameResult is the terminal notice for a finished match.
type GameResult struct {
	Type   string `json:"type"`
	Result string `json:"result"` // win, lose, draw
	Winner string `json:"winner,omitempty"`
}

// OpponentDisconnected notifies the remaining player of a mid-match leave.
type OpponentDisconnected struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Error surfaces a rule violation to the offending client.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (Clients) isServerMessage()              {}
func (Invitation) isServerMessage()           {}
func (Countdown) isServerMessage()            {}
func (ServerData) isServerMessage()           {}
func (GameResult) isServerMessage()           {}
func (OpponentDisconnected) isServerMessage() {}
func (Error) isServerMessage()                {}

// NewClients builds a roster frame for one recipient
func NewClients(recipient string, names []string) Clients {
	return Clients{Type: TypeClients, ID: recipient, List: names}
}

// NewInvitation builds an invitation notice
func NewInvitation(from, kind string) Invitation {
	return Invitation{Type: TypeInvitation, From: from, InvitationType: kind}
}

// NewCountdown builds a countdown tick frame
func NewCountdown(seconds int) Countdown {
	return Countdown{Type: TypeCountdown, Seconds: seconds}
}

// NewError builds an error frame
func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}

// NewOpponentDisconnected builds a disconnect notice
func NewOpponentDisconnected(name string) OpponentDisconnected {
	return OpponentDisconnected{Type: TypeOpponentDisconnected, Name: name}
}

// NewServerData builds a snapshot frame for one recipient
func NewServerData(recipient string, roster []string, view *model.SessionView) ServerData {
	msg := ServerData{
		Type:        TypeServerData,
		ClientName:  recipient,
		ClientsList: roster,
	}
	if view != nil {
		msg.Game = &GameView{
			Status:   string(view.Status),
			Turn:     string(view.Turn),
			Winner:   view.Winner,
			Board:    view.Board,
			LastMove: view.LastMove,
			Color:    string(view.Color),
			Opponent: string(view.Opponent),
		}
	}
	return msg
}

// NewGameResult builds a terminal notice for one recipient
func NewGameResult(recipient string, winner string) GameResult {
	msg := GameResult{Type: TypeGameResult, Winner: winner}
	switch winner {
	case model.WinnerDraw:
		msg.Result = ResultDraw
		msg.Winner = ""
	case recipient:
		msg.Result = ResultWin
	default:
		msg.Result = ResultLose
	}
	return msg
}
