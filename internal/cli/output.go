package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dropfour/dropfour/internal/protocol"
)

// Output renders server frames in the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// PrintFrame renders one server frame
func (o *Output) PrintFrame(msg protocol.ServerMessage) {
	if o.format == "json" {
		o.printJSON(msg)
		return
	}

	switch m := msg.(type) {
	case protocol.Clients:
		fmt.Printf("You are %s. Online: %s\n", m.ID, strings.Join(m.List, ", "))
	case protocol.Invitation:
		switch m.InvitationType {
		case protocol.InvitationReceived:
			fmt.Printf("%s invites you to play. Type 'accept %s' or 'reject %s'.\n", m.From, m.From, m.From)
		case protocol.InvitationAccepted:
			fmt.Printf("%s accepted your invitation!\n", m.From)
		case protocol.InvitationRejected:
			fmt.Printf("%s turned down your invitation.\n", m.From)
		}
	case protocol.Countdown:
		fmt.Printf("Game starts in %d...\n", m.Seconds)
	case protocol.ServerData:
		o.printGame(m)
	case protocol.GameResult:
		switch m.Result {
		case protocol.ResultWin:
			fmt.Println("You win!")
		case protocol.ResultLose:
			fmt.Printf("You lose. %s wins.\n", m.Winner)
		case protocol.ResultDraw:
			fmt.Println("Draw. The board is full.")
		}
	case protocol.OpponentDisconnected:
		fmt.Printf("%s disconnected.\n", m.Name)
	case protocol.Error:
		fmt.Fprintf(os.Stderr, "Error: %s\n", m.Message)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printGame(sd protocol.ServerData) {
	if sd.Game == nil {
		fmt.Printf("Online: %s\n", strings.Join(sd.ClientsList, ", "))
		return
	}

	g := sd.Game
	o.printBoard(g.Board)

	switch g.Status {
	case "finished":
		if g.Winner != "" {
			fmt.Printf("Finished. Winner: %s\n", g.Winner)
		} else {
			fmt.Println("Finished.")
		}
	default:
		marker := ""
		if g.Turn == sd.ClientName {
			marker = " (that's you)"
		}
		fmt.Printf("You play %s vs %s. Turn: %s%s\n", g.Color, g.Opponent, g.Turn, marker)
	}
}

func (o *Output) printBoard(board [][]string) {
	if len(board) == 0 {
		return
	}

	cols := len(board[0])

	fmt.Print("  ")
	for col := 0; col < cols; col++ {
		fmt.Printf(" %d ", col)
	}
	fmt.Println()

	fmt.Print("  +")
	for col := 0; col < cols; col++ {
		fmt.Print("--")
	}
	fmt.Println("-+")

	for _, row := range board {
		fmt.Print("  |")
		for _, cell := range row {
			if cell == " " || cell == "" {
				fmt.Print(" . ")
			} else {
				fmt.Printf(" %s ", cell)
			}
		}
		fmt.Println("|")
	}

	fmt.Print("  +")
	for col := 0; col < cols; col++ {
		fmt.Print("--")
	}
	fmt.Println("-+")
}
