package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Connect to the server and play interactively",
		Long: `Connects to the server and enters an interactive session.

Commands:
  invite <name>   invite a player to a match
  accept <name>   accept a pending invitation
  reject <name>   decline a pending invitation
  drop <col>      drop a piece into column 0-6
  quit            disconnect and exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context())
		},
	}
}

func runPlay(parent context.Context) error {
	out := NewOutput(cfg.Output)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	client, err := Dial(ctx, cfg.ServerURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Ready(ctx); err != nil {
		return err
	}

	// Reader goroutine prints frames as they arrive
	readDone := make(chan error, 1)
	go func() {
		for {
			msg, err := client.Read(ctx)
			if err != nil {
				readDone <- err
				return
			}
			out.PrintFrame(msg)
		}
	}()

	// Stdin loop issues commands until quit or EOF
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readDone:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := handleCommand(ctx, client, out, line); quit {
				return nil
			}
		}
	}
}

// handleCommand runs one interactive command; true means quit
func handleCommand(ctx context.Context, client *Client, out *Output, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	var err error
	switch fields[0] {
	case "quit", "exit":
		return true

	case "invite":
		if len(fields) < 2 {
			out.PrintError(fmt.Errorf("usage: invite <name>"))
			return false
		}
		err = client.Invite(ctx, strings.Join(fields[1:], " "))

	case "accept":
		if len(fields) < 2 {
			out.PrintError(fmt.Errorf("usage: accept <name>"))
			return false
		}
		err = client.Accept(ctx, strings.Join(fields[1:], " "))

	case "reject":
		if len(fields) < 2 {
			out.PrintError(fmt.Errorf("usage: reject <name>"))
			return false
		}
		err = client.Reject(ctx, strings.Join(fields[1:], " "))

	case "drop":
		if len(fields) != 2 {
			out.PrintError(fmt.Errorf("usage: drop <col>"))
			return false
		}
		col, convErr := strconv.Atoi(fields[1])
		if convErr != nil {
			out.PrintError(fmt.Errorf("column must be a number"))
			return false
		}
		err = client.Play(ctx, col)

	default:
		out.PrintError(fmt.Errorf("unknown command %q", fields[0]))
		return false
	}

	if err != nil {
		out.PrintError(err)
	}
	return false
}
