// Package broadcast drives the fixed-rate fan-out of session state to the
// participants of every active match.
package broadcast

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/protocol"
	"github.com/dropfour/dropfour/internal/services/match"
)

// Sender pushes a frame to a player's connection. A false return means the
// player has no live connection; the frame is dropped.
type Sender interface {
	Send(name model.PlayerName, msg protocol.ServerMessage) bool
}

// Roster supplies the current player list for snapshot frames
type Roster interface {
	Names() []string
}

// Scheduler ticks every active session at a fixed rate and sends whatever
// each tick asks for. It is the only component that removes finished
// sessions from the directory, after their terminal report has gone out.
type Scheduler struct {
	directory *match.Directory
	roster    Roster
	sender    Sender
	interval  time.Duration
	logger    *zap.Logger
}

// NewScheduler creates a scheduler ticking tickRate times per second
func NewScheduler(directory *match.Directory, roster Roster, sender Sender, tickRate int, logger *zap.Logger) *Scheduler {
	if tickRate <= 0 {
		tickRate = 30
	}
	return &Scheduler{
		directory: directory,
		roster:    roster,
		sender:    sender,
		interval:  time.Second / time.Duration(tickRate),
		logger:    logger,
	}
}

// Run ticks until the context is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("broadcast scheduler running", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("broadcast scheduler stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	sessions := s.directory.Active()
	if len(sessions) == 0 {
		return
	}

	roster := s.roster.Names()
	for _, sess := range sessions {
		out := sess.Tick()
		red, yellow := sess.Players()

		// A disconnect unbinds the leaver while the session lingers for
		// its final report; their name may already belong to a new player
		// who must not receive this session's frames
		recipients := make([]model.PlayerName, 0, 2)
		for _, p := range [2]model.PlayerName{red, yellow} {
			if cur, ok := s.directory.Find(p); ok && cur == sess {
				recipients = append(recipients, p)
			}
		}

		switch {
		case out.CountdownSeconds != nil:
			msg := protocol.NewCountdown(*out.CountdownSeconds)
			for _, p := range recipients {
				s.sender.Send(p, msg)
			}

		case out.Snapshot:
			for _, p := range recipients {
				view := sess.View(p)
				s.sender.Send(p, protocol.NewServerData(string(p), roster, &view))
			}
		}

		if out.Report {
			winner := sess.Winner()
			for _, p := range recipients {
				s.sender.Send(p, protocol.NewGameResult(string(p), winner))
			}
		}

		if out.Remove {
			s.directory.Remove(sess.ID())
			s.logger.Info("session removed", zap.String("session_id", string(sess.ID())))
		}
	}
}
