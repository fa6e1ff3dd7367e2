package match

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/dependencies/clock"
	"github.com/dropfour/dropfour/internal/model"
)

// Config holds match timing settings
type Config struct {
	// CountdownSeconds is the pre-game countdown duration
	CountdownSeconds int
	// TickRate is the scheduler frequency in ticks per second; the
	// countdown is held internally in ticks
	TickRate int
}

// DefaultConfig returns the standard match timing
func DefaultConfig() Config {
	return Config{
		CountdownSeconds: 3,
		TickRate:         30,
	}
}

// Service creates sessions and owns their directory
type Service struct {
	directory *Directory
	clock     clock.Clock
	cfg       Config
	logger    *zap.Logger
}

// NewService creates a match service
func NewService(directory *Directory, clk clock.Clock, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		directory: directory,
		clock:     clk,
		cfg:       cfg,
		logger:    logger,
	}
}

// Directory exposes the session directory
func (s *Service) Directory() *Directory {
	return s.directory
}

// Create builds a session for an accepted invitation and registers it. The
// inviter plays red. It fails with model.ErrAlreadyBound when either player
// already has a session; no partial session is left behind.
func (s *Service) Create(red, yellow model.PlayerName) (*Session, error) {
	sess := newSession(
		model.SessionID(uuid.NewString()),
		red,
		yellow,
		s.cfg.CountdownSeconds*s.cfg.TickRate,
		s.cfg.TickRate,
		s.clock.Now(),
	)

	if err := s.directory.Add(sess); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		zap.String("session_id", string(sess.ID())),
		zap.String("red", string(red)),
		zap.String("yellow", string(yellow)),
	)
	return sess, nil
}

// Find returns the session involving the named player
func (s *Service) Find(name model.PlayerName) (*Session, bool) {
	return s.directory.Find(name)
}

// HandleDisconnect force-finishes the leaver's session, if any. The session
// stays in the directory for one final broadcast; the scheduler removes it
// after reporting. The leaver is unbound immediately, so their freed name
// can enter a new match before that removal. Returns the session, the
// declared winner, and whether a transition happened.
func (s *Service) HandleDisconnect(name model.PlayerName) (*Session, model.PlayerName, bool) {
	sess, ok := s.directory.Find(name)
	if !ok {
		return nil, "", false
	}

	winner, changed := sess.ForceFinish(name)
	s.directory.Unbind(name)
	if changed {
		s.logger.Info("session finished by disconnect",
			zap.String("session_id", string(sess.ID())),
			zap.String("leaver", string(name)),
			zap.String("winner", string(winner)),
		)
	}
	return sess, winner, changed
}
