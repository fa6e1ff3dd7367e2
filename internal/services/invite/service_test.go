package invite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dropfour/dropfour/internal/dependencies/mocks"
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/storage/memory"
	"github.com/dropfour/dropfour/internal/testutil"
)

type fakePresence map[model.PlayerName]bool

func (f fakePresence) IsConnected(name model.PlayerName) bool { return f[name] }

type fakeBinding map[model.PlayerName]bool

func (f fakeBinding) IsBound(name model.PlayerName) bool { return f[name] }

type notice struct {
	To          model.PlayerName
	Kind        NoticeKind
	Counterpart model.PlayerName
}

type fakeNotifier struct {
	notices     []notice
	unreachable map[model.PlayerName]bool
}

func (f *fakeNotifier) NotifyInvitation(to model.PlayerName, kind NoticeKind, counterpart model.PlayerName) bool {
	if f.unreachable[to] {
		return false
	}
	f.notices = append(f.notices, notice{To: to, Kind: kind, Counterpart: counterpart})
	return true
}

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *mocks.MockClock
	presence fakePresence
	binding  fakeBinding
	notifier *fakeNotifier
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.presence = fakePresence{"Amber": true, "Ruby": true, "Jade": true}
	s.binding = fakeBinding{}
	s.notifier = &fakeNotifier{unreachable: map[model.PlayerName]bool{}}
	s.service = NewService(
		memory.New(time.Minute),
		s.presence,
		s.binding,
		s.notifier,
		s.clock,
		Config{TTL: 30 * time.Second},
		testutil.NopLogger(),
	)
}

func (s *ServiceSuite) TestInviteDeliversAndRecords() {
	err := s.service.Invite(s.ctx, "Amber", "Ruby")
	s.Require().NoError(err)

	s.Require().Len(s.notifier.notices, 1)
	s.Equal(notice{To: "Ruby", Kind: NoticeReceived, Counterpart: "Amber"}, s.notifier.notices[0])

	inv, err := s.service.Accept(s.ctx, "Ruby", "Amber")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Amber"), inv.Origin)
	s.Equal(model.PlayerName("Ruby"), inv.Target)
}

func (s *ServiceSuite) TestInviteRejectsSelf() {
	err := s.service.Invite(s.ctx, "Amber", "Amber")
	s.ErrorIs(err, model.ErrSelfInvite)
	s.Empty(s.notifier.notices)
}

func (s *ServiceSuite) TestInviteRejectsDisconnectedTarget() {
	err := s.service.Invite(s.ctx, "Amber", "Nobody")
	s.ErrorIs(err, model.ErrTargetUnavailable)
}

func (s *ServiceSuite) TestInviteRejectsBusyTarget() {
	s.binding["Ruby"] = true
	err := s.service.Invite(s.ctx, "Amber", "Ruby")
	s.ErrorIs(err, model.ErrTargetUnavailable)
}

func (s *ServiceSuite) TestUndeliveredInviteIsNotRecorded() {
	s.notifier.unreachable["Ruby"] = true

	err := s.service.Invite(s.ctx, "Amber", "Ruby")
	s.ErrorIs(err, model.ErrDeliveryFailed)

	_, err = s.service.Accept(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)
}

func (s *ServiceSuite) TestNewerInviteSupersedesOlder() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Jade"))

	_, err := s.service.Accept(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)

	inv, err := s.service.Accept(s.ctx, "Jade", "Amber")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Jade"), inv.Target)
}

func (s *ServiceSuite) TestAcceptConsumesInvitation() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))

	_, err := s.service.Accept(s.ctx, "Ruby", "Amber")
	s.Require().NoError(err)

	_, err = s.service.Accept(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)
}

func (s *ServiceSuite) TestAcceptFailsWhenAcceptorBusy() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))

	s.binding["Ruby"] = true
	_, err := s.service.Accept(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrAlreadyInSession)
}

func (s *ServiceSuite) TestAcceptFailsForWrongTarget() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))

	_, err := s.service.Accept(s.ctx, "Jade", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)
}

func (s *ServiceSuite) TestRejectConsumesAndNotifiesOrigin() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))

	err := s.service.Reject(s.ctx, "Ruby", "Amber")
	s.Require().NoError(err)

	last := s.notifier.notices[len(s.notifier.notices)-1]
	s.Equal(notice{To: "Amber", Kind: NoticeRejected, Counterpart: "Ruby"}, last)

	_, err = s.service.Accept(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)

	err = s.service.Reject(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)
}

func (s *ServiceSuite) TestWatchdogExpiresPendingInvitation() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))

	s.clock.Advance(31 * time.Second)

	last := s.notifier.notices[len(s.notifier.notices)-1]
	s.Equal(notice{To: "Amber", Kind: NoticeRejected, Counterpart: "Ruby"}, last)

	_, err := s.service.Accept(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)
}

func (s *ServiceSuite) TestWatchdogIgnoresConsumedInvitation() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))
	_, err := s.service.Accept(s.ctx, "Ruby", "Amber")
	s.Require().NoError(err)

	before := len(s.notifier.notices)
	s.clock.Advance(31 * time.Second)
	s.Len(s.notifier.notices, before)
}

func (s *ServiceSuite) TestStaleWatchdogDoesNotKillSupersedingInvitation() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))

	// A fresher invitation replaces the first; the first watchdog fires on
	// schedule but must leave the replacement alone
	s.clock.Advance(10 * time.Second)
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Jade"))

	s.clock.Advance(21 * time.Second)

	inv, err := s.service.Accept(s.ctx, "Jade", "Amber")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Jade"), inv.Target)
}

func (s *ServiceSuite) TestDisconnectPurgesBothDirections() {
	s.Require().NoError(s.service.Invite(s.ctx, "Amber", "Ruby"))
	s.Require().NoError(s.service.Invite(s.ctx, "Jade", "Amber"))

	s.service.HandleDisconnect(s.ctx, "Amber")

	// Jade's invitation targeted the leaver, so Jade hears a rejection
	last := s.notifier.notices[len(s.notifier.notices)-1]
	s.Equal(notice{To: "Jade", Kind: NoticeRejected, Counterpart: "Amber"}, last)

	_, err := s.service.Accept(s.ctx, "Ruby", "Amber")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)
	_, err = s.service.Accept(s.ctx, "Amber", "Jade")
	s.ErrorIs(err, model.ErrNoMatchingInvitation)
}
