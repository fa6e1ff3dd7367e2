package identity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry([]string{"Amber", "Ruby", "Jade"}, testutil.NopLogger())
}

func (s *RegistrySuite) TestRegisterPopsNamesInOrder() {
	name, err := s.registry.Register("conn-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Amber"), name)

	name, err = s.registry.Register("conn-2")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Ruby"), name)
}

func (s *RegistrySuite) TestRegisterIsIdempotentPerConnection() {
	first, err := s.registry.Register("conn-1")
	s.Require().NoError(err)

	again, err := s.registry.Register("conn-1")
	s.Require().NoError(err)
	s.Equal(first, again)
	s.Len(s.registry.Names(), 1)
}

func (s *RegistrySuite) TestRegisterFailsOnEmptySeed() {
	empty := NewRegistry(nil, testutil.NopLogger())
	_, err := empty.Register("conn-1")
	s.ErrorIs(err, model.ErrNamePoolEmpty)
}

func (s *RegistrySuite) TestBidirectionalLookups() {
	name, err := s.registry.Register("conn-1")
	s.Require().NoError(err)

	got, ok := s.registry.NameOf("conn-1")
	s.True(ok)
	s.Equal(name, got)

	conn, ok := s.registry.ConnOf(name)
	s.True(ok)
	s.Equal(model.ConnID("conn-1"), conn)

	s.True(s.registry.IsConnected(name))
	s.False(s.registry.IsConnected("Nobody"))
}

func (s *RegistrySuite) TestUnregisterReturnsNameToPool() {
	_, _ = s.registry.Register("conn-1")
	_, _ = s.registry.Register("conn-2")
	_, _ = s.registry.Register("conn-3")

	name, ok := s.registry.Unregister("conn-2")
	s.True(ok)
	s.Equal(model.PlayerName("Ruby"), name)
	s.False(s.registry.IsConnected("Ruby"))

	_, ok = s.registry.Unregister("conn-2")
	s.False(ok)
}

func (s *RegistrySuite) TestFreedNameIsReusedFirst() {
	// Exhaust a pool of 3, free one, and the next registration takes it
	for i := 1; i <= 3; i++ {
		_, err := s.registry.Register(model.ConnID(fmt.Sprintf("conn-%d", i)))
		s.Require().NoError(err)
	}

	freed, ok := s.registry.Unregister("conn-1")
	s.True(ok)

	name, err := s.registry.Register("conn-4")
	s.Require().NoError(err)
	s.Equal(freed, name)
}

func (s *RegistrySuite) TestPoolWrapsWhenAllSeedNamesBound() {
	for i := 1; i <= 3; i++ {
		_, err := s.registry.Register(model.ConnID(fmt.Sprintf("conn-%d", i)))
		s.Require().NoError(err)
	}

	name, err := s.registry.Register("conn-4")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Amber 2"), name)
	s.Len(s.registry.Names(), 4)
}

func (s *RegistrySuite) TestNamesInRegistrationOrder() {
	_, _ = s.registry.Register("conn-1")
	_, _ = s.registry.Register("conn-2")
	s.Equal([]string{"Amber", "Ruby"}, s.registry.Names())

	_, _ = s.registry.Unregister("conn-1")
	s.Equal([]string{"Ruby"}, s.registry.Names())

	// Roster snapshot is a copy
	names := s.registry.Names()
	names[0] = "mutated"
	s.Equal([]string{"Ruby"}, s.registry.Names())
}
