package gateway_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mkarahan/worlddominion/internal/api"
	"github.com/mkarahan/worlddominion/internal/factory"
	"github.com/mkarahan/worlddominion/internal/gateway"
	"github.com/mkarahan/worlddominion/internal/model"
	"github.com/mkarahan/worlddominion/internal/testutil"
)

type GatewaySuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
	wsURL  string
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.app = factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:       testutil.NopLogger(),
		Environment:  "test",
		Clock:        s.app.Clock,
		Registry:     s.app.Registry,
		RoomManager:  s.app.RoomManager,
		StatsService: s.app.StatsService,
		Gateway:      s.app.Gateway,
	})

	s.server = httptest.NewServer(router)
	s.wsURL = "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
}

func (s *GatewaySuite) TearDownTest() {
	s.server.Close()
}

func (s *GatewaySuite) dial() *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(s.wsURL, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *GatewaySuite) send(conn *websocket.Conn, eventType string, payload any) {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	env := gateway.Envelope{Type: eventType, Data: data}
	s.Require().NoError(conn.WriteJSON(env))
}

func (s *GatewaySuite) read(conn *websocket.Conn) gateway.Envelope {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var env gateway.Envelope
	s.Require().NoError(conn.ReadJSON(&env))
	return env
}

// expectSilence asserts nothing arrives on the connection within a short
// window. A read timeout also proves the server did not close the socket.
func (s *GatewaySuite) expectSilence(conn *websocket.Conn) {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond)))
	var env gateway.Envelope
	err := conn.ReadJSON(&env)
	s.Require().Error(err, "expected no event, got %s", env.Type)

	var netErr net.Error
	s.Require().ErrorAs(err, &netErr)
	s.True(netErr.Timeout())
}

// join connects a websocket, joins as a new player, and returns the
// connection with the join confirmation.
func (s *GatewaySuite) join(name, country string) (*websocket.Conn, gateway.PlayerJoinedPayload) {
	conn := s.dial()
	s.send(conn, gateway.EventPlayerJoin, gateway.PlayerJoinPayload{
		PlayerName: name,
		Country:    country,
	})

	env := s.read(conn)
	s.Require().Equal(gateway.EventPlayerJoined, env.Type)

	var payload gateway.PlayerJoinedPayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	return conn, payload
}

func (s *GatewaySuite) TestJoinCreatesPlayerAndRoom() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01")

	_, joined := s.join("Ava", "brazil")

	s.Equal("Ava", joined.Player.Name)
	s.Equal("brazil", joined.Player.Country)
	s.Equal(model.Resources{Gold: 1000, Production: 100, Science: 50, Military: 75}, joined.Player.Resources)
	s.NotEmpty(joined.Room.ID)
	s.Require().Len(joined.Room.Players, 1)
	s.Equal(joined.Player.ID, joined.Room.Players[0].ID)
}

func (s *GatewaySuite) TestJoinRejectsUnknownCountry() {
	conn := s.dial()
	s.send(conn, gateway.EventPlayerJoin, gateway.PlayerJoinPayload{
		PlayerName: "Ava",
		Country:    "atlantis",
	})

	env := s.read(conn)
	s.Equal(gateway.EventError, env.Type)

	var payload gateway.ErrorPayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal("INVALID_INPUT", payload.Code)
}

func (s *GatewaySuite) TestSecondJoinIsAnnouncedToRoom() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01", "bbbbbbbbb")

	first, _ := s.join("Ava", "brazil")
	_, second := s.join("Bo", "japan")

	env := s.read(first)
	s.Require().Equal(gateway.EventPlayerJoined, env.Type)

	var announced model.Player
	s.Require().NoError(json.Unmarshal(env.Data, &announced))
	s.Equal(second.Player.ID, announced.ID)
	s.Equal("Bo", announced.Name)
}

func (s *GatewaySuite) TestChatFansOutToWholeRoom() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01", "bbbbbbbbb")

	first, _ := s.join("Ava", "brazil")
	second, bo := s.join("Bo", "japan")
	// Drain the join announcement on the first connection
	s.read(first)

	s.send(second, gateway.EventChatMessage, gateway.ChatMessagePayload{Message: "hello world"})

	for _, conn := range []*websocket.Conn{first, second} {
		env := s.read(conn)
		s.Require().Equal(gateway.EventChatMessage, env.Type)

		var chat gateway.ChatBroadcast
		s.Require().NoError(json.Unmarshal(env.Data, &chat))
		s.Equal("hello world", chat.Message)
		s.Equal(bo.Player.ID, chat.PlayerID)
		s.Equal("Bo", chat.PlayerName)
	}
}

func (s *GatewaySuite) TestChatFloodIsThrottled() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01")

	conn, _ := s.join("Ava", "brazil")

	// The limiter allows a burst of five; the sixth message is dropped
	// with no error event and no close
	for i := 0; i < 6; i++ {
		s.send(conn, gateway.EventChatMessage, gateway.ChatMessagePayload{
			Message: fmt.Sprintf("message %d", i),
		})
	}

	for i := 0; i < 5; i++ {
		env := s.read(conn)
		s.Require().Equal(gateway.EventChatMessage, env.Type)

		var chat gateway.ChatBroadcast
		s.Require().NoError(json.Unmarshal(env.Data, &chat))
		s.Equal(fmt.Sprintf("message %d", i), chat.Message)
	}
	s.expectSilence(conn)

	// Tokens refill at one per second, so the connection chats again
	time.Sleep(1100 * time.Millisecond)
	s.send(conn, gateway.EventChatMessage, gateway.ChatMessagePayload{Message: "still here"})

	env := s.read(conn)
	s.Require().Equal(gateway.EventChatMessage, env.Type)

	var chat gateway.ChatBroadcast
	s.Require().NoError(json.Unmarshal(env.Data, &chat))
	s.Equal("still here", chat.Message)
}

func (s *GatewaySuite) TestBuildStructure() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01")

	conn, _ := s.join("Ava", "brazil")

	s.send(conn, gateway.EventBuildStructure, gateway.BuildStructurePayload{
		BuildingType: model.BuildingFactory,
	})

	env := s.read(conn)
	s.Require().Equal(gateway.EventBuildingComplete, env.Type)

	var payload gateway.BuildingCompletePayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal(model.BuildingFactory, payload.BuildingType)
	s.Equal(500, payload.Player.Resources.Gold)
	s.Equal(6, payload.Player.Buildings.Factories)
}

func (s *GatewaySuite) TestBuildUnknownTypeReturnsError() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01")

	conn, _ := s.join("Ava", "brazil")

	s.send(conn, gateway.EventBuildStructure, gateway.BuildStructurePayload{
		BuildingType: "castle",
	})

	env := s.read(conn)
	s.Require().Equal(gateway.EventError, env.Type)

	var payload gateway.ErrorPayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal("UNKNOWN_BUILDING", payload.Code)
}

func (s *GatewaySuite) TestTechResearchIgnoresClientCost() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01")

	conn, _ := s.join("Ava", "brazil")

	// Client claims the tech is free; the server charges its own table
	s.send(conn, gateway.EventTechResearch, gateway.TechResearchPayload{
		TechID: "gunpowder",
		Cost:   0,
	})

	env := s.read(conn)
	s.Require().Equal(gateway.EventTechResearchComplete, env.Type)

	var payload gateway.TechResearchCompletePayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal(model.TechID("gunpowder"), payload.TechID)
	s.Equal(0, payload.Player.Resources.Science)
	s.True(payload.Player.Technologies.Has("gunpowder"))
}

func (s *GatewaySuite) TestDiplomacyProposalReachesRoom() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01", "bbbbbbbbb")

	first, ava := s.join("Ava", "brazil")
	second, bo := s.join("Bo", "japan")
	s.read(first)

	s.send(first, gateway.EventDiplomacyAction, gateway.DiplomacyActionPayload{
		TargetPlayerID: bo.Player.ID,
		Action:         "propose_alliance",
	})

	env := s.read(second)
	s.Require().Equal(gateway.EventDiplomacyProposal, env.Type)

	var payload gateway.DiplomacyProposalPayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal(ava.Player.ID, payload.From.ID)
	s.Equal(bo.Player.ID, payload.To.ID)
	s.Equal("propose_alliance", payload.Action)
}

func (s *GatewaySuite) TestDiplomacyTargetOutsideRoomIsDropped() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01", "bbbbbbbbb")

	first, _ := s.join("Ava", "brazil")
	second, _ := s.join("Bo", "japan")
	s.read(first)

	// A real player, but never seated in the senders' room
	s.app.MockRandom.QueueString("ccccccccc")
	outsider, err := s.app.Registry.Create(context.Background(), "Cal", "france")
	s.Require().NoError(err)

	s.send(first, gateway.EventDiplomacyAction, gateway.DiplomacyActionPayload{
		TargetPlayerID: outsider.ID,
		Action:         "propose_alliance",
	})

	// No proposal reaches the room and the sender gets no error back
	s.expectSilence(second)
	s.expectSilence(first)
}

func (s *GatewaySuite) TestDiplomacyUnknownTargetIsDropped() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01")

	conn, _ := s.join("Ava", "brazil")

	s.send(conn, gateway.EventDiplomacyAction, gateway.DiplomacyActionPayload{
		TargetPlayerID: "player_0_nothere",
		Action:         "declare_war",
	})

	s.expectSilence(conn)
}

func (s *GatewaySuite) TestGameStateUpdateBroadcastsToOthers() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01", "bbbbbbbbb")

	first, ava := s.join("Ava", "brazil")
	second, _ := s.join("Bo", "japan")
	s.read(first)

	s.send(first, gateway.EventGameStateUpdate, gateway.GameStateUpdatePayload{
		Player: model.PlayerDelta{
			Resources: &model.Resources{Gold: 2000, Production: 100, Science: 50, Military: 75},
		},
		WorldAge: 42,
	})

	env := s.read(second)
	s.Require().Equal(gateway.EventGameStateUpdate, env.Type)

	var payload gateway.GameStateBroadcast
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal(ava.Player.ID, payload.PlayerID)
	s.Equal(2000, payload.Player.Resources.Gold)
	s.Equal(int64(42), payload.WorldAge)
}

func (s *GatewaySuite) TestDisconnectRemovesPlayerAndNotifiesRoom() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01", "bbbbbbbbb")

	first, ava := s.join("Ava", "brazil")
	second, _ := s.join("Bo", "japan")
	s.read(first)

	s.Require().NoError(first.Close())

	env := s.read(second)
	s.Require().Equal(gateway.EventPlayerLeft, env.Type)

	var leftID model.PlayerID
	s.Require().NoError(json.Unmarshal(env.Data, &leftID))
	s.Equal(ava.Player.ID, leftID)

	_, err := s.app.Registry.Get(context.Background(), ava.Player.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *GatewaySuite) TestShutdownBroadcast() {
	s.app.MockRandom.QueueString("aaaaaaaaa", "room01")

	conn, _ := s.join("Ava", "brazil")

	s.app.Gateway.BroadcastShutdown("Server is restarting", 10)

	env := s.read(conn)
	s.Require().Equal(gateway.EventServerShutdown, env.Type)

	var payload gateway.ServerShutdownPayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal("Server is restarting", payload.Message)
	s.Equal(10, payload.Countdown)
}
