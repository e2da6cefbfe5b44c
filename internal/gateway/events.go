package gateway

import (
	"encoding/json"

	"github.com/mkarahan/worlddominion/internal/model"
)

// Event type names shared with the browser client
const (
	EventPlayerJoin           = "playerJoin"
	EventPlayerJoined         = "playerJoined"
	EventChatMessage          = "chatMessage"
	EventGameStateUpdate      = "gameStateUpdate"
	EventDiplomacyAction      = "diplomacyAction"
	EventDiplomacyProposal    = "diplomacyProposal"
	EventTechResearch         = "techResearch"
	EventTechResearchComplete = "techResearchComplete"
	EventBuildStructure       = "buildStructure"
	EventBuildingComplete     = "buildingComplete"
	EventPlayerLeft           = "playerLeft"
	EventServerShutdown       = "serverShutdown"
	EventError                = "error"
)

// Envelope frames every websocket message in both directions
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// marshalEvent frames a payload into a wire-ready envelope
func marshalEvent(eventType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Data: data})
}

// Inbound payloads (client to server)

// PlayerJoinPayload binds a connection to a new player identity
type PlayerJoinPayload struct {
	PlayerName string `json:"playerName"`
	Country    string `json:"country"`
}

// ChatMessagePayload carries raw chat text
type ChatMessagePayload struct {
	Message string `json:"message"`
}

// GameStateUpdatePayload carries a whitelisted partial player update
type GameStateUpdatePayload struct {
	Player   model.PlayerDelta `json:"player"`
	WorldAge int64             `json:"worldAge"`
}

// DiplomacyActionPayload proposes a diplomatic action to a room member
type DiplomacyActionPayload struct {
	TargetPlayerID model.PlayerID  `json:"targetPlayerId"`
	Action         string          `json:"action"`
	Details        json.RawMessage `json:"details,omitempty"`
}

// TechResearchPayload requests research. Cost is what the client thinks
// the technology costs; the server validates against its own table and
// ignores this field.
type TechResearchPayload struct {
	TechID model.TechID `json:"techId"`
	Cost   int          `json:"cost,omitempty"`
}

// BuildStructurePayload requests construction. Cost is ignored in favor
// of the server's building catalog.
type BuildStructurePayload struct {
	BuildingType model.BuildingType `json:"buildingType"`
	Cost         model.Cost         `json:"cost,omitempty"`
}

// Outbound payloads (server to client)

// RoomSnapshot is the room summary sent to a joining player
type RoomSnapshot struct {
	ID      model.RoomID    `json:"id"`
	Players []*model.Player `json:"players"`
}

// PlayerJoinedPayload is sent to the joining connection. Other room
// members receive the bare player object instead.
type PlayerJoinedPayload struct {
	Player *model.Player `json:"player"`
	Room   RoomSnapshot  `json:"room"`
}

// ChatBroadcast is the stamped chat message fanned out to the room
type ChatBroadcast struct {
	ID         int64          `json:"id"`
	PlayerID   model.PlayerID `json:"playerId"`
	PlayerName string         `json:"playerName"`
	Message    string         `json:"message"`
	Timestamp  int64          `json:"timestamp"`
	Type       string         `json:"type"`
}

// GameStateBroadcast carries one player's updated record to the room
type GameStateBroadcast struct {
	PlayerID model.PlayerID `json:"playerId"`
	Player   *model.Player  `json:"player"`
	WorldAge int64          `json:"worldAge"`
}

// DiplomacyProposalPayload is the proposal event fanned out to the room
type DiplomacyProposalPayload struct {
	From      *model.Player   `json:"from"`
	To        *model.Player   `json:"to"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// TechResearchCompletePayload confirms research to the requester
type TechResearchCompletePayload struct {
	TechID model.TechID  `json:"techId"`
	Player *model.Player `json:"player"`
}

// BuildingCompletePayload confirms construction to the requester
type BuildingCompletePayload struct {
	BuildingType model.BuildingType `json:"buildingType"`
	Player       *model.Player      `json:"player"`
}

// ServerShutdownPayload warns clients of imminent shutdown
type ServerShutdownPayload struct {
	Message   string `json:"message"`
	Countdown int    `json:"countdown"`
}

// ErrorPayload reports a rejected action to the sender
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
