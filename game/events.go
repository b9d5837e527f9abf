package game

// Commands are the client-originated requests, one type per wire action.
// The transport decodes the envelope's data field into the matching struct
// before calling the session; unknown or malformed payloads never reach the
// engine.

type JoinCommand struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type ReserveCardCommand struct {
	PlayerID string `json:"playerId"`
	CardID   int    `json:"cardId"`
}

type ReleaseCardCommand struct {
	PlayerID string `json:"playerId"`
	CardID   int    `json:"cardId"`
}

type ReadyCommand struct {
	PlayerID string `json:"playerId"`
}

type MarkNumberCommand struct {
	PlayerID string `json:"playerId"`
	CardID   int    `json:"cardId"`
	Number   int    `json:"number"`
}

type ClaimWinCommand struct {
	PlayerID      string `json:"playerId"`
	CardID        int    `json:"cardId"`
	Pattern       string `json:"pattern"`
	MarkedNumbers []int  `json:"markedNumbers"`
}

// Event is a server-originated message. Type is the wire discriminator.
type Event interface {
	Type() string
}

// EventSink receives session events in processing order. Implementations
// must not block and must not call back into the session: events are
// emitted while the session lock is held.
type EventSink interface {
	Broadcast(ev Event)
	Send(playerID string, ev Event)
}

// Envelope is the wire framing for events.
type Envelope struct {
	Type string `json:"type"`
	Data Event  `json:"data"`
}

type PlayerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Cards []int  `json:"cards"`
}

// Snapshot is the full session view sent to a joining player, so a client
// can render mid-countdown without replaying prior events.
type Snapshot struct {
	SessionID     string          `json:"sessionId"`
	Phase         Phase           `json:"phase"`
	SelectionLeft int             `json:"selectionLeft"`
	CalledNumbers []int           `json:"calledNumbers"`
	CurrentNumber int             `json:"currentNumber"`
	TakenCards    []int           `json:"takenCards"`
	Players       []PlayerSummary `json:"players"`
	PlayerCount   int             `json:"playerCount"`
	PrizePool     float64         `json:"prizePool"`
	Winner        *WinnerInfo     `json:"winner,omitempty"`
}

func (Snapshot) Type() string { return "session_state" }

type JoinedEvent struct {
	PlayerID string   `json:"playerId"`
	Session  Snapshot `json:"session"`
}

func (JoinedEvent) Type() string { return "joined" }

type PlayerJoinedEvent struct {
	Player      PlayerSummary `json:"player"`
	PlayerCount int           `json:"playerCount"`
}

func (PlayerJoinedEvent) Type() string { return "player_joined" }

type PlayerLeftEvent struct {
	PlayerID    string `json:"playerId"`
	PlayerCount int    `json:"playerCount"`
}

func (PlayerLeftEvent) Type() string { return "player_left" }

// CardsUpdateEvent follows every reservation change so all clients share
// one view of the pool.
type CardsUpdateEvent struct {
	TakenCards []int          `json:"takenCards"`
	Owners     map[int]string `json:"owners"`
}

func (CardsUpdateEvent) Type() string { return "cards_update" }

type PlayerReadyEvent struct {
	PlayerID string `json:"playerId"`
}

func (PlayerReadyEvent) Type() string { return "player_ready" }

type PhaseChangeEvent struct {
	Phase Phase `json:"phase"`
}

func (PhaseChangeEvent) Type() string { return "phase_change" }

type SelectionCountdownEvent struct {
	Seconds int `json:"seconds"`
}

func (SelectionCountdownEvent) Type() string { return "selection_countdown" }

type ReadyCountdownEvent struct {
	Seconds int `json:"seconds"`
}

func (ReadyCountdownEvent) Type() string { return "ready_countdown" }

type NumberCalledEvent struct {
	Number      int    `json:"number"`
	Letter      string `json:"letter"`
	Display     string `json:"display"`
	TotalCalled int    `json:"totalCalled"`
}

func (NumberCalledEvent) Type() string { return "number_called" }

type WinnerInfo struct {
	PlayerID    string    `json:"playerId"`
	PlayerName  string    `json:"playerName"`
	CardID      int       `json:"cardId"`
	Pattern     string    `json:"pattern"`
	Patterns    []Pattern `json:"patterns"`
	Prize       float64   `json:"prize"`
	CalledCount int       `json:"calledCount"`
}

type SessionEndedEvent struct {
	Reason string      `json:"reason"`
	Winner *WinnerInfo `json:"winner,omitempty"`
}

func (SessionEndedEvent) Type() string { return "session_ended" }

// PongEvent answers a client ping.
type PongEvent struct{}

func (PongEvent) Type() string { return "pong" }

// RejectEvent goes only to the command's originator.
type RejectEvent struct {
	Action string `json:"action"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (RejectEvent) Type() string { return "rejected" }
