package game

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is a session's position in its forward-only lifecycle.
type Phase string

const (
	PhaseSelection Phase = "selection"
	PhaseReady     Phase = "ready"
	PhasePlaying   Phase = "playing"
	PhaseEnded     Phase = "ended"
)

// Settings holds one session's tunables.
type Settings struct {
	SelectionSeconds int
	ReadySeconds     int
	FirstCallDelay   time.Duration
	CallInterval     time.Duration
	ResetDelay       time.Duration
	MinPlayers       int
	MaxPlayers       int
	CardsPerPlayer   int
	TotalCards       int
	EntryPrice       float64
	Commission       float64
}

func DefaultSettings() Settings {
	return Settings{
		SelectionSeconds: 60,
		ReadySeconds:     3,
		FirstCallDelay:   time.Second,
		CallInterval:     5 * time.Second,
		ResetDelay:       30 * time.Second,
		MinPlayers:       2,
		MaxPlayers:       10,
		CardsPerPlayer:   2,
		TotalCards:       TotalCards,
		EntryPrice:       10,
		Commission:       0.10,
	}
}

// Player is one connected participant's session-side record. The connection
// itself lives in the transport layer; the session only knows the id.
type Player struct {
	ID       string
	Name     string
	Ready    bool
	JoinedAt time.Time

	marked map[int]map[int]bool // card id -> numbers the player marked
}

const (
	timerSelection = "selection"
	timerReady     = "ready"
	timerFirstCall = "first_call"
	timerCalling   = "calling"
	timerReset     = "reset"
)

// Session runs one bingo round from card selection through a declared (or
// absent) winner. Every command and every timer callback takes mu, so state
// changes and the events they emit are strictly ordered.
type Session struct {
	ID string

	settings Settings
	catalog  *CardCatalog
	sched    Scheduler
	sink     EventSink
	rand     *rand.Rand
	log      *zap.SugaredLogger

	mu            sync.Mutex
	phase         Phase
	registry      *CardRegistry
	caller        *NumberCaller
	players       map[string]*Player
	called        []int
	calledSet     map[int]bool
	current       int
	selectionLeft int
	readyLeft     int
	prizePool     float64
	winner        *WinnerInfo
	emptySince    time.Time
}

func NewSession(id string, settings Settings, catalog *CardCatalog, sched Scheduler, sink EventSink, rng *rand.Rand, log *zap.SugaredLogger) *Session {
	return &Session{
		ID:       id,
		settings: settings,
		catalog:  catalog,
		sched:    sched,
		sink:     sink,
		rand:     rng,
		log:      log,
	}
}

// Start moves the session into its first selection phase.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Close cancels every timer. Used when the registry destroys the session.
func (s *Session) Close() {
	s.sched.CancelAll()
}

func (s *Session) resetLocked() {
	s.phase = PhaseSelection
	s.registry = NewCardRegistry(s.settings.TotalCards, s.settings.CardsPerPlayer)
	s.caller = nil
	s.players = make(map[string]*Player)
	s.called = nil
	s.calledSet = make(map[int]bool)
	s.current = 0
	s.selectionLeft = s.settings.SelectionSeconds
	s.prizePool = 0
	s.winner = nil
	s.emptySince = time.Now()

	s.sink.Broadcast(PhaseChangeEvent{Phase: PhaseSelection})
	s.sched.Repeat(timerSelection, time.Second, s.selectionTick)
	s.log.Infof("[Session %s] selection phase started (%ds)", s.ID, s.selectionLeft)
}

// -------------------- Commands --------------------

func (s *Session) Join(cmd JoinCommand) error {
	if cmd.PlayerID == "" || cmd.PlayerName == "" {
		return fmt.Errorf("%w: playerId and playerName are required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSelection {
		return fmt.Errorf("%w: cannot join during %s phase", ErrConflict, s.phase)
	}
	if _, ok := s.players[cmd.PlayerID]; ok {
		return fmt.Errorf("%w: player %s already in session", ErrConflict, cmd.PlayerID)
	}
	if len(s.players) >= s.settings.MaxPlayers {
		return fmt.Errorf("%w: session is full", ErrConflict)
	}

	p := &Player{
		ID:       cmd.PlayerID,
		Name:     cmd.PlayerName,
		JoinedAt: time.Now(),
		marked:   make(map[int]map[int]bool),
	}
	s.players[p.ID] = p
	s.prizePool += s.settings.EntryPrice
	s.emptySince = time.Time{}

	s.sink.Send(p.ID, JoinedEvent{PlayerID: p.ID, Session: s.snapshotLocked()})
	s.sink.Broadcast(PlayerJoinedEvent{Player: s.summaryLocked(p), PlayerCount: len(s.players)})
	s.log.Infof("[Session %s] player %s (%s) joined (total=%d)", s.ID, p.ID, p.Name, len(s.players))
	return nil
}

// Leave removes the player, frees their cards and, mid-game, ends the round
// when too few players remain. Called by the transport on disconnect.
func (s *Session) Leave(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[playerID]; !ok {
		return fmt.Errorf("%w: unknown player %s", ErrNotFound, playerID)
	}
	delete(s.players, playerID)
	released := s.registry.ReleaseAll(playerID)
	if s.phase == PhaseSelection {
		s.prizePool -= s.settings.EntryPrice
	}
	if len(s.players) == 0 {
		s.emptySince = time.Now()
	}

	s.sink.Broadcast(PlayerLeftEvent{PlayerID: playerID, PlayerCount: len(s.players)})
	if len(released) > 0 {
		s.broadcastCardsLocked()
	}
	s.log.Infof("[Session %s] player %s left (total=%d)", s.ID, playerID, len(s.players))

	if s.phase == PhasePlaying && len(s.players) < s.settings.MinPlayers {
		s.endLocked(nil, "not_enough_players")
	}
	return nil
}

func (s *Session) ReserveCard(cmd ReserveCardCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSelection {
		return fmt.Errorf("%w: cannot select cards during %s phase", ErrConflict, s.phase)
	}
	if _, ok := s.players[cmd.PlayerID]; !ok {
		return fmt.Errorf("%w: unknown player %s", ErrNotFound, cmd.PlayerID)
	}

	released, err := s.registry.Reserve(cmd.PlayerID, cmd.CardID)
	if err != nil {
		return err
	}
	if released {
		s.log.Infof("[Session %s] player %s released card %d by re-selecting it", s.ID, cmd.PlayerID, cmd.CardID)
	} else {
		s.log.Infof("[Session %s] player %s reserved card %d", s.ID, cmd.PlayerID, cmd.CardID)
	}
	s.broadcastCardsLocked()
	return nil
}

func (s *Session) ReleaseCard(cmd ReleaseCardCommand) error {
	if cmd.CardID < 1 || cmd.CardID > s.settings.TotalCards {
		return fmt.Errorf("%w: card id %d out of range 1..%d", ErrInvalidInput, cmd.CardID, s.settings.TotalCards)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSelection {
		return fmt.Errorf("%w: cannot release cards during %s phase", ErrConflict, s.phase)
	}
	if _, ok := s.players[cmd.PlayerID]; !ok {
		return fmt.Errorf("%w: unknown player %s", ErrNotFound, cmd.PlayerID)
	}

	s.registry.Release(cmd.PlayerID, cmd.CardID)
	s.broadcastCardsLocked()
	return nil
}

func (s *Session) MarkReady(cmd ReadyCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSelection {
		return fmt.Errorf("%w: cannot ready up during %s phase", ErrConflict, s.phase)
	}
	p, ok := s.players[cmd.PlayerID]
	if !ok {
		return fmt.Errorf("%w: unknown player %s", ErrNotFound, cmd.PlayerID)
	}

	p.Ready = true
	s.sink.Broadcast(PlayerReadyEvent{PlayerID: p.ID})

	if len(s.players) >= s.settings.MinPlayers && s.allReadyLocked() {
		s.sched.Cancel(timerSelection)
		s.log.Infof("[Session %s] all %d players ready, ending selection early", s.ID, len(s.players))
		s.finishSelectionLocked()
	}
	return nil
}

// MarkNumber records a player's local mark. Pure bookkeeping: the mark only
// matters when a win claim is verified against the call log.
func (s *Session) MarkNumber(cmd MarkNumberCommand) error {
	if cmd.Number < 1 || cmd.Number > CallMax {
		return fmt.Errorf("%w: number %d out of range 1..%d", ErrInvalidInput, cmd.Number, CallMax)
	}
	if cmd.CardID < 1 || cmd.CardID > s.settings.TotalCards {
		return fmt.Errorf("%w: card id %d out of range 1..%d", ErrInvalidInput, cmd.CardID, s.settings.TotalCards)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying {
		return fmt.Errorf("%w: cannot mark numbers during %s phase", ErrConflict, s.phase)
	}
	p, ok := s.players[cmd.PlayerID]
	if !ok {
		return fmt.Errorf("%w: unknown player %s", ErrNotFound, cmd.PlayerID)
	}
	if owner, taken := s.registry.Owner(cmd.CardID); !taken || owner != cmd.PlayerID {
		return fmt.Errorf("%w: card %d not owned by player", ErrConflict, cmd.CardID)
	}

	if p.marked[cmd.CardID] == nil {
		p.marked[cmd.CardID] = make(map[int]bool)
	}
	p.marked[cmd.CardID][cmd.Number] = true
	return nil
}

func (s *Session) ClaimWin(cmd ClaimWinCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.winner != nil {
		return fmt.Errorf("%w: a winner has already been declared", ErrClaimRejected)
	}
	if s.phase != PhasePlaying {
		return fmt.Errorf("%w: cannot claim a win during %s phase", ErrConflict, s.phase)
	}
	p, ok := s.players[cmd.PlayerID]
	if !ok {
		return fmt.Errorf("%w: unknown player %s", ErrNotFound, cmd.PlayerID)
	}

	card, err := s.catalog.CardFor(cmd.CardID)
	if err != nil {
		return err
	}
	if owner, taken := s.registry.Owner(cmd.CardID); !taken || owner != cmd.PlayerID {
		return fmt.Errorf("%w: card %d not owned by player", ErrClaimRejected, cmd.CardID)
	}

	// Fold the claim's marks into the player's bookkeeping: mark_number
	// messages may still be in flight when the claim arrives.
	marked := p.marked[cmd.CardID]
	if marked == nil {
		marked = make(map[int]bool)
		p.marked[cmd.CardID] = marked
	}
	for _, n := range cmd.MarkedNumbers {
		if n >= 1 && n <= CallMax {
			marked[n] = true
		}
	}

	wins := VerifyWin(card, marked, s.calledSet)
	if len(wins) == 0 {
		s.log.Infof("[Session %s] player %s claimed bingo on card %d and failed", s.ID, cmd.PlayerID, cmd.CardID)
		return fmt.Errorf("%w: no winning pattern on card %d", ErrClaimRejected, cmd.CardID)
	}

	pattern := wins[0].Name
	for _, w := range wins {
		if cmd.Pattern != "" && w.Name == cmd.Pattern {
			pattern = w.Name
			break
		}
	}

	winner := &WinnerInfo{
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		CardID:      cmd.CardID,
		Pattern:     pattern,
		Patterns:    wins,
		Prize:       s.prizePool * (1 - s.settings.Commission),
		CalledCount: len(s.called),
	}
	s.log.Infof("[Session %s] player %s wins with %s on card %d", s.ID, p.ID, pattern, cmd.CardID)
	s.endLocked(winner, "winner")
	return nil
}

// -------------------- Timer callbacks --------------------

func (s *Session) selectionTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSelection {
		return
	}

	s.selectionLeft--
	if s.selectionLeft < 0 {
		s.selectionLeft = 0
	}
	s.sink.Broadcast(SelectionCountdownEvent{Seconds: s.selectionLeft})
	if s.selectionLeft > 0 {
		return
	}

	if len(s.players) == 0 {
		// nobody showed up; keep waiting
		s.selectionLeft = s.settings.SelectionSeconds
		return
	}

	s.sched.Cancel(timerSelection)
	s.finishSelectionLocked()
}

// finishSelectionLocked hands every cardless player one card from the pool,
// then starts the ready countdown.
func (s *Session) finishSelectionLocked() {
	assigned := false
	for _, id := range s.playerIDsLocked() {
		if len(s.registry.CardsOf(id)) > 0 {
			continue
		}
		avail := s.registry.Available()
		if len(avail) == 0 {
			break
		}
		cardID := avail[s.rand.Intn(len(avail))]
		if _, err := s.registry.Reserve(id, cardID); err == nil {
			assigned = true
			s.log.Infof("[Session %s] auto-assigned card %d to player %s", s.ID, cardID, id)
		}
	}
	if assigned {
		s.broadcastCardsLocked()
	}

	s.phase = PhaseReady
	s.readyLeft = s.settings.ReadySeconds
	s.sink.Broadcast(PhaseChangeEvent{Phase: PhaseReady})
	s.sched.Repeat(timerReady, time.Second, s.readyTick)
	s.log.Infof("[Session %s] ready phase started", s.ID)
}

func (s *Session) readyTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReady {
		return
	}

	if s.readyLeft <= 0 {
		s.sink.Broadcast(ReadyCountdownEvent{Seconds: 0})
		s.sched.Cancel(timerReady)
		s.enterPlayingLocked()
		return
	}
	s.sink.Broadcast(ReadyCountdownEvent{Seconds: s.readyLeft})
	s.readyLeft--
}

func (s *Session) enterPlayingLocked() {
	s.phase = PhasePlaying
	s.caller = NewNumberCaller(s.rand)
	s.sink.Broadcast(PhaseChangeEvent{Phase: PhasePlaying})
	s.sched.Once(timerFirstCall, s.settings.FirstCallDelay, s.callTick)
	s.sched.Repeat(timerCalling, s.settings.CallInterval, s.callTick)
	s.log.Infof("[Session %s] playing phase started with %d players", s.ID, len(s.players))
}

func (s *Session) callTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePlaying {
		return
	}

	n, err := s.caller.Next()
	if err != nil {
		s.endLocked(nil, "numbers_exhausted")
		return
	}
	s.called = append(s.called, n)
	s.calledSet[n] = true
	s.current = n

	s.sink.Broadcast(NumberCalledEvent{
		Number:      n,
		Letter:      Letter(n),
		Display:     fmt.Sprintf("%s-%d", Letter(n), n),
		TotalCalled: len(s.called),
	})
	s.log.Infof("[Session %s] called %s-%d (%d/%d)", s.ID, Letter(n), n, len(s.called), CallMax)

	if len(s.called) >= CallMax {
		s.endLocked(nil, "numbers_exhausted")
	}
}

func (s *Session) resetTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseEnded {
		return
	}
	s.log.Infof("[Session %s] resetting for a new round", s.ID)
	s.resetLocked()
}

// endLocked is the only way into the Ended phase. It cancels every timer
// before the ended broadcast so no call can fire afterwards.
func (s *Session) endLocked(winner *WinnerInfo, reason string) {
	s.sched.CancelAll()
	s.phase = PhaseEnded
	s.winner = winner

	s.sink.Broadcast(PhaseChangeEvent{Phase: PhaseEnded})
	s.sink.Broadcast(SessionEndedEvent{Reason: reason, Winner: winner})
	if winner == nil {
		s.log.Infof("[Session %s] round ended with no winner (%s)", s.ID, reason)
	}

	s.sched.Once(timerReset, s.settings.ResetDelay, s.resetTick)
}

// -------------------- Views --------------------

// Snapshot returns a consistent copy of the session for REST and joins.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	players := make([]PlayerSummary, 0, len(s.players))
	for _, id := range s.playerIDsLocked() {
		players = append(players, s.summaryLocked(s.players[id]))
	}
	return Snapshot{
		SessionID:     s.ID,
		Phase:         s.phase,
		SelectionLeft: s.selectionLeft,
		CalledNumbers: append([]int(nil), s.called...),
		CurrentNumber: s.current,
		TakenCards:    s.registry.Taken(),
		Players:       players,
		PlayerCount:   len(s.players),
		PrizePool:     s.prizePool,
		Winner:        s.winner,
	}
}

func (s *Session) summaryLocked(p *Player) PlayerSummary {
	return PlayerSummary{
		ID:    p.ID,
		Name:  p.Name,
		Ready: p.Ready,
		Cards: s.registry.CardsOf(p.ID),
	}
}

func (s *Session) playerIDsLocked() []string {
	ids := make([]string, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Session) broadcastCardsLocked() {
	taken := s.registry.Taken()
	owners := make(map[int]string, len(taken))
	for _, id := range taken {
		owner, _ := s.registry.Owner(id)
		owners[id] = owner
	}
	s.sink.Broadcast(CardsUpdateEvent{TakenCards: taken, Owners: owners})
}

func (s *Session) allReadyLocked() bool {
	for _, p := range s.players {
		if !p.Ready {
			return false
		}
	}
	return len(s.players) > 0
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// PlayerCount returns the number of joined players.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// EmptyFor reports whether the session has had no players for at least d.
func (s *Session) EmptyFor(d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players) == 0 && !s.emptySince.IsZero() && time.Since(s.emptySince) >= d
}
