package cards

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/hexdiamond/game/board"
)

// PlayerCards holds one player's card collections. Deck draws from the end.
type PlayerCards struct {
	Deck     []Card `json:"deck"`
	Hand     []Card `json:"hand"`
	Discard  []Card `json:"discard"`
	Pending  []Card `json:"pending"`
	Selected string `json:"selected,omitempty"`
}

func (p *PlayerCards) clone() *PlayerCards {
	return &PlayerCards{
		Deck:     append([]Card(nil), p.Deck...),
		Hand:     append([]Card(nil), p.Hand...),
		Discard:  append([]Card(nil), p.Discard...),
		Pending:  append([]Card(nil), p.Pending...),
		Selected: p.Selected,
	}
}

// Store keeps every player's cards. It is not safe for concurrent use.
type Store struct {
	spec             []CardSpec
	reshuffleDiscard bool
	rng              *rand.Rand
	newID            func() string
	players          map[int]*PlayerCards
}

// Option configures a Store.
type Option func(*Store)

// WithRand sets the shuffle source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// WithSeed seeds the shuffle source.
func WithSeed(seed int64) Option {
	return func(s *Store) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithReshuffleDiscard refills an empty deck from the discard pile instead
// of a fresh copy of the starting cards.
func WithReshuffleDiscard(enabled bool) Option {
	return func(s *Store) { s.reshuffleDiscard = enabled }
}

// WithIDGenerator overrides how card ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates a store whose decks are built from spec. A nil spec uses DefaultDeck.
func NewStore(spec []CardSpec, opts ...Option) *Store {
	if spec == nil {
		spec = DefaultDeck()
	}
	s := &Store{
		spec:    append([]CardSpec(nil), spec...),
		players: make(map[int]*PlayerCards),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Spec returns the starting multiset.
func (s *Store) Spec() []CardSpec {
	return append([]CardSpec(nil), s.spec...)
}

// EnsurePlayer initializes a player's deck on first use. Later calls are no-ops.
func (s *Store) EnsurePlayer(player int) *PlayerCards {
	p, ok := s.players[player]
	if !ok {
		p = &PlayerCards{Deck: s.freshDeck()}
		s.players[player] = p
	}
	return p
}

// Players returns the initialized player ids in ascending order.
func (s *Store) Players() []int {
	ids := make([]int, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Store) freshDeck() []Card {
	deck := make([]Card, 0, DeckSize(s.spec))
	for _, spec := range s.spec {
		for i := 0; i < spec.Count; i++ {
			deck = append(deck, Card{ID: s.newID(), Terrain: spec.Terrain, Range: spec.Range})
		}
	}
	s.shuffle(deck)
	return deck
}

func (s *Store) shuffle(deck []Card) {
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// refill replaces an empty deck. Returns false if nothing could be added.
func (s *Store) refill(p *PlayerCards) bool {
	if s.reshuffleDiscard {
		p.Deck = p.Discard
		p.Discard = nil
		s.shuffle(p.Deck)
		return len(p.Deck) > 0
	}
	p.Deck = s.freshDeck()
	return len(p.Deck) > 0
}

// Draw moves up to n cards from the deck into the pending queue. Pending
// cards are not playable until Land moves them into the hand.
func (s *Store) Draw(player, n int) []Card {
	p := s.EnsurePlayer(player)
	var drawn []Card
	for i := 0; i < n; i++ {
		if len(p.Deck) == 0 && !s.refill(p) {
			break
		}
		last := len(p.Deck) - 1
		card := p.Deck[last]
		p.Deck = p.Deck[:last]
		p.Pending = append(p.Pending, card)
		drawn = append(drawn, card)
	}
	return drawn
}

// Land moves the named pending cards into the hand in pending order and
// returns how many moved. Unknown ids are ignored.
func (s *Store) Land(player int, ids ...string) int {
	p := s.EnsurePlayer(player)
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	moved := 0
	kept := p.Pending[:0]
	for _, c := range p.Pending {
		if want[c.ID] {
			p.Hand = append(p.Hand, c)
			moved++
			continue
		}
		kept = append(kept, c)
	}
	p.Pending = kept
	return moved
}

// LandAll moves every pending card into the hand.
func (s *Store) LandAll(player int) int {
	p := s.EnsurePlayer(player)
	n := len(p.Pending)
	p.Hand = append(p.Hand, p.Pending...)
	p.Pending = nil
	return n
}

// Consume moves a card from hand to discard. It reports false and changes
// nothing if the card is not in hand.
func (s *Store) Consume(player int, cardID string) bool {
	p := s.EnsurePlayer(player)
	idx := indexOf(p.Hand, cardID)
	if idx < 0 {
		return false
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.Discard = append(p.Discard, card)
	if p.Selected == cardID {
		p.Selected = ""
	}
	return true
}

// DiscardHand moves the hand and any pending cards to the discard pile.
func (s *Store) DiscardHand(player int) {
	p := s.EnsurePlayer(player)
	p.Discard = append(p.Discard, p.Hand...)
	p.Discard = append(p.Discard, p.Pending...)
	p.Hand = nil
	p.Pending = nil
	p.Selected = ""
}

// Select pre-selects a hand card so only it is playable. Selecting the
// already selected card or passing "" clears the selection. Ids not in hand
// are rejected.
func (s *Store) Select(player int, cardID string) bool {
	p := s.EnsurePlayer(player)
	if cardID == "" || p.Selected == cardID {
		p.Selected = ""
		return true
	}
	if indexOf(p.Hand, cardID) < 0 {
		return false
	}
	p.Selected = cardID
	return true
}

// Selected returns the pre-selected card if it is still in hand.
func (s *Store) Selected(player int) (Card, bool) {
	p := s.EnsurePlayer(player)
	if p.Selected == "" {
		return Card{}, false
	}
	idx := indexOf(p.Hand, p.Selected)
	if idx < 0 {
		return Card{}, false
	}
	return p.Hand[idx], true
}

// Hand returns a copy of the playable cards in hand order.
func (s *Store) Hand(player int) []Card {
	return append([]Card(nil), s.EnsurePlayer(player).Hand...)
}

// Pending returns a copy of the cards still landing.
func (s *Store) Pending(player int) []Card {
	return append([]Card(nil), s.EnsurePlayer(player).Pending...)
}

// HandEmpty reports whether the player has no playable cards.
func (s *Store) HandEmpty(player int) bool {
	return len(s.EnsurePlayer(player).Hand) == 0
}

// Eligible returns the cards that may run a search: the selected card alone
// if there is one, otherwise the whole hand.
func (s *Store) Eligible(player int) []Card {
	if c, ok := s.Selected(player); ok {
		return []Card{c}
	}
	return s.Hand(player)
}

// PlayableTerrains returns the terrains some eligible card can enter.
func (s *Store) PlayableTerrains(player int) mapset.Set[board.Terrain] {
	set := mapset.New[board.Terrain]()
	for _, c := range s.Eligible(player) {
		if c.Terrain.Enterable() {
			set.Put(c.Terrain)
		}
	}
	return set
}

// CanEnter reports whether the player may currently move onto terrain t.
func (s *Store) CanEnter(player int, t board.Terrain) bool {
	if !t.Enterable() {
		return false
	}
	return s.PlayableTerrains(player).Has(t)
}

// Snapshot returns a deep copy of every player's cards.
func (s *Store) Snapshot() map[int]*PlayerCards {
	out := make(map[int]*PlayerCards, len(s.players))
	for id, p := range s.players {
		out[id] = p.clone()
	}
	return out
}

// Restore replaces the store contents with a snapshot.
func (s *Store) Restore(snap map[int]*PlayerCards) {
	s.players = make(map[int]*PlayerCards, len(snap))
	for id, p := range snap {
		if p == nil {
			continue
		}
		s.players[id] = p.clone()
	}
}

// Locate reports which collection holds cardID for a player:
// "deck", "hand", "discard", "pending", or "" if none.
func (s *Store) Locate(player int, cardID string) string {
	p := s.EnsurePlayer(player)
	switch {
	case indexOf(p.Deck, cardID) >= 0:
		return "deck"
	case indexOf(p.Hand, cardID) >= 0:
		return "hand"
	case indexOf(p.Discard, cardID) >= 0:
		return "discard"
	case indexOf(p.Pending, cardID) >= 0:
		return "pending"
	}
	return ""
}

func indexOf(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
