package itinerary

import (
	"tripdesk/internal/domain"

	"github.com/shopspring/decimal"
)

// Store keeps one trip's placed items in memory. Every item is stored once,
// keyed by id; the per-day bucket view is derived on read, so a spanning
// hotel cannot drift out of sync between the buckets it occupies.
type Store struct {
	cal   Calendar
	items map[string]*Item
	order []string // insertion order, keeps bucket listings stable
}

func NewStore(cal Calendar) *Store {
	return &Store{
		cal:   cal,
		items: make(map[string]*Item),
	}
}

func (s *Store) Calendar() Calendar { return s.cal }

func (s *Store) Len() int { return len(s.items) }

// Items returns copies of all stored items in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		if it, ok := s.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out
}

func (s *Store) Get(id string) (Item, bool) {
	it, ok := s.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Partner resolves the other half of a linked pair: first by the forward
// reference, then by scanning for a reverse reference. Links are validated
// here on every lookup rather than trusted, so a dangling or asymmetric id
// never cascades.
func (s *Store) Partner(id string) (Item, bool) {
	it, ok := s.items[id]
	if !ok || !it.IsLinked() {
		return Item{}, false
	}
	if p, ok := s.items[it.LinkedItemID]; ok {
		return *p, true
	}
	for _, cand := range s.items {
		if cand.LinkedItemID == id {
			return *cand, true
		}
	}
	return Item{}, false
}

// AddItem validates placement and accepts the item into its bucket(s).
func (s *Store) AddItem(it Item) error {
	if it.ID == "" {
		return domain.ValidationError{Field: "id", Msg: "item id required"}
	}
	if _, exists := s.items[it.ID]; exists {
		return domain.ConflictError{Resource: "item", Msg: "id already placed"}
	}
	if !s.cal.Contains(it.DayIndex) {
		return domain.ValidationError{Field: "day_index", Msg: "outside trip calendar"}
	}
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	// span clamped to the last valid bucket
	if it.SpanDays > 1 && it.DayIndex+it.SpanDays > s.cal.DayCount() {
		it.SpanDays = s.cal.DayCount() - it.DayIndex
	}
	if it.IsLinked() {
		if p, ok := s.items[it.LinkedItemID]; ok && p.LinkedItemID != it.ID {
			return domain.ConflictError{Resource: "item", Msg: "linked item references a different partner"}
		}
	}
	s.items[it.ID] = &it
	s.order = append(s.order, it.ID)
	return nil
}

// AddPair places both legs of a linked flight, all or nothing.
func (s *Store) AddPair(a, b Item) error {
	if a.LinkedItemID != b.ID || b.LinkedItemID != a.ID {
		return domain.ValidationError{Field: "linked_item_id", Msg: "pair references are not symmetric"}
	}
	if err := s.AddItem(a); err != nil {
		return err
	}
	if err := s.AddItem(b); err != nil {
		s.drop(a.ID)
		return err
	}
	return nil
}

// RemoveItem deletes the item and, for a linked flight segment, its partner.
// Removal is all-or-nothing for the pair; a spanning hotel disappears from
// every bucket it occupied because the bucket view is derived. All removed
// items are returned so callers can mirror the delete in persistence.
func (s *Store) RemoveItem(id string) ([]Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "item", ID: id}
	}
	removed := []Item{*it}
	if p, ok := s.Partner(id); ok {
		removed = append(removed, p)
	}
	for _, r := range removed {
		s.drop(r.ID)
	}
	return removed, nil
}

// MoveItem reassigns a plain item to another bucket. Linked segments and
// spanning hotels are rejected untouched: their placement is derived from
// their own dates, and moving one by hand would break the pair or the span.
func (s *Store) MoveItem(id string, fromDay, toDay int) error {
	it, ok := s.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "item", ID: id}
	}
	if it.IsLinked() {
		return domain.ValidationError{Field: "item", Msg: "linked flight segments cannot be moved"}
	}
	if it.Span() > 1 {
		return domain.ValidationError{Field: "item", Msg: "multi-day hotel stays cannot be moved"}
	}
	if it.DayIndex != fromDay {
		return domain.ConflictError{Resource: "item", Msg: "item is not on the source day"}
	}
	if !s.cal.Contains(toDay) {
		return domain.ValidationError{Field: "to_day", Msg: "outside trip calendar"}
	}
	it.DayIndex = toDay
	return nil
}

// MarkupPolicy supplies the agent's minimum markup per item type; it is
// consulted before a markup edit is accepted.
type MarkupPolicy interface {
	MinimumFor(t ItemType) (decimal.Decimal, bool)
}

// UpdateItemMarkup mutates markup in place once the policy accepts it. The
// rejection carries the item type, the attempted value and the required
// minimum so the caller can show a precise message.
func (s *Store) UpdateItemMarkup(id string, markup decimal.Decimal, mt MarkupType, policy MarkupPolicy) error {
	it, ok := s.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "item", ID: id}
	}
	if policy != nil {
		if min, ok := policy.MinimumFor(it.Type); ok && markup.LessThan(min) {
			return domain.ValidationError{
				Field: "markup",
				Msg:   string(it.Type) + " markup " + markup.String() + " below agent minimum " + min.String(),
			}
		}
	}
	it.Markup = markup
	it.MarkupType = mt
	return nil
}

// Bucket is the derived day view: the calendar day plus every item occupying
// it. A spanning hotel appears, same identifier, in each bucket of its span.
type Bucket struct {
	Day   Day    `json:"day"`
	Items []Item `json:"items"`
}

// Buckets materializes the day-bucket view from the single-copy item set.
func (s *Store) Buckets() []Bucket {
	out := make([]Bucket, s.cal.DayCount())
	for i, day := range s.cal.Days {
		out[i] = Bucket{Day: day, Items: []Item{}}
	}
	for _, id := range s.order {
		it, ok := s.items[id]
		if !ok {
			continue
		}
		for idx := it.DayIndex; idx < it.DayIndex+it.Span() && idx < len(out); idx++ {
			if idx >= 0 {
				out[idx].Items = append(out[idx].Items, *it)
			}
		}
	}
	return out
}

func (s *Store) drop(id string) {
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
