package services

import (
	"fmt"
	"sync"
	"time"

	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
	"tripdesk/internal/itinerary"
	"tripdesk/internal/pricing"
	"tripdesk/internal/repositories"
	"tripdesk/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// sessionRegistry keeps one live itinerary session per trip. Creation and
// lookup are serialized here so two requests racing on the same trip cannot
// each start an initial load.
type sessionRegistry struct {
	mu sync.Mutex
	m  map[int64]*itinerary.Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{m: map[int64]*itinerary.Session{}}
}

var defaultRegistry = newSessionRegistry()

func (r *sessionRegistry) getOrCreate(tripID int64, cal itinerary.Calendar) *itinerary.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.m[tripID]; ok {
		return sess
	}
	sess := itinerary.NewSession(tripID, cal)
	r.m[tripID] = sess
	return sess
}

func (r *sessionRegistry) remove(tripID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.m[tripID]; ok {
		sess.Invalidate()
		delete(r.m, tripID)
	}
}

// ItineraryService orchestrates the day-planning engine against the
// persistent stores: items are written to the DB first and only then placed
// in memory, so a failed write never leaves a phantom on the board.
type ItineraryService struct {
	Items     repositories.ItemRepository
	Trips     repositories.TripRepository
	Markups   repositories.MarkupRepository
	Registry  *sessionRegistry
	RequestID string
}

func (s ItineraryService) registry() *sessionRegistry {
	if s.Registry != nil {
		return s.Registry
	}
	return defaultRegistry
}

// session returns the trip's loaded session, running the one-time initial
// load when this is the first touch. The session's load state machine keeps
// a re-entrant trigger from duplicating items.
func (s ItineraryService) session(tripID int64) (*itinerary.Session, models.Trip, error) {
	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		return nil, models.Trip{}, err
	}
	cal, err := s.calendarFor(trip)
	if err != nil {
		return nil, trip, err
	}

	sess := s.registry().getOrCreate(tripID, cal)
	if gen, ok := sess.BeginLoad(); ok {
		items, err := s.Items.ListByTrip(tripID)
		if err != nil {
			sess.AbortLoad(gen)
			return nil, trip, err
		}
		if err := sess.CompleteLoad(gen, items); err != nil {
			return nil, trip, err
		}
		utils.LogEvent(s.RequestID, "itinerary", "load", fmt.Sprintf("trip_id=%d items=%d", tripID, len(items)))
	}
	if !sess.Loaded() {
		return nil, trip, domain.ConflictError{Resource: "itinerary", Msg: "initial load in progress"}
	}
	return sess, trip, nil
}

func (s ItineraryService) calendarFor(trip models.Trip) (itinerary.Calendar, error) {
	start, err := utils.ParseDate(trip.StartDate)
	if err != nil {
		return itinerary.Calendar{}, domain.ValidationError{Field: "start_date", Msg: "itinerary not initialized: invalid trip dates", Err: err}
	}
	end, err := utils.ParseDate(trip.EndDate)
	if err != nil {
		return itinerary.Calendar{}, domain.ValidationError{Field: "end_date", Msg: "itinerary not initialized: invalid trip dates", Err: err}
	}
	return itinerary.NewCalendar(start, end)
}

// Itinerary returns the derived day-bucket view.
func (s ItineraryService) Itinerary(tripID int64) ([]itinerary.Bucket, models.Trip, error) {
	sess, trip, err := s.session(tripID)
	if err != nil {
		return nil, trip, err
	}
	var buckets []itinerary.Bucket
	err = sess.With(func(st *itinerary.Store) error {
		buckets = st.Buckets()
		return nil
	})
	return buckets, trip, err
}

// SingleItemInput is a selected offer or custom-form entry for a one-day
// item: tour, transfer, one-way flight or single-night hotel.
type SingleItemInput struct {
	Type       itinerary.ItemType
	Name       string
	Cost       decimal.Decimal
	Quantity   int
	Markup     *decimal.Decimal // nil picks the agent default for the type
	MarkupType itinerary.MarkupType
	Start      time.Time
	End        *time.Time
}

// AddSingleItem resolves placement (clamping out-of-range starts with a
// warning rather than dropping them), persists the item, then places it.
func (s ItineraryService) AddSingleItem(tripID int64, in SingleItemInput) (itinerary.Item, itinerary.Placement, error) {
	sess, _, err := s.session(tripID)
	if err != nil {
		return itinerary.Item{}, itinerary.Placement{}, err
	}

	cfg, err := s.Markups.Load()
	if err != nil {
		return itinerary.Item{}, itinerary.Placement{}, err
	}

	var (
		item itinerary.Item
		pl   itinerary.Placement
	)
	err = sess.With(func(st *itinerary.Store) error {
		pl = itinerary.PlaceSingle(st.Calendar(), in.Start)
		if pl.Clamped {
			utils.LogEvent(s.RequestID, "itinerary", "place", fmt.Sprintf("trip_id=%d start=%s clamped to day %d", tripID, utils.FormatDate(in.Start), pl.DayIndex))
		}

		item = itinerary.Item{
			ID:         uuid.NewString(),
			TripID:     tripID,
			Type:       in.Type,
			Name:       in.Name,
			Cost:       in.Cost,
			Quantity:   in.Quantity,
			MarkupType: in.MarkupType,
			StartTime:  &in.Start,
			EndTime:    in.End,
			DayIndex:   pl.DayIndex,
		}
		if in.Markup != nil {
			item.Markup = *in.Markup
		} else if def, ok := cfg.DefaultFor(in.Type); ok {
			item.Markup = def.DefaultMarkup
			item.MarkupType = itinerary.MarkupType(def.MarkupType)
		}

		if err := s.Items.Insert(item); err != nil {
			return err
		}
		if err := st.AddItem(item); err != nil {
			_ = s.Items.Delete(item.ID)
			return err
		}
		return nil
	})
	return item, pl, err
}

// AddRoundTripFlight splits the fare into two linked segments and persists
// both. When the second write fails the first is rolled back; if even the
// rollback fails the caller gets an explicit "partially saved" error instead
// of a silently half-linked pair.
func (s ItineraryService) AddRoundTripFlight(tripID int64, offer itinerary.FlightOffer) (outbound, ret itinerary.Item, err error) {
	sess, _, err := s.session(tripID)
	if err != nil {
		return itinerary.Item{}, itinerary.Item{}, err
	}
	offer.TripID = tripID

	err = sess.With(func(st *itinerary.Store) error {
		outbound, ret = itinerary.SplitRoundTrip(st.Calendar(), offer)

		if err := s.Items.Insert(outbound); err != nil {
			return err
		}
		if err := s.Items.Insert(ret); err != nil {
			if delErr := s.Items.Delete(outbound.ID); delErr != nil {
				return domain.ConflictError{
					Resource: "flight pair",
					Msg:      fmt.Sprintf("partially saved: segment %s persisted without its partner", outbound.ID),
					Err:      err,
				}
			}
			return err
		}
		return st.AddPair(outbound, ret)
	})
	return outbound, ret, err
}

// AddHotelStay places a multi-night stay across every day bucket it touches.
func (s ItineraryService) AddHotelStay(tripID int64, stay itinerary.HotelStay) (itinerary.Item, itinerary.Placement, error) {
	sess, _, err := s.session(tripID)
	if err != nil {
		return itinerary.Item{}, itinerary.Placement{}, err
	}
	stay.TripID = tripID

	var (
		item itinerary.Item
		pl   itinerary.Placement
	)
	err = sess.With(func(st *itinerary.Store) error {
		var err error
		item, pl, err = itinerary.ResolveHotelSpan(st.Calendar(), stay)
		if err != nil {
			return err
		}
		if pl.Clamped {
			utils.LogEvent(s.RequestID, "itinerary", "place", fmt.Sprintf("trip_id=%d hotel span clamped, nights=%d span=%d", tripID, item.Nights, item.SpanDays))
		}
		if err := s.Items.Insert(item); err != nil {
			return err
		}
		if err := st.AddItem(item); err != nil {
			_ = s.Items.Delete(item.ID)
			return err
		}
		return nil
	})
	return item, pl, err
}

// RemoveItem deletes the item; a linked flight segment takes its partner
// with it. Rows are deleted before memory is touched, and a pair that could
// only be half-deleted is surfaced as an error.
func (s ItineraryService) RemoveItem(tripID int64, itemID string) ([]itinerary.Item, error) {
	sess, _, err := s.session(tripID)
	if err != nil {
		return nil, err
	}

	var removed []itinerary.Item
	err = sess.With(func(st *itinerary.Store) error {
		it, ok := st.Get(itemID)
		if !ok {
			return domain.NotFoundError{Resource: "item", ID: itemID}
		}
		victims := []itinerary.Item{it}
		if partner, ok := st.Partner(itemID); ok {
			victims = append(victims, partner)
		}

		for i, v := range victims {
			if err := s.Items.Delete(v.ID); err != nil && !domain.IsNotFound(err) {
				if i > 0 {
					return domain.ConflictError{
						Resource: "flight pair",
						Msg:      fmt.Sprintf("partially removed: segment %s deleted but partner %s failed", victims[0].ID, v.ID),
						Err:      err,
					}
				}
				return err
			}
		}

		removed, err = st.RemoveItem(itemID)
		return err
	})
	return removed, err
}

// MoveItem reassigns a plain item to another day. The engine rejects linked
// and spanning items; a persistence failure rolls the in-memory move back.
func (s ItineraryService) MoveItem(tripID int64, itemID string, fromDay, toDay int) error {
	sess, _, err := s.session(tripID)
	if err != nil {
		return err
	}
	return sess.With(func(st *itinerary.Store) error {
		if err := st.MoveItem(itemID, fromDay, toDay); err != nil {
			return err
		}
		if err := s.Items.UpdateDayIndex(itemID, toDay); err != nil {
			_ = st.MoveItem(itemID, toDay, fromDay)
			return err
		}
		return nil
	})
}

// UpdateMarkup applies a markup edit once the agent minimum-markup policy
// accepts it.
func (s ItineraryService) UpdateMarkup(tripID int64, itemID string, markup decimal.Decimal, mt itinerary.MarkupType) error {
	sess, _, err := s.session(tripID)
	if err != nil {
		return err
	}
	cfg, err := s.Markups.Load()
	if err != nil {
		return err
	}
	return sess.With(func(st *itinerary.Store) error {
		prev, ok := st.Get(itemID)
		if !ok {
			return domain.NotFoundError{Resource: "item", ID: itemID}
		}
		if err := st.UpdateItemMarkup(itemID, markup, mt, cfg); err != nil {
			return err
		}
		if err := s.Items.UpdateMarkup(itemID, markup, mt); err != nil {
			_ = st.UpdateItemMarkup(itemID, prev.Markup, prev.MarkupType, nil)
			return err
		}
		return nil
	})
}

// PreviewTripDates lists the items a date change would purge, without
// touching anything. Callers use it to warn before a destructive shrink.
func (s ItineraryService) PreviewTripDates(tripID int64, startDate, endDate string) ([]itinerary.Item, error) {
	sess, _, err := s.session(tripID)
	if err != nil {
		return nil, err
	}
	newCal, err := s.parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var doomed []itinerary.Item
	err = sess.With(func(st *itinerary.Store) error {
		for _, it := range st.Items() {
			if !newCal.Contains(it.DayIndex) {
				doomed = append(doomed, it)
			}
		}
		return nil
	})
	return doomed, err
}

// ChangeTripDates runs boundary reconciliation: the in-memory store is
// rebuilt against the new range, out-of-range items are deleted from the
// persistent store (irreversibly), survivors whose partner was purged are
// unlinked, and only then is the trip row updated.
func (s ItineraryService) ChangeTripDates(tripID int64, startDate, endDate string) (itinerary.ReconcileResult, error) {
	sess, _, err := s.session(tripID)
	if err != nil {
		return itinerary.ReconcileResult{}, err
	}
	newCal, err := s.parseRange(startDate, endDate)
	if err != nil {
		return itinerary.ReconcileResult{}, err
	}

	var res itinerary.ReconcileResult
	err = sess.With(func(st *itinerary.Store) error {
		var err error
		res, err = st.Reconcile(newCal.Start, newCal.Days[len(newCal.Days)-1].Date)
		if err != nil {
			return err
		}
		for _, p := range res.Purged {
			if err := s.Items.Delete(p.ID); err != nil && !domain.IsNotFound(err) {
				utils.LogEvent(s.RequestID, "itinerary", "reconcile", fmt.Sprintf("trip_id=%d purge delete failed item=%s: %v", tripID, p.ID, err))
			}
		}
		for _, u := range res.Unlinked {
			if err := s.Items.ClearLink(u.ID); err != nil {
				utils.LogEvent(s.RequestID, "itinerary", "reconcile", fmt.Sprintf("trip_id=%d unlink failed item=%s: %v", tripID, u.ID, err))
			}
		}
		return s.Trips.UpdateDates(tripID, startDate, endDate)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "itinerary", "reconcile", fmt.Sprintf("trip_id=%d purged=%d kept=%d", tripID, len(res.Purged), res.Kept))
	}
	return res, err
}

func (s ItineraryService) parseRange(startDate, endDate string) (itinerary.Calendar, error) {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return itinerary.Calendar{}, domain.ValidationError{Field: "start_date", Msg: "invalid date", Err: err}
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return itinerary.Calendar{}, domain.ValidationError{Field: "end_date", Msg: "invalid date", Err: err}
	}
	return itinerary.NewCalendar(start, end)
}

// Pricing prices the whole itinerary under the trip's markup strategy.
func (s ItineraryService) Pricing(tripID int64) (pricing.Breakdown, models.Trip, error) {
	sess, trip, err := s.session(tripID)
	if err != nil {
		return pricing.Breakdown{}, trip, err
	}
	strategy, err := pricing.ParseStrategy(trip.MarkupStrategy)
	if err != nil {
		return pricing.Breakdown{}, trip, err
	}

	var bd pricing.Breakdown
	err = sess.With(func(st *itinerary.Store) error {
		bd = pricing.TripTotal(st.Items(), pricing.TripTerms{
			Markup:   trip.Markup,
			Discount: trip.Discount,
			Strategy: strategy,
		})
		return nil
	})
	return bd, trip, err
}

// Teardown drops the trip's session; async work still in flight sees a
// bumped generation and discards its result.
func (s ItineraryService) Teardown(tripID int64) {
	s.registry().remove(tripID)
}
