package services

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"milktracker/internal/models"
	"milktracker/internal/persistence/interfaces"
	"milktracker/internal/providers"
	"milktracker/internal/structures"
	"milktracker/internal/timeutil"
)

const (
	ongoingMealKey    = "ongoing_meal"
	vitaminsKeyFormat = "vitamins_%s_last_confirmed"

	SubjectBaby   = "baby"
	SubjectMother = "mother"
)

var vitaminSubjects = []string{SubjectBaby, SubjectMother}

type SessionServiceInterface interface {
	StartMeal(date, startTime string) error
	PauseRound() error
	StartNewRound() error
	FinishMeal(date, startTime, endTime string) error
	CancelMeal() error
	DeleteLatestMeal() error
	ConfirmVitamins(subject string) error
	OnTick(forceAll bool) error

	Meals(limit int) []models.MealRow
	Summary() []models.SummaryRow
	Computed() models.ComputedValues
	OngoingMeal() (models.OngoingMealSnapshot, bool)
	MealCount() int
	HasOngoingMeal() bool
	Version() uint64

	Restore() error
	Persist() error
}

// SessionService owns the meals table and the ongoing meal. One mutex
// serialises ticks and actions, so a tick never sees a half applied action.
// Every action builds the next state on a copy and swaps it in only once the
// change is durable.
type SessionService struct {
	mu       sync.Mutex
	clock    timeutil.Clock
	logger   providers.Logger
	meals    interfaces.MealsRepositoryInterface
	store    interfaces.KVStoreInterface
	birthday time.Time

	table    *models.MealsTable
	ongoing  *models.OngoingMeal
	vitamins map[string]string
	computed models.ComputedValues
	version  atomic.Uint64
}

func NewSessionService(conf *structures.Config, clock timeutil.Clock, logger providers.Logger, meals interfaces.MealsRepositoryInterface, store interfaces.KVStoreInterface) (SessionServiceInterface, error) {
	birthday, err := time.ParseInLocation(timeutil.DateLayout, conf.Tracker.Birthday, time.Local)
	if err != nil {
		return nil, fmt.Errorf("tracker.birthday: %w", err)
	}
	return &SessionService{
		clock:    clock,
		logger:   logger,
		meals:    meals,
		store:    store,
		birthday: birthday,
		table:    models.NewMealsTable(),
		vitamins: make(map[string]string, len(vitaminSubjects)),
		computed: models.NoComputedValues(),
	}, nil
}

func vitaminsKey(subject string) string {
	return fmt.Sprintf(vitaminsKeyFormat, subject)
}

// checkMealDate rejects meals starting on or after midnight two days ahead, a
// typo in the date must not create far-future rows.
func (s *SessionService) checkMealDate(meal models.Meal) error {
	if !timeutil.IsWithinNextTwoCalendarDays(s.clock, meal.StartDatetime()) {
		return &models.ValidationError{Entity: "meal", Field: "date", Err: fmt.Errorf("%s is too far in the future", meal.Record().Date)}
	}
	return nil
}

func (s *SessionService) StartMeal(date, startTime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meal, err := models.NewOngoingMeal(s.clock, date, startTime)
	if err != nil {
		return err
	}
	if err := s.checkMealDate(meal); err != nil {
		return err
	}
	next := s.table.Clone()
	if err := next.Add(meal); err != nil {
		return err
	}
	if err := s.store.Set(ongoingMealKey, meal.Snapshot()); err != nil {
		return fmt.Errorf("save ongoing meal: %w", err)
	}

	s.table, s.ongoing = next, meal
	s.logger.Infof(providers.TypePost, "Meal started %s %s", meal.Date, meal.StartTime)
	s.changed()
	return nil
}

func (s *SessionService) PauseRound() error {
	return s.updateRounds("paused", (*models.OngoingMeal).Pause)
}

func (s *SessionService) StartNewRound() error {
	return s.updateRounds("resumed", (*models.OngoingMeal).StartNewRound)
}

// updateRounds is a no-op outside recording. The rounds are restored when the
// snapshot cannot be saved.
func (s *SessionService) updateRounds(verb string, change func(*models.OngoingMeal) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ongoing == nil {
		return nil
	}
	prev := s.ongoing.Snapshot().Rounds
	if err := change(s.ongoing); err != nil {
		s.ongoing.Rounds = prev
		return err
	}
	if err := s.store.Set(ongoingMealKey, s.ongoing.Snapshot()); err != nil {
		s.ongoing.Rounds = prev
		return fmt.Errorf("save ongoing meal: %w", err)
	}

	s.logger.Infof(providers.TypePost, "Meal %s, %d rounds", verb, len(s.ongoing.Rounds))
	s.changed()
	return nil
}

// FinishMeal adds a finished meal. It ends the ongoing meal when there is one
// and backfills a past meal otherwise; rounds are not carried over.
func (s *SessionService) FinishMeal(date, startTime, endTime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meal, err := models.NewFinishedMeal(date, startTime, endTime)
	if err != nil {
		return err
	}
	if err := s.checkMealDate(meal); err != nil {
		return err
	}
	next := s.table.Clone()
	if err := next.Add(meal); err != nil {
		return err
	}

	var snapshot *models.OngoingMealSnapshot
	if s.ongoing != nil {
		snap := s.ongoing.Snapshot()
		snapshot = &snap
		if err := s.store.Delete(ongoingMealKey); err != nil {
			return fmt.Errorf("clear ongoing meal: %w", err)
		}
	}
	if err := next.Persist(s.meals); err != nil {
		if snapshot != nil {
			if restoreErr := s.store.Set(ongoingMealKey, *snapshot); restoreErr != nil {
				s.logger.Errorf(providers.TypePost, "Ongoing meal snapshot lost: %s", restoreErr)
			}
		}
		return fmt.Errorf("save meals: %w", err)
	}

	s.table, s.ongoing = next, nil
	rec := meal.Record()
	s.logger.Infof(providers.TypePost, "Meal finished %s %s-%s (%s)", rec.Date, rec.StartTime, rec.EndTime, meal.DurationText())
	s.changed()
	return nil
}

// CancelMeal discards the ongoing meal without recording it.
func (s *SessionService) CancelMeal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ongoing == nil {
		return nil
	}
	next := s.table.Clone()
	next.DeleteLatest(models.DeleteOngoing)
	if err := s.store.Delete(ongoingMealKey); err != nil {
		return fmt.Errorf("clear ongoing meal: %w", err)
	}

	s.table, s.ongoing = next, nil
	s.logger.Infof(providers.TypePost, "Meal cancelled")
	s.changed()
	return nil
}

// DeleteLatestMeal removes the last row, ongoing or finished.
func (s *SessionService) DeleteLatestMeal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.table.Clone()
	removedOngoing := next.HasOngoing()
	if !next.DeleteLatest(models.DeleteAny) {
		return nil
	}

	var snapshot *models.OngoingMealSnapshot
	if removedOngoing {
		if s.ongoing != nil {
			snap := s.ongoing.Snapshot()
			snapshot = &snap
		}
		if err := s.store.Delete(ongoingMealKey); err != nil {
			return fmt.Errorf("clear ongoing meal: %w", err)
		}
	}
	if !next.HasOngoing() {
		if err := next.Persist(s.meals); err != nil {
			if snapshot != nil {
				if restoreErr := s.store.Set(ongoingMealKey, *snapshot); restoreErr != nil {
					s.logger.Errorf(providers.TypePost, "Ongoing meal snapshot lost: %s", restoreErr)
				}
			}
			return fmt.Errorf("save meals: %w", err)
		}
	}

	s.table = next
	if removedOngoing {
		s.ongoing = nil
	}
	s.logger.Infof(providers.TypePost, "Latest meal deleted, %d left", next.Len())
	s.changed()
	return nil
}

// ConfirmVitamins records that subject took vitamins today. Confirming twice
// a day is a no-op.
func (s *SessionService) ConfirmVitamins(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for _, v := range vitaminSubjects {
		known = known || v == subject
	}
	if !known {
		return &models.ValidationError{Entity: "vitamins", Field: "subject", Err: fmt.Errorf("unknown subject %q", subject)}
	}

	today := timeutil.CurrentDate(s.clock)
	if s.vitamins[subject] == today {
		return nil
	}
	if err := s.store.Set(vitaminsKey(subject), today); err != nil {
		return fmt.Errorf("save vitamins: %w", err)
	}

	s.vitamins[subject] = today
	s.logger.Infof(providers.TypePost, "Vitamins confirmed for %s", subject)
	s.changed()
	return nil
}

func (s *SessionService) OnTick(forceAll bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(forceAll)
}

// changed bumps the version and recomputes everything after an action. The
// action itself is already applied, so a refresh failure is only logged.
func (s *SessionService) changed() {
	s.version.Inc()
	if err := s.refresh(true); err != nil {
		s.logger.Warnf(providers.TypeApp, "Computed values: %s", err)
	}
}

// refresh always updates the clock. The rest is updated on an exact minute
// or when forced.
func (s *SessionService) refresh(forceAll bool) error {
	now := s.clock.Now()
	c := &s.computed
	c.CurrentTime = timeutil.CurrentTime(s.clock, true)
	if !forceAll && now.Second() != 0 {
		return nil
	}

	c.TimeSinceLatestEnd, c.TimeSinceLatestStart = models.NullDuration{}, models.NullDuration{}
	c.LatestMealInfo = models.LatestMealInfo{}
	if latest, ok := s.table.Latest(); ok {
		c.LatestMealInfo = models.LatestMealInfo{
			Date:      latest.Date,
			StartTime: latest.StartTime,
			EndTime:   latest.EndTime,
			Duration:  latest.DurationText,
		}
		if latest.IsOngoing() {
			// the gap to the previous meal is fixed once the next one began
			c.TimeSinceLatestEnd = latest.TimeSincePreviousEnd
			c.TimeSinceLatestStart = latest.TimeSincePreviousStart
		} else {
			c.TimeSinceLatestEnd = models.ValidDuration(now.Sub(latest.EndDatetime.Time))
			c.TimeSinceLatestStart = models.ValidDuration(now.Sub(latest.StartDatetime))
		}
	}
	c.TimeSinceLatestEndText = c.TimeSinceLatestEnd.Text()
	c.TimeSinceLatestStartText = c.TimeSinceLatestStart.Text()

	c.HasBabyTakenVitaminsToday = timeutil.IsToday(s.clock, s.vitamins[SubjectBaby])
	c.HasMotherTakenVitaminsToday = timeutil.IsToday(s.clock, s.vitamins[SubjectMother])
	c.Age = timeutil.HumanPeriodBetween(s.birthday, now)
	c.AgeDays = timeutil.DaysBetween(s.birthday, now)

	c.IsOngoingMeal = s.ongoing != nil
	c.IsOngoingMealPaused = false
	c.OngoingMealButtonText = models.ButtonPause
	c.TimerMealRound = timeutil.FormatTimer(0)
	c.DefaultStartTime = timeutil.CurrentTime(s.clock, false)
	if s.ongoing == nil {
		return nil
	}

	c.DefaultStartTime = s.ongoing.StartTime[:len(timeutil.ShortLayout)]
	c.IsOngoingMealPaused = s.ongoing.IsPaused()
	if c.IsOngoingMealPaused {
		c.OngoingMealButtonText = models.ButtonResume
	}
	round, ok := s.ongoing.LatestRound()
	if !ok {
		return nil
	}
	end := now
	if round.EndTime != nil {
		end = *round.EndTime
	}
	// a round restored from a start typed ahead of the clock has not begun yet
	if end.Before(round.StartTime) {
		end = round.StartTime
	}
	timer, err := timeutil.ElapsedBetween(end, round.StartTime)
	if err != nil {
		return fmt.Errorf("round timer: %w", err)
	}
	c.TimerMealRound = timer
	return nil
}

func (s *SessionService) Meals(limit int) []models.MealRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		return s.table.Rows()
	}
	return s.table.Tail(limit)
}

func (s *SessionService) Summary() []models.SummaryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.ComputeSummary()
}

func (s *SessionService) Computed() models.ComputedValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.computed
}

func (s *SessionService) OngoingMeal() (models.OngoingMealSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ongoing == nil {
		return models.OngoingMealSnapshot{}, false
	}
	return s.ongoing.Snapshot(), true
}

func (s *SessionService) MealCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Len()
}

func (s *SessionService) HasOngoingMeal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ongoing != nil
}

// Version changes on every successful action; readers key caches on it.
func (s *SessionService) Version() uint64 {
	return s.version.Load()
}

// Restore loads the table and re-inserts the ongoing meal of a previous run
// before anything is computed.
func (s *SessionService) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.meals.LoadAll()
	if err != nil {
		return fmt.Errorf("load meals: %w", err)
	}
	table := models.NewMealsTable()
	if err := table.Load(records); err != nil {
		return fmt.Errorf("load meals: %w", err)
	}

	for _, subject := range vitaminSubjects {
		var date string
		if _, err := s.store.Get(vitaminsKey(subject), &date); err != nil {
			s.logger.Errorf(providers.TypeApp, "Restore vitamins for %s: %s", subject, err)
			continue
		}
		s.vitamins[subject] = date
	}

	ongoing, err := s.restoreOngoing(table)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Ongoing meal dropped: %s", err)
		if table.HasOngoing() {
			table.DeleteLatest(models.DeleteOngoing)
		}
		if err := s.store.Delete(ongoingMealKey); err != nil {
			return fmt.Errorf("clear ongoing meal: %w", err)
		}
		ongoing = nil
	}
	if ongoing != nil {
		if err := table.Add(ongoing); err != nil {
			return fmt.Errorf("restore ongoing meal: %w", err)
		}
		s.logger.Infof(providers.TypeApp, "Ongoing meal restored %s %s, %d rounds", ongoing.Date, ongoing.StartTime, len(ongoing.Rounds))
	}

	s.table, s.ongoing = table, ongoing
	s.logger.Infof(providers.TypeApp, "Restored %d meals", table.Len())
	s.version.Inc()
	if err := s.refresh(true); err != nil {
		s.logger.Warnf(providers.TypeApp, "Computed values: %s", err)
	}
	return nil
}

// restoreOngoing prefers the saved snapshot. A trailing row without end time
// in storage is recovered as a meal with a single round.
func (s *SessionService) restoreOngoing(table *models.MealsTable) (*models.OngoingMeal, error) {
	var snap models.OngoingMealSnapshot
	found, err := s.store.Get(ongoingMealKey, &snap)
	if err != nil {
		return nil, err
	}
	if found {
		return models.RestoreOngoingMeal(s.clock, snap)
	}
	if latest, ok := table.Latest(); ok && latest.IsOngoing() {
		meal, err := models.NewOngoingMeal(s.clock, latest.Date, latest.StartTime)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ongoingMealKey, meal.Snapshot()); err != nil {
			return nil, err
		}
		return meal, nil
	}
	return nil, nil
}

// Persist writes the table. It is skipped while a meal is being recorded, the
// ongoing row lives in the state store until the meal is finished.
func (s *SessionService) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ongoing != nil {
		s.logger.Infof(providers.TypeApp, "Meal in progress, meals table not persisted")
		return nil
	}
	if err := s.table.Persist(s.meals); err != nil {
		return fmt.Errorf("save meals: %w", err)
	}
	s.logger.Infof(providers.TypeApp, "Persisted %d meals", s.table.Len())
	return nil
}
