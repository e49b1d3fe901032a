package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

var (
	ErrHabitNotFound = errors.New("local habit not found")
	ErrEmptyName     = errors.New("habit name cannot be empty")
)

const (
	habitsBucket   = "habits"
	checkInsBucket = "checkins"
)

// Habit is the offline form of a habit: a name and an optional schedule.
type Habit struct {
	Name      string    `json:"name"`
	Weekdays  []int     `json:"weekdays,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps habits and their completion days in a single bbolt file.
// Check-ins live in one nested bucket per habit, keyed by YYYY-MM-DD, so a
// cursor walks them in date order.
type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{habitsBucket, checkInsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if len(name) > domain.MaxTitleLen {
		return "", domain.ErrHabitTitleTooLong
	}
	return name, nil
}

func habitKey(name string) []byte {
	return []byte(strings.ToLower(name))
}

// PutHabit creates the habit or replaces its schedule.
func (s *Store) PutHabit(name string, weekdays []int) (*Habit, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	// Apply normalizes the schedule and rejects days outside 0..6.
	h := &domain.Habit{}
	if err := h.Apply(domain.HabitDetails{Title: name, Weekdays: weekdays}); err != nil {
		return nil, err
	}

	local := &Habit{Name: name, Weekdays: h.Weekdays, CreatedAt: time.Now().UTC()}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(habitsBucket))
		if existing := bucket.Get(habitKey(name)); existing != nil {
			var prev Habit
			if err := json.Unmarshal(existing, &prev); err == nil {
				local.CreatedAt = prev.CreatedAt
			}
		}
		val, err := json.Marshal(local)
		if err != nil {
			return err
		}
		return bucket.Put(habitKey(name), val)
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: put habit: %w", err)
	}
	return local, nil
}

func (s *Store) GetHabit(name string) (*Habit, error) {
	var h *Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		h, err = getHabit(tx, name)
		return err
	})
	return h, err
}

func getHabit(tx *bbolt.Tx, name string) (*Habit, error) {
	raw := tx.Bucket([]byte(habitsBucket)).Get(habitKey(strings.TrimSpace(name)))
	if raw == nil {
		return nil, ErrHabitNotFound
	}
	var h Habit
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("localstore: corrupted habit %q: %w", name, err)
	}
	return &h, nil
}

func (s *Store) ListHabits() ([]Habit, error) {
	out := []Habit{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(habitsBucket)).ForEach(func(_, v []byte) error {
			var h Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteHabit removes the habit and all of its check-ins.
func (s *Store) DeleteHabit(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := getHabit(tx, name); err != nil {
			return err
		}
		key := habitKey(strings.TrimSpace(name))
		if err := tx.Bucket([]byte(habitsBucket)).Delete(key); err != nil {
			return err
		}
		err := tx.Bucket([]byte(checkInsBucket)).DeleteBucket(key)
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

// Toggle flips the day and returns the new state. The habit is created
// with an everyday schedule if it does not exist yet.
func (s *Store) Toggle(name string, day time.Time) (bool, error) {
	var done bool
	err := s.write(name, day, func(days *bbolt.Bucket, key []byte) error {
		done = string(days.Get(key)) != "1"
		return putDay(days, key, done)
	})
	return done, err
}

// Set stores an explicit state for the day.
func (s *Store) Set(name string, day time.Time, done bool) error {
	return s.write(name, day, func(days *bbolt.Bucket, key []byte) error {
		return putDay(days, key, done)
	})
}

func putDay(days *bbolt.Bucket, key []byte, done bool) error {
	if done {
		return days.Put(key, []byte("1"))
	}
	return days.Put(key, []byte("0"))
}

func (s *Store) write(name string, day time.Time, fn func(days *bbolt.Bucket, key []byte) error) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if _, err := s.GetHabit(name); errors.Is(err, ErrHabitNotFound) {
		if _, err := s.PutHabit(name, nil); err != nil {
			return err
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		days, err := tx.Bucket([]byte(checkInsBucket)).CreateBucketIfNotExists(habitKey(name))
		if err != nil {
			return err
		}
		return fn(days, []byte(analytics.FormatDate(day)))
	})
}

// Record returns the completion record of a habit in the shape the
// analytics engine reads.
func (s *Store) Record(name string) (analytics.Completions, error) {
	record := analytics.Completions{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		if _, err := getHabit(tx, name); err != nil {
			return err
		}
		days := tx.Bucket([]byte(checkInsBucket)).Bucket(habitKey(strings.TrimSpace(name)))
		if days == nil {
			return nil
		}
		return days.ForEach(func(k, v []byte) error {
			record[string(k)] = string(v) == "1"
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
