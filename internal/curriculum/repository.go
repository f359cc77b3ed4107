// Package curriculum holds the immutable units, lessons and quiz bank.
package curriculum

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// ErrNotFound is returned for unknown unit keys and lesson indices.
var ErrNotFound = errors.New("not found")

// Repository is the read-only curriculum. It is safe for concurrent use.
type Repository struct {
	units []Unit
	byKey map[string]int
	quiz  []QuizQuestion
}

// New validates units and quiz and builds a Repository ordered by
// Unit.Order, then key.
func New(units []Unit, quiz []QuizQuestion) (*Repository, error) {
	if err := validate(units, quiz); err != nil {
		return nil, err
	}

	r := &Repository{
		units: slices.Clone(units),
		byKey: make(map[string]int, len(units)),
		quiz:  slices.Clone(quiz),
	}
	sort.SliceStable(r.units, func(i, j int) bool {
		if r.units[i].Order != r.units[j].Order {
			return r.units[i].Order < r.units[j].Order
		}
		return r.units[i].Key < r.units[j].Key
	})
	for i, u := range r.units {
		r.byKey[u.Key] = i
	}
	return r, nil
}

var (
	defaultOnce sync.Once
	defaultRepo *Repository
)

// Default returns the repository built from the embedded content. The
// content is checked by tests, so a load failure here is a build defect.
func Default() *Repository {
	defaultOnce.Do(func() {
		r, err := Load(Embedded())
		if err != nil {
			panic(fmt.Sprintf("curriculum: embedded content: %v", err))
		}
		defaultRepo = r
	})
	return defaultRepo
}

// GetUnit returns the unit with key.
func (r *Repository) GetUnit(key string) (Unit, error) {
	i, ok := r.byKey[key]
	if !ok {
		return Unit{}, fmt.Errorf("unit %q: %w", key, ErrNotFound)
	}
	return cloneUnit(r.units[i]), nil
}

// Units returns all units in display order.
func (r *Repository) Units() []Unit {
	out := make([]Unit, len(r.units))
	for i, u := range r.units {
		out[i] = cloneUnit(u)
	}
	return out
}

// Lesson returns lesson index of unit key.
func (r *Repository) Lesson(key string, index int) (Lesson, error) {
	u, err := r.GetUnit(key)
	if err != nil {
		return Lesson{}, err
	}
	if index < 0 || index >= len(u.Lessons) {
		return Lesson{}, fmt.Errorf("unit %q lesson %d: %w", key, index, ErrNotFound)
	}
	return u.Lessons[index], nil
}

// QuizBank returns the quiz questions in order.
func (r *Repository) QuizBank() []QuizQuestion {
	out := make([]QuizQuestion, len(r.quiz))
	for i, q := range r.quiz {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}

// GroupOrder lists the markup command groups of a unit in first-seen
// order across its lessons. Composed previews follow this order.
func (r *Repository) GroupOrder(key string) []string {
	i, ok := r.byKey[key]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var order []string
	for _, l := range r.units[i].Lessons {
		for _, c := range l.Commands {
			if c.Kind() == CommandMarkup && !seen[c.Group] {
				seen[c.Group] = true
				order = append(order, c.Group)
			}
		}
	}
	return order
}

func cloneUnit(u Unit) Unit {
	u.Lessons = slices.Clone(u.Lessons)
	for i := range u.Lessons {
		u.Lessons[i].Commands = slices.Clone(u.Lessons[i].Commands)
	}
	return u
}
