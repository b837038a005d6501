// Package store is the client side state of the burger constructor: four
// independently owned slices composed into one root State, mutated only by
// dispatching actions.
package store

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/tokens"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogger replaces the package logger, typically with the one configured by main
func SetLogger(l *logrus.Logger) {
	log = l
}

// State is the root state tree. Slices are never mutated in place: a
// transition that changes a slice replaces its pointer, so pointer equality
// means "unchanged".
type State struct {
	User        *UserState
	Ingredients *IngredientsState
	Constructor *ConstructorState
	Orders      *OrdersState
}

// InitialState returns the state before any action was applied
func InitialState() *State {
	return &State{
		User:        &UserState{},
		Ingredients: &IngredientsState{Ingredients: []models.Ingredient{}},
		Constructor: &ConstructorState{Ingredients: []models.ConstructionItem{}},
		Orders: &OrdersState{
			Orders:     []models.Order{},
			UserOrders: []models.Order{},
		},
	}
}

// Reduce applies action to s and returns the resulting state. s is left
// untouched; when no slice changes the same pointer is returned.
func Reduce(s *State, action Action) *State {
	next := State{
		User:        reduceUser(s.User, action),
		Ingredients: reduceIngredients(s.Ingredients, action),
		Constructor: reduceConstructor(s.Constructor, action),
		Orders:      reduceOrders(s.Orders, action),
	}
	if next == *s {
		return s
	}
	return &next
}

// Listener is notified with the new state after every dispatch that changed it
type Listener func(*State)

// Store owns the root state and serializes transitions on it
type Store struct {
	mu        sync.RWMutex
	state     *State
	listeners map[int]Listener
	nextID    int

	api    api.Client
	tokens tokens.Storage
	newID  IDGenerator
}

// Option configures a Store
type Option func(*Store)

// WithIDGenerator overrides how construction instance ids are produced
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithInitialState starts the store from a given state instead of InitialState
func WithInitialState(state *State) Option {
	return func(s *Store) {
		s.state = state
	}
}

// New creates a store backed by the given API client and token storage
func New(client api.Client, storage tokens.Storage, opts ...Option) *Store {
	s := &Store{
		state:     InitialState(),
		listeners: map[int]Listener{},
		api:       client,
		tokens:    storage,
		newID:     NewInstanceID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state snapshot. Callers must treat it as read only.
func (s *Store) State() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies action atomically and notifies listeners when the state changed
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	prev := s.state
	s.state = Reduce(prev, action)
	changed := s.state != prev
	current := s.state
	var listeners []Listener
	if changed {
		listeners = make([]Listener, 0, len(s.listeners))
		for _, l := range s.listeners {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	log.WithFields(logrus.Fields{
		"action":  action.ActionType(),
		"changed": changed,
	}).Trace("Action dispatched")

	for _, l := range listeners {
		l(current)
	}
}

// Subscribe registers l and returns a function removing it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
