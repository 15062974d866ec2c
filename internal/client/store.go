package client

import (
	"context"
	"sync"

	"github.com/ammar1510/chatterbox/internal/models"
)

// State is the client-side view of the session.
type State struct {
	AuthUser          *models.UserResponse
	IsSigningUp       bool
	IsLoggingIn       bool
	IsUpdatingProfile bool
	IsCheckingAuth    bool
}

// Store tracks the signed-in user and which auth request is in flight.
// Listeners registered with Subscribe see every change.
type Store struct {
	api *Client

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// NewStore returns a store that has not yet checked for a session.
func NewStore(api *Client) *Store {
	return &Store{
		api:       api,
		state:     State{IsCheckingAuth: true},
		listeners: make(map[int]func(State)),
	}
}

func (s State) clone() State {
	if s.AuthUser != nil {
		u := *s.AuthUser
		s.AuthUser = &u
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to run after every state change and returns a
// function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// update applies fn under the lock and notifies listeners outside it.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// CheckAuth asks the server for the current session user. Any failure
// leaves the store signed out.
func (s *Store) CheckAuth(ctx context.Context) error {
	s.update(func(st *State) { st.IsCheckingAuth = true })

	user, err := s.api.CheckAuth(ctx)
	s.update(func(st *State) {
		st.AuthUser = user
		st.IsCheckingAuth = false
	})
	return err
}

func (s *Store) Signup(ctx context.Context, req models.SignupRequest) error {
	s.update(func(st *State) { st.IsSigningUp = true })

	res, err := s.api.Signup(ctx, req)
	s.update(func(st *State) {
		if err == nil {
			st.AuthUser = &res.UserResponse
		}
		st.IsSigningUp = false
	})
	return err
}

func (s *Store) Login(ctx context.Context, req models.LoginRequest) error {
	s.update(func(st *State) { st.IsLoggingIn = true })

	res, err := s.api.Login(ctx, req)
	s.update(func(st *State) {
		if err == nil {
			st.AuthUser = &res.UserResponse
		}
		st.IsLoggingIn = false
	})
	return err
}

func (s *Store) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.update(func(st *State) { st.AuthUser = nil })
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) error {
	s.update(func(st *State) { st.IsUpdatingProfile = true })

	user, err := s.api.UpdateProfile(ctx, req)
	s.update(func(st *State) {
		if err == nil {
			st.AuthUser = user
		}
		st.IsUpdatingProfile = false
	})
	return err
}
