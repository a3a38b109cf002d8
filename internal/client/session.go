package client

import (
	"context"
	"sync"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is what a results view renders. Flights may be empty on success.
type State struct {
	Status   Status
	Criteria models.SearchCriteria
	Result   SearchResult
	Err      error
}

type searcher interface {
	Search(ctx context.Context, criteria models.SearchCriteria) (SearchResult, error)
}

// Session tracks one search screen. A new request is issued only when the
// normalized criteria change; responses for superseded criteria are dropped.
type Session struct {
	searcher searcher

	mu     sync.Mutex
	state  State
	latest uint64
}

func NewSession(s searcher) *Session {
	return &Session{searcher: s}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update moves the session to criteria and runs the search when they differ
// from the last ones seen. Criteria without origin, destination or date put
// the session back to idle without a request. The returned flag reports
// whether a request was made.
func (s *Session) Update(ctx context.Context, criteria models.SearchCriteria) (State, bool) {
	criteria = criteria.Normalize()

	s.mu.Lock()
	if !criteria.Complete() {
		s.latest++
		s.state = State{Status: StatusIdle, Criteria: criteria}
		st := s.state
		s.mu.Unlock()
		return st, false
	}
	if s.state.Status != StatusIdle && s.state.Criteria == criteria {
		st := s.state
		s.mu.Unlock()
		return st, false
	}
	s.latest++
	seq := s.latest
	s.state = State{Status: StatusLoading, Criteria: criteria}
	s.mu.Unlock()

	result, err := s.searcher.Search(ctx, criteria)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		return s.state, true
	}
	if err != nil {
		s.state = State{Status: StatusError, Criteria: criteria, Err: err}
	} else {
		s.state = State{Status: StatusSuccess, Criteria: criteria, Result: result}
	}
	return s.state, true
}
