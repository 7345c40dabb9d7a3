package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"srs/database"
	"srs/model"
	"srs/review"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoSession          = errors.New("missing or expired session token")
)

// Credentials is the login request.
type Credentials struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Market    string `json:"market"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Entry ties one session to its workflow instance. The workflow is built once
// at login and owns the canonical row set for the session's range.
type Entry struct {
	Session  model.Session
	Workflow *review.Workflow
}

// Store issues tokens at login and resolves them back to entries. Expired
// entries are dropped lazily on lookup.
type Store struct {
	mu       sync.Mutex
	db       *sqlx.DB
	ttl      time.Duration
	pageSize int
	entries  map[string]*Entry
}

func NewStore(db *sqlx.DB, ttl time.Duration, pageSize int) *Store {
	return &Store{
		db:       db,
		ttl:      ttl,
		pageSize: pageSize,
		entries:  make(map[string]*Entry),
	}
}

// Login authenticates, normalizes the date range, fetches the range rows,
// and builds the session's workflow. Non-admin sessions only ever hold rows
// for their own market.
func (s *Store) Login(creds Credentials) (*model.Session, error) {
	startISO, startUS, err := NormalizeDate(creds.StartDate)
	if err != nil {
		return nil, err
	}
	endISO, endUS, err := NormalizeDate(creds.EndDate)
	if err != nil {
		return nil, err
	}
	if endISO < startISO {
		return nil, fmt.Errorf("end date cannot be before the start date")
	}

	markets, err := database.GetAllMarkets(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load markets: %w", err)
	}
	role, err := authenticate(creds.Username, creds.Password, creds.Market, markets)
	if err != nil {
		return nil, err
	}

	rows, err := database.GetRowsForRange(s.db, startISO, endISO)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows for range: %w", err)
	}
	if role != model.RoleAdmin {
		var own []*model.SuggestionRow
		for _, r := range rows {
			if r.MarketID == role {
				own = append(own, r)
			}
		}
		rows = own
	}

	sess := model.Session{
		Token:     uuid.NewString(),
		Role:      role,
		StartISO:  startISO,
		EndISO:    endISO,
		StartUS:   startUS,
		EndUS:     endUS,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.entries[sess.Token] = &Entry{
		Session:  sess,
		Workflow: review.NewWorkflow(rows, role, s.pageSize),
	}
	s.mu.Unlock()

	return &sess, nil
}

// authenticate checks the demo credential scheme carried over from the
// original deployment: "admin"/"admin" reviews every market, and each market
// has a "<market>_user" account pinned to it. The selected market must match
// the account's allowed role.
func authenticate(username, password, selected string, markets []string) (string, error) {
	if username == model.RoleAdmin {
		if password != "admin" {
			return "", ErrInvalidCredentials
		}
		if selected != model.RoleAdmin {
			return "", fmt.Errorf("admin role must be selected for this user")
		}
		return model.RoleAdmin, nil
	}

	for _, market := range markets {
		if username != strings.ToLower(market)+"_user" {
			continue
		}
		if password != "password123" {
			return "", ErrInvalidCredentials
		}
		if selected != market {
			return "", fmt.Errorf("access denied: not authorized for market %q", selected)
		}
		return market, nil
	}
	return "", ErrInvalidCredentials
}

// Get resolves a token, dropping it when past the TTL.
func (s *Store) Get(token string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return nil, false
	}
	if time.Since(entry.Session.CreatedAt) > s.ttl {
		delete(s.entries, token)
		return nil, false
	}
	return entry, true
}

func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

// WorkflowFor implements review.SessionSource.
func (s *Store) WorkflowFor(r *http.Request) (*review.Workflow, *model.Session, error) {
	entry, err := s.entryFor(r)
	if err != nil {
		return nil, nil, err
	}
	return entry.Workflow, &entry.Session, nil
}

// SessionFor resolves just the session, for endpoints that never touch the
// workflow.
func (s *Store) SessionFor(r *http.Request) (*model.Session, error) {
	entry, err := s.entryFor(r)
	if err != nil {
		return nil, err
	}
	return &entry.Session, nil
}

func (s *Store) entryFor(r *http.Request) (*Entry, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, ErrNoSession
	}
	entry, ok := s.Get(token)
	if !ok {
		return nil, ErrNoSession
	}
	return entry, nil
}

// TokenFromRequest reads the session token from the Authorization header
// (Bearer scheme) or, failing that, the "token" query parameter.
func TokenFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
