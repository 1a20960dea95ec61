package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"m5cup/internal/models"
	"m5cup/internal/repository"
	"m5cup/internal/verifier"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// memStore is an in-memory Registration + Admin used by the service
// tests. It mirrors the transition rules of the Postgres store.
type memStore struct {
	mu        sync.Mutex
	nextID    int
	teams     map[int]*models.Team
	admins    map[int64]models.Admin
	adminSeq  int
	createErr error
	now       time.Time
}

func newMemStore() *memStore {
	return &memStore{
		teams:  make(map[int]*models.Team),
		admins: make(map[int64]models.Admin),
		now:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) CreateTeamWithPlayers(name string, players []models.NewPlayer, captainContact string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return 0, m.createErr
	}

	m.nextID++
	m.now = m.now.Add(time.Minute)
	team := &models.Team{
		ID:               m.nextID,
		Name:             name,
		CaptainContact:   captainContact,
		RegistrationDate: m.now,
		Status:           models.StatusPending,
	}
	for i, p := range players {
		team.Players = append(team.Players, models.Player{
			ID:               i + 1,
			TeamID:           team.ID,
			Nickname:         p.Nickname,
			TelegramUsername: p.TelegramUsername,
		})
	}
	m.teams[team.ID] = team
	return team.ID, nil
}

func (m *memStore) GetTeamByID(id int) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, repository.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) GetTeamByName(name string) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *models.Team
	for _, t := range m.teams {
		if t.Name == name && (found == nil || t.RegistrationDate.After(found.RegistrationDate)) {
			found = t
		}
	}
	if found == nil {
		return nil, repository.ErrTeamNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *memStore) GetAllTeams() ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var teams []models.Team
	for _, t := range m.teams {
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].RegistrationDate.After(teams[j].RegistrationDate)
	})
	return teams, nil
}

func (m *memStore) SetStatus(teamID int, status string) (bool, error) {
	if !models.ValidStatus(status) {
		return false, repository.ErrInvalidTransition
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[teamID]
	if !ok {
		return false, nil
	}
	if t.Status != status {
		valid := (t.Status == models.StatusPending) ||
			(t.Status == models.StatusApproved && status == models.StatusRejected) ||
			(t.Status == models.StatusRejected && status == models.StatusApproved)
		if !valid {
			return false, repository.ErrInvalidTransition
		}
	}
	t.Status = status
	return true, nil
}

func (m *memStore) SetComment(teamID int, comment string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[teamID]
	if !ok {
		return false, nil
	}
	c := comment
	t.AdminComment = &c
	return true, nil
}

func (m *memStore) CountByStatus() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, t := range m.teams {
		counts[t.Status]++
	}
	return counts, nil
}

func (m *memStore) IsAdmin(telegramID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.admins[telegramID]
	return ok, nil
}

func (m *memStore) AddAdmin(telegramID int64, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[telegramID]; ok {
		return false, nil
	}
	m.adminSeq++
	m.now = m.now.Add(time.Minute)
	m.admins[telegramID] = models.Admin{
		ID:         m.adminSeq,
		TelegramID: telegramID,
		Username:   username,
		AddedDate:  m.now,
	}
	return true, nil
}

func (m *memStore) ListAdmins() ([]models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var admins []models.Admin
	for _, a := range m.admins {
		admins = append(admins, a)
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins, nil
}

type sentMessage struct {
	ChatID   int64
	Text     string
	Keyboard string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *fakeSender) Send(chatID int64, text string, keyboard string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
}

func (s *fakeSender) last() sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentMessage{}
	}
	return s.sent[len(s.sent)-1]
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeChecker struct {
	requesterMember bool
	requesterErr    error
	report          func(ctx context.Context, players []models.NewPlayer) verifier.Report
}

func (c *fakeChecker) CheckRequester(ctx context.Context, userID int64) (bool, error) {
	return c.requesterMember, c.requesterErr
}

func (c *fakeChecker) CheckPlayers(ctx context.Context, players []models.NewPlayer) verifier.Report {
	if c.report != nil {
		return c.report(ctx, players)
	}
	results := make([]verifier.Result, len(players))
	for i, p := range players {
		results[i] = verifier.Result{
			Nickname: p.Nickname,
			Username: p.TelegramUsername,
			Status:   verifier.StatusSubscribed,
		}
	}
	return verifier.Report{Results: results}
}
