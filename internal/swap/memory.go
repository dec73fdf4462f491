package swap

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seed []byte

const workingDaysPerMonth = 22

var (
	now   = time.Now
	newID = uuid.NewString
)

// Dataset is the on-disk layout of a Memory store.
type Dataset struct {
	Employees []Employee `yaml:"employees"`
	Matches   []Match    `yaml:"matches"`
	Requests  []Request  `yaml:"requests"`
	HRQueue   []Request  `yaml:"hr_queue"`
}

// Memory is an in-process Store guarded by a mutex.
type Memory struct {
	mu   sync.RWMutex
	data Dataset
}

var _ Store = (*Memory)(nil)

// NewMemory creates a store over a copy of the dataset.
func NewMemory(data Dataset) *Memory {
	return &Memory{data: Dataset{
		Employees: slices.Clone(data.Employees),
		Matches:   slices.Clone(data.Matches),
		Requests:  slices.Clone(data.Requests),
		HRQueue:   slices.Clone(data.HRQueue),
	}}
}

// Demo returns a store loaded with the embedded demo dataset.
func Demo() (*Memory, error) {
	data, err := decode(seed)
	if err != nil {
		return nil, fmt.Errorf("decode demo dataset: %w", err)
	}
	return NewMemory(data), nil
}

// LoadFile reads a YAML dataset from path.
func LoadFile(path string) (*Memory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	return NewMemory(data), nil
}

func decode(raw []byte) (Dataset, error) {
	var data Dataset
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return Dataset{}, err
	}
	return data, nil
}

// Save writes the dataset to path through a temporary file and a rename.
func (m *Memory) Save(path string) error {
	m.mu.RLock()
	raw, err := yaml.Marshal(&m.data)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}

	return nil
}

// Employee implements Store.
func (m *Memory) Employee(id string) (Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.data.Employees {
		if e.ID == id {
			return e, nil
		}
	}
	return Employee{}, fmt.Errorf("employee %s: %w", id, ErrNotFound)
}

// Matches implements Store.
func (m *Memory) Matches(ownerID string) ([]Match, error) {
	if _, err := m.Employee(ownerID); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Match
	for _, match := range m.data.Matches {
		if match.Owner == ownerID {
			out = append(out, match)
		}
	}
	return out, nil
}

// Outgoing implements Store.
func (m *Memory) Outgoing(userID string) []Request {
	return m.requests(func(r Request) bool { return r.FromUserID == userID })
}

// Incoming implements Store.
func (m *Memory) Incoming(userID string) []Request {
	return m.requests(func(r Request) bool { return r.ToUserID == userID })
}

func (m *Memory) requests(keep func(Request) bool) []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Request
	for _, r := range m.data.Requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Send creates a pending request from the employee to the counterpart of the match.
func (m *Memory) Send(fromUserID, matchID string, opts SendOptions) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, ok := find(m.data.Employees, func(e Employee) bool { return e.ID == fromUserID })
	if !ok {
		return Request{}, fmt.Errorf("employee %s: %w", fromUserID, ErrNotFound)
	}
	match, ok := find(m.data.Matches, func(mt Match) bool { return mt.ID == matchID && mt.Owner == from.ID })
	if !ok {
		return Request{}, fmt.Errorf("match %s of %s: %w", matchID, from.ID, ErrNotFound)
	}

	req := Request{
		ID:                    newID(),
		MatchID:               match.ID,
		FromUserID:            from.ID,
		FromUserName:          from.Name,
		FromUserCompany:       from.Company,
		FromUserJobTitle:      from.JobTitle,
		FromUserSkills:        slices.Clone(from.Skills),
		ToUserID:              match.UserID,
		ToUserName:            match.Name,
		ToUserCompany:         match.Company,
		ToUserJobTitle:        match.JobTitle,
		Message:               strings.TrimSpace(opts.Message),
		Status:                StatusPending,
		ShareResume:           opts.ShareResume,
		ShareContact:          opts.ShareContact,
		CompatibilityScore:    match.CompatibilityScore,
		CommuteSavingsMinutes: match.Commute.Savings(),
		CreatedAt:             now().UTC(),
	}
	m.data.Requests = append(m.data.Requests, req)

	return req, nil
}

// Accept marks a pending request addressed to userID as accepted and queues a copy for HR review.
func (m *Memory) Accept(userID, id string) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.incomingIndex(userID, id)
	if err != nil {
		return Request{}, err
	}

	req := &m.data.Requests[idx]
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("accept request %s in status %s: %w", id, req.Status, ErrInvalidTransition)
	}
	req.Status = StatusPeerAccepted

	hr := *req
	hr.FromUserSkills = slices.Clone(req.FromUserSkills)
	hr.Status = StatusHRReview
	hr.EstimatedCostSavings = req.CommuteSavingsMinutes * CostPerSavedMinute
	m.data.HRQueue = append(m.data.HRQueue, hr)

	return hr, nil
}

// Decline removes a pending request addressed to userID.
func (m *Memory) Decline(userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.incomingIndex(userID, id)
	if err != nil {
		return err
	}
	if status := m.data.Requests[idx].Status; status != StatusPending {
		return fmt.Errorf("decline request %s in status %s: %w", id, status, ErrInvalidTransition)
	}

	m.data.Requests = slices.Delete(m.data.Requests, idx, idx+1)
	return nil
}

// incomingIndex finds a request addressed to userID. Requests sent by userID are not found.
func (m *Memory) incomingIndex(userID, id string) (int, error) {
	idx := slices.IndexFunc(m.data.Requests, func(r Request) bool { return r.ID == id && r.ToUserID == userID })
	if idx < 0 {
		return -1, fmt.Errorf("incoming request %s for %s: %w", id, userID, ErrNotFound)
	}
	return idx, nil
}

// HRQueue returns the HR requests selected by q in queue order.
func (m *Memory) HRQueue(q Query) []Request {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Request
	for _, r := range m.data.HRQueue {
		if q.Status != "" && q.Status != StatusAll && r.Status != q.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.FromUserName), search) &&
			!strings.Contains(strings.ToLower(r.ToUserName), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Approve closes an HR request as approved.
func (m *Memory) Approve(id string) (Request, error) {
	return m.decide(id, StatusApproved)
}

// Reject closes an HR request as rejected.
func (m *Memory) Reject(id string) (Request, error) {
	return m.decide(id, StatusRejected)
}

func (m *Memory) decide(id string, status Status) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.data.HRQueue, func(r Request) bool { return r.ID == id })
	if idx < 0 {
		return Request{}, fmt.Errorf("hr request %s: %w", id, ErrNotFound)
	}

	req := &m.data.HRQueue[idx]
	if !req.Status.Open() {
		return Request{}, fmt.Errorf("move hr request %s from %s to %s: %w", id, req.Status, status, ErrInvalidTransition)
	}
	req.Status = status

	return *req, nil
}

// Summary implements Store.
func (m *Memory) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Summary
	for _, r := range m.data.HRQueue {
		switch {
		case r.Status.Open():
			s.Pending++
		case r.Status == StatusApproved:
			s.Approved++
			s.MonthlyMinutesSaved += r.CommuteSavingsMinutes * 2 * workingDaysPerMonth
			s.CostSaved += r.EstimatedCostSavings
		}
	}
	return s
}

// Open reports whether an HR request still awaits a decision.
func (s Status) Open() bool {
	return s == StatusPeerAccepted || s == StatusHRReview
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
