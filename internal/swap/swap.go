// Package swap holds the employee, match and swap request records and the
// request lifecycle from the first message to the HR decision.
package swap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/jobswap/internal/commute"
)

var (
	// ErrNotFound is returned for unknown employee, match or request ids.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a request is not in a state that allows the operation.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownStatus is returned by ParseStatus.
	ErrUnknownStatus = errors.New("unknown status")
)

// Status is the lifecycle state of a swap request.
type Status string

const (
	StatusPending      Status = "pending"
	StatusPeerAccepted Status = "peer_accepted"
	StatusHRReview     Status = "hr_review"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
)

// ParseStatus maps a query value to a Status. An empty value means StatusAll.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case "":
		return StatusAll, nil
	case StatusAll, StatusPending, StatusPeerAccepted, StatusHRReview, StatusApproved, StatusRejected:
		return status, nil
	}
	return "", fmt.Errorf("%q: %w", value, ErrUnknownStatus)
}

// CostPerSavedMinute converts one-way commute savings into the monthly cost
// savings estimate attached to a request when it reaches HR.
const CostPerSavedMinute = 25

// Location is an address with coordinates.
type Location struct {
	Address string  `json:"address" yaml:"address"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
}

// Employee is a registered user of the platform.
type Employee struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Email      string   `json:"email" yaml:"email"`
	Company    string   `json:"company" yaml:"company"`
	JobTitle   string   `json:"job_title" yaml:"job_title"`
	SalaryBand string   `json:"salary_band" yaml:"salary_band"`
	Skills     []string `json:"skills" yaml:"skills"`
	Home       Location `json:"home" yaml:"home"`
	Work       Location `json:"work" yaml:"work"`
}

// Match is a potential swap partner surfaced for an employee.
type Match struct {
	ID string `json:"id" yaml:"id"`
	// Owner is the employee the match was found for.
	Owner              string       `json:"owner" yaml:"owner"`
	UserID             string       `json:"user_id" yaml:"user_id"`
	Name               string       `json:"name" yaml:"name"`
	Company            string       `json:"company" yaml:"company"`
	JobTitle           string       `json:"job_title" yaml:"job_title"`
	Skills             []string     `json:"skills" yaml:"skills"`
	Sector             string       `json:"sector" yaml:"sector"`
	Location           string       `json:"location" yaml:"location"`
	Commute            commute.Pair `json:"commute" yaml:"commute"`
	CompatibilityScore int          `json:"compatibility_score" yaml:"compatibility_score"`
	SalaryCompatible   bool         `json:"salary_compatible" yaml:"salary_compatible"`
}

// Request is a swap proposal between two employees.
type Request struct {
	ID                    string    `json:"id" yaml:"id"`
	MatchID               string    `json:"match_id" yaml:"match_id"`
	FromUserID            string    `json:"from_user_id" yaml:"from_user_id"`
	FromUserName          string    `json:"from_user_name" yaml:"from_user_name"`
	FromUserCompany       string    `json:"from_user_company" yaml:"from_user_company"`
	FromUserJobTitle      string    `json:"from_user_job_title" yaml:"from_user_job_title"`
	FromUserSkills        []string  `json:"from_user_skills" yaml:"from_user_skills"`
	ToUserID              string    `json:"to_user_id" yaml:"to_user_id"`
	ToUserName            string    `json:"to_user_name" yaml:"to_user_name"`
	ToUserCompany         string    `json:"to_user_company" yaml:"to_user_company"`
	ToUserJobTitle        string    `json:"to_user_job_title" yaml:"to_user_job_title"`
	Message               string    `json:"message" yaml:"message"`
	Status                Status    `json:"status" yaml:"status"`
	ShareResume           bool      `json:"share_resume" yaml:"share_resume"`
	ShareContact          bool      `json:"share_contact" yaml:"share_contact"`
	CompatibilityScore    int       `json:"compatibility_score" yaml:"compatibility_score"`
	CommuteSavingsMinutes float64   `json:"commute_savings_minutes" yaml:"commute_savings_minutes"`
	EstimatedCostSavings  float64   `json:"estimated_cost_savings,omitempty" yaml:"estimated_cost_savings,omitempty"`
	CreatedAt             time.Time `json:"created_at" yaml:"created_at"`
}

// SendOptions are the user-supplied parts of a new request.
type SendOptions struct {
	Message      string
	ShareResume  bool
	ShareContact bool
}

// Query selects HR queue entries. Search matches either party's name case-insensitively.
// An empty Status or "all" matches every status.
type Query struct {
	Search string
	Status Status
}

// StatusAll matches every status in a Query.
const StatusAll Status = "all"

// Summary is the HR dashboard KPIs.
type Summary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	// MonthlyMinutesSaved is the round-trip time saved by approved swaps over 22 working days.
	MonthlyMinutesSaved float64 `json:"monthly_minutes_saved"`
	CostSaved           float64 `json:"cost_saved"`
}

// Store is the profile and request store consumed by the CLI.
type Store interface {
	Employee(id string) (Employee, error)
	Matches(ownerID string) ([]Match, error)
	Outgoing(userID string) []Request
	Incoming(userID string) []Request

	Send(fromUserID, matchID string, opts SendOptions) (Request, error)
	Accept(userID, id string) (Request, error)
	Decline(userID, id string) error

	HRQueue(q Query) []Request
	Approve(id string) (Request, error)
	Reject(id string) (Request, error)
	Summary() Summary
}
