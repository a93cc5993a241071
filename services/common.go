package services

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"HospitalCare/models"
	"HospitalCare/util"
)

const DateLayout = "2006-01-02"

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Paged is the list envelope returned by every paginated endpoint.
type Paged[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func newPaged[T any](items []T, total int64, p models.Page) *Paged[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return &Paged[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}

func emptyPage[T any](p models.Page) *Paged[T] {
	return newPaged[T](nil, 0, p)
}

// ParseID converts a hex id into an ObjectID or a ValidationError.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, util.Validation(util.INVALID_ID)
	}
	return id, nil
}

func parseOptionalID(hex string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(hex) == "" {
		return nil, nil
	}
	id, err := ParseID(hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NormalizeDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar day as YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(DateLayout), nil
	}
	return "", util.Validation(util.INVALID_DATE)
}

func ValidTime(raw string) bool {
	return hhmm.MatchString(raw)
}

func today() string {
	return clock().Format(DateLayout)
}

var clock = func() time.Time { return time.Now().UTC() }

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func idSet(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

type nopRecorder struct{}

func (nopRecorder) AppointmentBooked(string) {}
func (nopRecorder) SlotConflict()            {}
func (nopRecorder) LoginFailed(string)       {}
