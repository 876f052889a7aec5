package booking

import "gymconnect/internal/apperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", apperr.New(apperr.CodeInvalidRequest, "unknown booking status "+s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) String() string {
	return string(s)
}

// Party is the participant an edge of the state machine belongs to.
type Party uint8

const (
	PartyUser Party = 1 << iota
	PartyTrainer

	PartyEither = PartyUser | PartyTrainer
)

func (p Party) Allows(q Party) bool {
	return p&q != 0
}

var transitions = map[Status]map[Status]Party{
	StatusPending: {
		StatusConfirmed: PartyTrainer,
		StatusCancelled: PartyEither,
	},
	StatusConfirmed: {
		StatusCancelled: PartyEither,
		StatusCompleted: PartyTrainer,
	},
	StatusCancelled: {},
	StatusCompleted: {},
}

// Edge reports which party may move a booking from one status to another.
// ok is false when the edge does not exist.
func Edge(from, to Status) (party Party, ok bool) {
	party, ok = transitions[from][to]
	return party, ok
}

func (s Status) CanTransitionTo(to Status) bool {
	_, ok := Edge(s, to)
	return ok
}

type SessionType string

const (
	SessionPersonal SessionType = "personal"
	SessionGroup    SessionType = "group"
)

// ParseSessionType defaults an empty value to personal.
func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case "":
		return SessionPersonal, nil
	case SessionPersonal, SessionGroup:
		return SessionType(s), nil
	}
	return "", apperr.New(apperr.CodeInvalidRequest, "session_type must be personal or group")
}
