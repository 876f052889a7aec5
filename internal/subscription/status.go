package subscription

// Party is who may drive a subscription edge.
type Party uint8

const (
	PartySubscriber Party = 1 << iota
	PartyGym
	PartySystem
)

var transitions = map[Status]map[Status]Party{
	StatusActive: {
		StatusCancelled: PartySubscriber | PartyGym,
		StatusExpired:   PartySystem,
	},
	StatusCancelled: {},
	StatusExpired:   {},
}

func Edge(from, to Status) (Party, bool) {
	p, ok := transitions[from][to]
	return p, ok
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Subscription) PartyOf(profileID string) Party {
	var p Party
	if profileID == "" {
		return p
	}
	if s.UserID == profileID {
		p |= PartySubscriber
	}
	if s.GymID == profileID {
		p |= PartyGym
	}
	return p
}
