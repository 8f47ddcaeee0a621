package leaderboard

// PlayerGroup is every play record of one player, optionally within one event.
type PlayerGroup struct {
	MSISDN  string
	EventID string
	Records []PlayRecord
}

// grouper collects records per key while keeping first-seen key order
// and per-key record order.
type grouper struct {
	index  map[string]int
	groups []PlayerGroup
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int)}
}

func (g *grouper) add(msisdn, eventID string, rec PlayRecord) {
	i, ok := g.index[msisdn]
	if !ok {
		i = len(g.groups)
		g.index[msisdn] = i
		g.groups = append(g.groups, PlayerGroup{MSISDN: msisdn, EventID: eventID})
	}
	g.groups[i].Records = append(g.groups[i].Records, rec)
}

// GroupByPlayer groups play records by phone number, ignoring events.
func GroupByPlayer(plays []PlayRecord) []PlayerGroup {
	g := newGrouper()
	for _, p := range plays {
		g.add(p.MSISDN.String(), "", p)
	}
	return g.groups
}

// GroupByCategory groups play records by event and then by phone number.
// Records whose event is not in the catalog are dropped.
func GroupByCategory(plays []PlayRecord, catalog Catalog) map[string][]PlayerGroup {
	byEvent := make(map[string]*grouper)
	for _, p := range plays {
		eventID := p.EventID.String()
		if !catalog.Contains(eventID) {
			continue
		}
		g, ok := byEvent[eventID]
		if !ok {
			g = newGrouper()
			byEvent[eventID] = g
		}
		g.add(p.MSISDN.String(), eventID, p)
	}

	out := make(map[string][]PlayerGroup, len(byEvent))
	for eventID, g := range byEvent {
		out[eventID] = g.groups
	}
	return out
}
