package controller

// Message types.
type collectionMsg struct {
	notebooks int
	cells     int
	items     []collectionItem
}

type upcomingMsg struct {
	count int
}

type startRunMsg struct {
	key    string
	label  string
	worker int
}

type completedRunMsg struct {
	key    string
	label  string
	status string
	output string
}

type concurrencyMsg struct {
	workers    int
	shardIndex int
	shards     int
}

// List item types.
type collectionItem struct {
	label  string
	kind   string
	detail string
}

func (c collectionItem) FilterValue() string {
	return c.label + " " + c.kind
}
