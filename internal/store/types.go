package store

// Identity is an enrolled person: a unique name and the embedding samples
// captured during registration, in enrollment order.
type Identity struct {
	Name    string
	Samples [][]float32
}

// CheckInRecord is one successful recognition event.
type CheckInRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// CorruptIdentity reports a stored identity whose sample blob could not be
// decoded. Corruption is isolated per row so one bad blob does not make the
// remaining identities unreadable.
type CorruptIdentity struct {
	Name string
	Err  error
}
