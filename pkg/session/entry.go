package session

// Origin marks which side of the channel produced a transcript entry.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Entry is one transcript item. Entries are immutable once appended; their
// position in the transcript is their only ordering.
type Entry struct {
	Origin  Origin
	Content string
}

// IsLocal reports whether the entry was produced by a local send.
func (e Entry) IsLocal() bool { return e.Origin == OriginLocal }
