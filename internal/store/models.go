package store

// Snapshot is one persisted room: the serialized GameState plus enough
// metadata to list and expire rooms without deserializing.
type Snapshot struct {
	Code        string `json:"code"`
	UpdatedAt   string `json:"updated_at"`
	HandsPlayed int    `json:"hands_played"`
	State       []byte `json:"state"`
}
