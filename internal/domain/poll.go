package domain

// PollOption carries a vote counter that only ever increases.
type PollOption struct {
	ID    int64  `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Votes int    `json:"votes" yaml:"votes"`
}

// Poll owns an ordered option set that is fixed after creation.
type Poll struct {
	ID       int64        `json:"id" yaml:"id"`
	Question string       `json:"question" yaml:"question"`
	Options  []PollOption `json:"options" yaml:"options"`
	IsActive bool         `json:"is_active" yaml:"is_active"`
}

// Clone returns a copy of p that shares no memory with it.
func (p Poll) Clone() Poll {
	out := p
	out.Options = append([]PollOption(nil), p.Options...)
	return out
}
