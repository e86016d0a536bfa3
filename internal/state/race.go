package state

import (
	"encoding/json"
	"fmt"
)

// MaxParticipants bounds the participant set of a race.
const MaxParticipants = 4

type RaceStatus string

const (
	RaceWaiting   RaceStatus = "waiting"
	RaceRacing    RaceStatus = "racing"
	RaceCompleted RaceStatus = "completed"
	RaceCancelled RaceStatus = "cancelled"
)

func (s RaceStatus) Valid() bool {
	switch s {
	case RaceWaiting, RaceRacing, RaceCompleted, RaceCancelled:
		return true
	default:
		return false
	}
}

type Race struct {
	ID        string `json:"id"`
	LobbyCode string `json:"lobbyCode"`
	Host      string `json:"host"`
	Asset     string `json:"asset"`

	// WagerAmount is the per-participant stake in the asset's smallest unit.
	WagerAmount uint64 `json:"wagerAmount"`

	// Vault is the protocol-owned address holding the pooled stakes. It is
	// derived from ID and never has a registered key.
	Vault string `json:"vault"`

	Participants Participants `json:"participants"`
	Status       RaceStatus   `json:"status"`
	Winner       string       `json:"winner,omitempty"`
	CreatedAt    int64        `json:"createdAt"`
}

// Participants is an ordered set of addresses with a fixed capacity, so the
// record size does not grow with activity.
type Participants struct {
	addrs [MaxParticipants]string
	n     uint8
}

func NewParticipants(addrs ...string) (Participants, error) {
	var p Participants
	for _, a := range addrs {
		if err := p.Add(a); err != nil {
			return Participants{}, err
		}
	}
	return p, nil
}

func (p *Participants) Len() int { return int(p.n) }

func (p *Participants) Full() bool { return int(p.n) >= MaxParticipants }

func (p *Participants) Contains(addr string) bool {
	return p.indexOf(addr) >= 0
}

func (p *Participants) indexOf(addr string) int {
	for i := 0; i < int(p.n); i++ {
		if p.addrs[i] == addr {
			return i
		}
	}
	return -1
}

func (p *Participants) Add(addr string) error {
	if addr == "" {
		return fmt.Errorf("participant address is empty")
	}
	if p.Contains(addr) {
		return fmt.Errorf("participant %q already present", addr)
	}
	if p.Full() {
		return fmt.Errorf("participant set full (max %d)", MaxParticipants)
	}
	p.addrs[p.n] = addr
	p.n++
	return nil
}

// Remove deletes addr, keeping the remaining order. It reports whether addr
// was present.
func (p *Participants) Remove(addr string) bool {
	i := p.indexOf(addr)
	if i < 0 {
		return false
	}
	copy(p.addrs[i:p.n], p.addrs[i+1:p.n])
	p.n--
	p.addrs[p.n] = ""
	return true
}

func (p *Participants) List() []string {
	out := make([]string, p.n)
	copy(out, p.addrs[:p.n])
	return out
}

func (p Participants) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.List())
}

func (p *Participants) UnmarshalJSON(b []byte) error {
	var addrs []string
	if err := json.Unmarshal(b, &addrs); err != nil {
		return err
	}
	if len(addrs) > MaxParticipants {
		return fmt.Errorf("too many participants: %d > %d", len(addrs), MaxParticipants)
	}
	out, err := NewParticipants(addrs...)
	if err != nil {
		return err
	}
	*p = out
	return nil
}
