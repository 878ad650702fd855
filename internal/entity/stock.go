package entity

// Stock is a player's reflector inventory. Below cap it regains one unit per
// cooldown interval.
type Stock struct {
	Count    int     `json:"count"`
	Cap      int     `json:"cap"`
	Cooldown float64 `json:"cooldown"`
	Elapsed  float64 `json:"elapsed"`
}

// NewStock creates a stock holding start units.
func NewStock(start, limit int, cooldown float64) Stock {
	return Stock{Count: min(start, limit), Cap: limit, Cooldown: cooldown}
}

// Tick advances the cooldown by delta seconds and returns how many units
// were regained. Excess time carries into the next interval; at cap the
// timer holds at zero.
func (s *Stock) Tick(delta float64) int {
	if s.Count >= s.Cap {
		s.Elapsed = 0
		return 0
	}
	if s.Cooldown <= 0 {
		gained := s.Cap - s.Count
		s.Count = s.Cap
		s.Elapsed = 0
		return gained
	}
	s.Elapsed += delta
	gained := 0
	for s.Elapsed >= s.Cooldown && s.Count < s.Cap {
		s.Elapsed -= s.Cooldown
		s.Count++
		gained++
	}
	if s.Count >= s.Cap {
		s.Elapsed = 0
	}
	return gained
}

// Take consumes one unit and reports whether one was available.
func (s *Stock) Take() bool {
	if s.Count <= 0 {
		return false
	}
	s.Count--
	return true
}
