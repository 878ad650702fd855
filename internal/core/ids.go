package core

// PlayerID identifies a player within one match. Zero is neutral.
type PlayerID int

// TeamID identifies a team within one match. Zero is no team.
type TeamID int

// Neutral is the owner of structural, unowned entities.
const Neutral PlayerID = 0

// IsNeutral reports whether the id is the neutral owner.
func (p PlayerID) IsNeutral() bool {
	return p == Neutral
}
