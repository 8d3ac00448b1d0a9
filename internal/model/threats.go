package model

// ThreatReport summarises the enemy pieces that could capture onto a square.
type ThreatReport struct {
	Square    Square      `json:"square"`
	Color     Color       `json:"color"`
	Attacked  bool        `json:"attacked"`
	Attackers []Square    `json:"attackers"`
	Types     []PieceType `json:"types"`
}

// Threats wraps CanCapture with the attacking piece types.
func (b *Board) Threats(sq Square, color Color) ThreatReport {
	attackers := b.CanCapture(sq, color).Sorted()
	seen := make(map[PieceType]bool)
	for _, at := range attackers {
		p, _ := b.PieceAt(at)
		seen[p.Type] = true
	}
	types := make([]PieceType, 0, len(seen))
	for _, t := range PieceTypes {
		if seen[t] {
			types = append(types, t)
		}
	}
	return ThreatReport{
		Square:    sq,
		Color:     color,
		Attacked:  len(attackers) > 0,
		Attackers: attackers,
		Types:     types,
	}
}
