package model

// WSMove is a move request as it arrives over the wire.
type WSMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type Ply struct {
	Piece         Piece   `json:"piece"`
	From          Square  `json:"from"`
	To            Square  `json:"to"`
	CapturedPiece *Piece  `json:"capturedPiece"`
	CapturedOn    *Square `json:"capturedOn"`
	EnPassant     bool    `json:"enPassant"`
	Notation      string  `json:"notation"`
}

// Move pairs a white and a black ply. WhitePly is nil when the game began
// with Black to move.
type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// notation renders a ply in long coordinate form, "E2-E4" or "D4xD6".
func (p Ply) notation() string {
	sep := "-"
	if p.CapturedPiece != nil {
		sep = "x"
	}
	s := p.Piece.Type.Letter() + p.From.String() + sep + p.To.String()
	if p.Piece.Type == Pawn {
		s = s[1:]
	}
	if p.EnPassant {
		s += " e.p."
	}
	return s
}
