package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbeisheim/gridchess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // one writer per connection at a time
}

// Game sequences turns on one board and pushes its state to observers.
// Every rule question is answered by the board; the game only decides whose
// turn it is and applies the result.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	state       GameState
	lastMoved   *Square // square of the piece moved last, for en passant
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type GameState struct {
	Sound           string         `json:"sound"`
	Board           *Board         `json:"board"`
	ToMove          Color          `json:"toMove"`
	MoveHistory     []Move         `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	EnPassantTarget *Square        `json:"enPassantTarget"`
	Resolve         *string        `json:"resolve"`
	Winner          *Color         `json:"winner"`
	Players         struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	LastMove *SimpleMove `json:"lastMove"`
}

// CapturedPieces holds what each side has taken.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func (cp *CapturedPieces) add(by Color, p Piece) {
	if by == White {
		cp.White = append(cp.White, p)
	} else {
		cp.Black = append(cp.Black, p)
	}
}

// NewGame starts a game from the standard position with both clocks set to
// clockTime.
func NewGame(id string, clockTime time.Duration) *Game {
	return newGame(id, NewBoard(), White, clockTime)
}

// NewGameFromFEN starts a game from the placement and side to move of a FEN
// record. Castling, en passant and move counters are ignored.
func NewGameFromFEN(id, fen string, clockTime time.Duration) (*Game, error) {
	board, err := NewBoardFromFEN(fen)
	if err != nil {
		return nil, err
	}
	toMove := White
	if fields := strings.Fields(fen); len(fields) > 1 && fields[1] == "b" {
		toMove = Black
	}
	return newGame(id, board, toMove, clockTime), nil
}

func newGame(id string, board *Board, toMove Color, clockTime time.Duration) *Game {
	g := &Game{
		ID:          id,
		board:       board,
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
	}
	g.state = GameState{
		ToMove:         toMove,
		MoveHistory:    make([]Move, 0),
		CapturedPieces: CapturedPieces{White: make([]Piece, 0), Black: make([]Piece, 0)},
	}
	g.state.Players.White = ClientPlayer{Color: White, TimeLeft: g.whiteClock.tenths()}
	g.state.Players.Black = ClientPlayer{Color: Black, TimeLeft: g.blackClock.tenths()}
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	if g.state.Players.White.ID == "" {
		g.state.Players.White.ID = playerID
		log.Infof("game %s: %s joined as white", g.ID, playerID)
		return White, nil
	}
	if g.state.Players.Black.ID == "" {
		g.state.Players.Black.ID = playerID
		log.Infof("game %s: %s joined as black", g.ID, playerID)
		return Black, nil
	}
	return "", ErrGameFull
}

// GetState returns a snapshot safe to marshal while the game moves on.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	s := g.state
	s.Board = g.board.Clone()
	s.MoveHistory = append([]Move(nil), g.state.MoveHistory...)
	s.CapturedPieces = CapturedPieces{
		White: append([]Piece{}, g.state.CapturedPieces.White...),
		Black: append([]Piece{}, g.state.CapturedPieces.Black...),
	}
	s.Players.White.TimeLeft = g.whiteClock.tenths()
	s.Players.Black.TimeLeft = g.blackClock.tenths()
	return s
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (Color, bool) {
	if playerID == "" {
		return "", false
	}
	switch playerID {
	case g.state.Players.White.ID:
		return White, true
	case g.state.Players.Black.ID:
		return Black, true
	}
	return "", false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// LegalMoves lists where the piece on origin may go this turn, en passant
// included, ordered by rank then file.
func (g *Game) LegalMoves(origin Square) ([]Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves, err := g.board.LegalMovesChecked(origin)
	if err != nil {
		return nil, err
	}
	piece, _ := g.board.PieceAt(origin)
	if target, ok := g.enPassantTarget(origin, piece); ok {
		moves.Add(target)
	}
	return moves.Sorted(), nil
}

// Threats reports which enemy pieces currently attack sq from color's side.
func (g *Game) Threats(sq Square, color Color) ThreatReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Threats(sq, color)
}

func (g *Game) destinations(origin Square, piece Piece) SquareSet {
	moves := g.board.LegalMoves(origin)
	if target, ok := g.enPassantTarget(origin, piece); ok {
		moves.Add(target)
	}
	return moves
}

// enPassantTarget returns the square a pawn on origin may capture onto en
// passant: the square just passed by an enemy pawn that advanced two ranks
// on the previous move and now stands beside it.
func (g *Game) enPassantTarget(origin Square, piece Piece) (Square, bool) {
	if piece.Type != Pawn || g.lastMoved == nil {
		return Square{}, false
	}
	last, ok := g.board.PieceAt(*g.lastMoved)
	if !ok || last.Type != Pawn || last.Color == piece.Color {
		return Square{}, false
	}
	if abs(int(last.Position.Rank)-int(last.PrevPosition.Rank)) != 2 {
		return Square{}, false
	}
	if last.Position.Rank != origin.Rank || abs(int(last.Position.File)-int(origin.File)) != 1 {
		return Square{}, false
	}
	target := Square{File: last.Position.File, Rank: (last.Position.Rank + last.PrevPosition.Rank) / 2}
	if _, occupied := g.board.PieceAt(target); occupied {
		return Square{}, false
	}
	return target, true
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("game %s: %s plays %s-%s", g.ID, playerID, move.From, move.To)

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	if g.canSpectate() {
		return ErrGameNotReady
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	piece, ok := g.board.PieceAt(move.From)
	if !ok {
		return fmt.Errorf("move from %s: %w", move.From, ErrEmptyOrigin)
	}
	if color != g.state.ToMove || piece.Color != g.state.ToMove {
		return ErrNotYourTurn
	}
	if !g.destinations(move.From, piece).Contains(move.To) {
		return fmt.Errorf("%s to %s: %w", piece, move.To, ErrIllegalMove)
	}

	clock := g.clockFor(g.state.ToMove)
	clock.Stop()
	if clock.Expired() {
		g.resolve("timeout", g.state.ToMove.Opposite())
		g.broadcast()
		return ErrFlagFell
	}

	g.executeMove(piece, move)
	g.clockFor(g.state.ToMove).Start()

	g.broadcast()
	return nil
}

func (g *Game) executeMove(piece Piece, move WSMove) {
	ply := Ply{From: move.From, To: move.To}

	captureSquare := move.To
	if target, ok := g.enPassantTarget(move.From, piece); ok && target == move.To {
		captureSquare = Square{File: move.To.File, Rank: move.From.Rank}
		ply.EnPassant = true
	}
	g.state.Sound = "move"
	if captured, ok := g.board.Remove(captureSquare); ok {
		ply.CapturedPiece = &captured
		ply.CapturedOn = &captureSquare
		g.state.CapturedPieces.add(piece.Color, captured)
		g.state.Sound = "capture"
	}

	g.board.Relocate(move.From, move.To)
	ply.Piece, _ = g.board.PieceAt(move.To)
	ply.Notation = ply.notation()

	if g.state.ToMove == White {
		g.state.MoveHistory = append(g.state.MoveHistory, Move{WhitePly: &ply})
	} else if n := len(g.state.MoveHistory); n > 0 && g.state.MoveHistory[n-1].BlackPly == nil {
		g.state.MoveHistory[n-1].BlackPly = &ply
	} else {
		// Black moved first, e.g. a game set up from FEN.
		g.state.MoveHistory = append(g.state.MoveHistory, Move{BlackPly: &ply})
	}

	to := move.To
	g.lastMoved = &to
	g.state.EnPassantTarget = nil
	if piece.Type == Pawn && abs(int(move.To.Rank)-int(move.From.Rank)) == 2 {
		passed := Square{File: move.To.File, Rank: (move.To.Rank + move.From.Rank) / 2}
		g.state.EnPassantTarget = &passed
	}
	g.state.LastMove = &SimpleMove{From: move.From, To: move.To}
	g.switchTurn()
}

// Resign ends the game in the opponent's favour.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if g.state.Resolve != nil {
		return ErrGameOver
	}
	g.resolve("resignation", color.Opposite())
	g.broadcast()
	return nil
}

func (g *Game) resolve(result string, winner Color) {
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.state.Resolve = &result
	g.state.Winner = &winner
	log.Infof("game %s: %s wins by %s", g.ID, winner, result)
}

func (g *Game) clockFor(c Color) *Clock {
	if c == White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) switchTurn() {
	g.state.ToMove = g.state.ToMove.Opposite()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGameLocked(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotInGame
	}

	if !g.connections.add(playerID, conn) {
		// Keep the healthy connection and turn the new one away.
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return ErrAlreadyConnected
	}

	log.Infof("game %s: registered connection for %s", g.ID, playerID)

	g.mu.Lock()
	g.broadcast()
	g.mu.Unlock()
	return nil
}

func (g *Game) isPlayerInGameLocked(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

// UnregisterConnection forgets conn if it is still the player's registered
// connection. A rejected duplicate never displaces the live one.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	if g.connections.remove(playerID, conn) {
		log.Infof("game %s: unregistered connection for %s", g.ID, playerID)
	}
}

// add registers conn unless the player already has a connection.
func (gc *GameConnections) add(playerID string, conn *websocket.Conn) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if _, exists := gc.connections[playerID]; exists {
		return false
	}
	gc.connections[playerID] = conn
	return true
}

func (gc *GameConnections) remove(playerID string, conn *websocket.Conn) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if current, ok := gc.connections[playerID]; ok && current == conn {
		delete(gc.connections, playerID)
		return true
	}
	return false
}

// broadcast pushes a snapshot of the current state to every connection.
// Callers hold g.mu.
func (g *Game) broadcast() {
	go g.broadcastState(g.snapshot())
}

func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	// Copy the connections so no lock is held while writing.
	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			g.connections.remove(playerID, conn)
			continue
		}
		log.Debugf("game %s: sent state to %s", g.ID, playerID)
	}
}

// Send writes msg to one connection, taking turns with broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}
