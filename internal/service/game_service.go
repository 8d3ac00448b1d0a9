package service

import (
	"fmt"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/benbeisheim/gridchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame registers a new game, from the starting position when fen is empty.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	var err error
	if fen == "" {
		err = gs.gameManager.CreateGame(gameID)
	} else {
		err = gs.gameManager.CreateGameFromFEN(gameID, fen)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// LegalMoves parses square and lists the destinations of the piece on it.
func (gs *GameService) LegalMoves(gameID, square string) (model.Square, []model.Square, error) {
	origin, err := model.ParseSquare(square)
	if err != nil {
		return model.Square{}, nil, err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Square{}, nil, err
	}
	moves, err := game.LegalMoves(origin)
	return origin, moves, err
}

// Threats parses its inputs and reports the attackers of square.
func (gs *GameService) Threats(gameID, square, color string) (model.ThreatReport, error) {
	sq, err := model.ParseSquare(square)
	if err != nil {
		return model.ThreatReport{}, err
	}
	c, err := model.ParseColor(color)
	if err != nil {
		return model.ThreatReport{}, err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.ThreatReport{}, err
	}
	return game.Threats(sq, c), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) Resign(gameID, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) SendTo(gameID string, conn *websocket.Conn, msg ws.Message) error {
	return gs.gameManager.SendTo(gameID, conn, msg)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

// LeaveMatchmaking drops the player's channel and takes them out of the queue.
func (gs *GameService) LeaveMatchmaking(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
	gs.gameManager.LeaveMatchmaking(playerID)
}
