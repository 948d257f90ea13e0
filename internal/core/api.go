package core

// Request types

// ImportGameRequest stores a finished move list in the archive.
// Moves use the Move encoding: e2e4, e7e8q, O-O, O-O-O.
type ImportGameRequest struct {
	Name   string   `json:"name,omitempty" validate:"omitempty,max=100"`
	White  string   `json:"white,omitempty" validate:"omitempty,max=64"`
	Black  string   `json:"black,omitempty" validate:"omitempty,max=64"`
	Result string   `json:"result,omitempty" validate:"omitempty,oneof=1-0 0-1 1/2-1/2 *"`
	Moves  []string `json:"moves" validate:"required,min=1,max=600,dive,min=3,max=5"`
}

// Response types

type GameSummary struct {
	GameID    string `json:"gameId"`
	Name      string `json:"name"`
	White     string `json:"white"`
	Black     string `json:"black"`
	Result    string `json:"result"`
	MoveCount int    `json:"moveCount"`
	StartTime string `json:"startTime"` // RFC 3339, UTC
}

type GameListResponse struct {
	Games []GameSummary `json:"games"`
}

type GameResponse struct {
	GameSummary
	Moves []string `json:"moves"`
	FEN   string   `json:"fen"`   // final position
	State string   `json:"state"` // "ongoing", "check", "checkmate", "stalemate"
}

// PositionResponse is the board after ply moves of a stored game
type PositionResponse struct {
	GameID   string `json:"gameId"`
	Ply      int    `json:"ply"`
	Turn     string `json:"turn"` // "w" or "b"
	FEN      string `json:"fen"`
	Board    string `json:"board"` // ASCII representation
	State    string `json:"state"`
	LastMove string `json:"lastMove,omitempty"`
	NextMove string `json:"nextMove,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"` // "ok", "degraded" or "disabled"
	Time    int64  `json:"time"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
