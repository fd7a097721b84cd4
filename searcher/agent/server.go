package agent

import (
	"encoding/json"
	"net/http"

	"mcts/game/tictactoe"
	"mcts/searcher"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MaxRequestRounds caps the rounds a single request may ask for.
const MaxRequestRounds = 200000

// MaxRequestBytes caps the size of a request body or websocket message.
const MaxRequestBytes = 4096

type FindMoveRequest struct {
	Board  string `json:"board"`            // e.g. "X../.O./..."
	Rounds int    `json:"rounds,omitempty"` // Server default when 0
}

type MoveStat struct {
	Move    int     `json:"move"`
	Visits  int     `json:"visits"`
	WinRate float64 `json:"win_rate"`
}

type FindMoveResponse struct {
	Move   int        `json:"move"`
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Player string     `json:"player"`
	Rounds int        `json:"rounds"`
	Stats  []MoveStat `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server recommends tic-tac-toe moves over HTTP (POST /findmove) and over a
// websocket (/ws, one request and one response per message).
type Server struct {
	config   Config
	upgrader websocket.Upgrader
}

func NewServer(config Config) *Server {
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Handler() http.Handler {
	// Create a local mux rather than using the global DefaultServeMux
	mux := http.NewServeMux()
	mux.HandleFunc("/findmove", s.handleFindMove)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	log.Info().Msgf("starting agent server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "use POST"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)
	var request FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request: " + err.Error()})
		return
	}

	response, err := s.FindMove(request)
	if err != nil {
		writeJSON(w, statusOf(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxRequestBytes)

	for {
		var request FindMoveRequest
		if err := conn.ReadJSON(&request); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		var reply any
		response, err := s.FindMove(request)
		if err != nil {
			reply = errorResponse{Error: err.Error()}
		} else {
			reply = response
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

var errBadRequest = errors.New("bad request")

// FindMove searches the requested board for its player to move.
func (s *Server) FindMove(request FindMoveRequest) (FindMoveResponse, error) {
	state, err := tictactoe.Parse(request.Board)
	if err != nil {
		return FindMoveResponse{}, errors.Wrap(errBadRequest, err.Error())
	}
	if request.Rounds < 0 || request.Rounds > MaxRequestRounds {
		return FindMoveResponse{}, errors.Wrapf(errBadRequest, "rounds must be between 0 and %d", MaxRequestRounds)
	}

	config := s.config
	if request.Rounds > 0 {
		config.Rounds = request.Rounds
	}
	player := state.CurrentPlayer()
	mcts, err := searcher.New[tictactoe.Move, tictactoe.Player](state, player, config.options(config.rand())...)
	if err != nil {
		return FindMoveResponse{}, err
	}
	move, err := mcts.SelectMove()
	if err != nil {
		return FindMoveResponse{}, err
	}

	response := FindMoveResponse{
		Move:   int(move),
		Row:    move.Row(),
		Col:    move.Col(),
		Player: player.String(),
		Rounds: mcts.Metrics().Rounds,
	}
	for _, stat := range mcts.Statistics() {
		response.Stats = append(response.Stats, MoveStat{
			Move:    int(stat.Move),
			Visits:  stat.Visits,
			WinRate: stat.WinRate(player),
		})
	}
	log.Debug().Msgf("recommended move %d for board %s", move, state)
	return response, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, searcher.ErrNoMoves):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
