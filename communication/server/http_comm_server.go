package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"conquest/communication"
	"conquest/game"
	"conquest/gamemaster"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes a gamemaster.Master over HTTP and WebSocket.
type Server struct {
	master *gamemaster.Master
	engine *gin.Engine
	srv    *http.Server
}

func NewServer(addr string, master *gamemaster.Master) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog())

	s := &Server{
		master: master,
		engine: engine,
		srv: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/new_game", s.handleNewGame)
	engine.POST("/start_game", s.handleStartGame)
	engine.DELETE("/delete_game", s.handleDeleteGame)
	engine.POST("/add_player", s.handleAddPlayer)
	engine.POST("/make_move", s.handleMakeMove)
	engine.GET("/game_state", s.handleGameState)
	engine.GET("/games", s.handleGames)
	engine.GET("/players", s.handlePlayers)
	engine.GET("/standings", s.handleStandings)
	engine.GET("/ws/:game_id", s.handleWebsocket)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		log.Info().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// fail maps engine errors to HTTP status codes.
func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, gamemaster.ErrGameNotFound), errors.Is(err, game.ErrUnknownPlayer):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusConflict
	}
	c.JSON(status, communication.ErrorResponse{Error: err.Error()})
}

func (s *Server) handleNewGame(c *gin.Context) {
	var req communication.NewGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	id, err := s.master.CreateGame(req.BoardSize, req.BoardSize, req.OceanWidth)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, communication.NewGameResponse{GameID: id})
}

func (s *Server) handleStartGame(c *gin.Context) {
	var req communication.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	snap, err := s.master.Start(req.GameID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDeleteGame(c *gin.Context) {
	if err := s.master.DeleteGame(c.Query("game_id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleAddPlayer(c *gin.Context) {
	var req communication.AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	id, err := s.master.AddPlayer(req.GameID, req.PlayerName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, communication.AddPlayerResponse{PlayerID: id})
}

func (s *Server) handleMakeMove(c *gin.Context) {
	var req communication.MakeMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	res, err := s.master.Play(req.GameID, req.Move)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleGameState(c *gin.Context) {
	snap, err := s.master.State(c.Query("game_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleGames(c *gin.Context) {
	c.JSON(http.StatusOK, communication.GamesResponse{Games: s.master.Games()})
}

func (s *Server) handlePlayers(c *gin.Context) {
	ids, err := s.master.Players(c.Query("game_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, communication.PlayersResponse{Players: ids})
}

func (s *Server) handleStandings(c *gin.Context) {
	standings, err := s.master.Standings(c.Query("game_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, standings)
}

// handleWebsocket streams game events until the client disconnects or the
// game is deleted. Incoming messages are ignored.
func (s *Server) handleWebsocket(c *gin.Context) {
	gameID := c.Param("game_id")
	events, cancel, err := s.master.Subscribe(gameID)
	if err != nil {
		fail(c, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("game", gameID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game deleted")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				log.Warn().Err(err).Str("game", gameID).Msg("websocket write failed")
				return
			}
		case <-closed:
			return
		}
	}
}
