package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	sessionCookie   = "user_session"
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	CreateGame(ctx context.Context, playerID string, opts usecase.GameOptions) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, *entity.Move, error)
	ResetGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)
}

type handler func(ctx context.Context, msg *Message, conn *connection) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handler

	connections      map[string]*connection
	connectionsMutex sync.RWMutex
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger,
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},

		handlers:    make(map[string]handler),
		connections: make(map[string]*connection),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameJoin] = server.handleJoinGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	sessionID, header, err := that.sessionCookie(req)
	if err != nil {
		log.Error("failed to create session", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	wsConn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{conn: wsConn, playerID: sessionID}

	// Shutdown does not close hijacked connections; unblock the read loop on cancel.
	stop := context.AfterFunc(ctx, func() {
		_ = wsConn.Close()
	})
	defer stop()

	defer func() {
		that.disconnect(conn)

		if err = wsConn.Close(); err != nil {
			log.Debug("failed to close connection", "error", err)
		}
	}()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection is closed.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, body, err := conn.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(conn, "", "invalid message")
			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, "unknown action")
			continue
		}

		if err = handle(ctx, &message, conn); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// sessionCookie returns the session id of the request, creating one when missing.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header, error) {
	if cookie, err := req.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil, nil
	}

	sessionID, err := pkg.GenerateNewSessionID()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	cookie := &http.Cookie{
		Name:    sessionCookie,
		Value:   sessionID,
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	return sessionID, header, nil
}

func (that *Server) register(playerID string, conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	conn.playerID = playerID
	if conn.boundIDs == nil {
		conn.boundIDs = make(map[string]struct{})
	}
	conn.boundIDs[playerID] = struct{}{}
	that.connections[playerID] = conn
}

// disconnect drops every player routed to conn, unless another connection took it over.
func (that *Server) disconnect(conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for id := range conn.boundIDs {
		if that.connections[id] == conn {
			delete(that.connections, id)
		}
	}
}

func (that *Server) connectionOf(playerID string) (*connection, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	conn, ok := that.connections[playerID]

	return conn, ok
}
