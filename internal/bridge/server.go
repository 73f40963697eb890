// ABOUTME: WebSocket command bridge for the audio engine
// ABOUTME: Exposes every engine verb to an external dispatch layer as JSON
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/polyplay-audio/polyplay-go/pkg/engine"
)

// Config holds bridge configuration.
type Config struct {
	Port int
}

// Server bridges WebSocket clients to the engine controller. The engine
// stays an in-process service; the bridge is the host shell that turns
// remote commands into controller calls.
type Server struct {
	config     Config
	serverID   string
	controller *engine.Controller

	upgrader   websocket.Upgrader
	httpServer *http.Server

	listenerMu sync.Mutex
	listener   net.Listener

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a bridge server for the given controller.
func New(config Config, controller *engine.Controller) *Server {
	return &Server{
		config:     config,
		serverID:   uuid.New().String(),
		controller: controller,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local-network control surface; non-browser clients send
				// no Origin header at all.
				return true
			},
		},
	}
}

// Start listens and serves until Stop is called.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/polyplay", s.handleWebSocket)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}

	s.listenerMu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{Handler: mux}
	s.listenerMu.Unlock()

	log.Printf("Bridge listening on %s (id=%s)", listener.Addr(), s.serverID)

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge serve error: %w", err)
	}
	return nil
}

// Addr returns the bound address once Start has begun listening.
func (s *Server) Addr() net.Addr {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the HTTP server down and waits for client handlers.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.listenerMu.Lock()
		srv := s.httpServer
		s.listenerMu.Unlock()

		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}
		s.wg.Wait()
	})
}

// handleWebSocket runs one client's read-dispatch-reply loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer conn.Close()

		remote := conn.RemoteAddr()
		log.Printf("Bridge client connected: %s", remote)

		for {
			var req Request
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("Bridge client %s read error: %v", remote, err)
				}
				return
			}

			resp := s.dispatch(req)
			if err := conn.WriteJSON(resp); err != nil {
				log.Printf("Bridge client %s write error: %v", remote, err)
				return
			}
		}
	}()
}

// dispatch maps one request onto the controller.
func (s *Server) dispatch(req Request) Response {
	switch req.Type {
	case TypeListDevices:
		devices, err := s.controller.ListOutputDevices()
		if err != nil {
			return errorResponse(req, err)
		}
		return Response{Type: "result", Request: req.Type, Devices: devices}

	case TypeCreatePlayer:
		id, err := s.controller.CreatePlayer()
		if err != nil {
			return errorResponse(req, err)
		}
		return Response{Type: "result", Request: req.Type, PlayerID: id}

	case TypeDestroyPlayer:
		if err := s.controller.DestroyPlayer(req.PlayerID); err != nil {
			return errorResponse(req, err)
		}
		return Response{Type: "result", Request: req.Type, PlayerID: req.PlayerID}

	case TypeSetDevice:
		return snapshotResponse(req, s.controller.SetPlayerDevice(req.PlayerID, req.DeviceID))

	case TypeLoadAsset:
		return snapshotResponse(req, s.controller.LoadAsset(req.PlayerID, req.Data, req.Name))

	case TypeToggle:
		return snapshotResponse(req, s.controller.TogglePlayback(req.PlayerID))

	case TypeStop:
		return snapshotResponse(req, s.controller.Stop(req.PlayerID))

	case TypeGetState:
		return snapshotResponse(req, s.controller.State(req.PlayerID))

	case TypePlayRawPCM:
		return snapshotResponse(req,
			s.controller.PlayRawPCM(req.PlayerID, req.SampleRate, req.Channels, req.Samples))

	default:
		return Response{
			Type:    "error",
			Request: req.Type,
			Error:   fmt.Sprintf("unknown request type: %s", req.Type),
			Code:    "invalid_argument",
		}
	}
}

func snapshotResponse(req Request, snap engine.Snapshot, err error) Response {
	if err != nil {
		return errorResponse(req, err)
	}
	return Response{Type: "result", Request: req.Type, Player: &snap}
}

func errorResponse(req Request, err error) Response {
	return Response{
		Type:    "error",
		Request: req.Type,
		Error:   err.Error(),
		Code:    errorCode(err),
	}
}

// errorCode maps engine sentinels onto stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return "not_found"
	case errors.Is(err, engine.ErrDevice):
		return "device_error"
	case errors.Is(err, engine.ErrDecode):
		return "decode_error"
	case errors.Is(err, engine.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, engine.ErrNoAudio):
		return "no_audio"
	case errors.Is(err, engine.ErrUninitializedOutput):
		return "uninitialized_output"
	case errors.Is(err, engine.ErrDisconnected):
		return "disconnected"
	default:
		return "internal"
	}
}
