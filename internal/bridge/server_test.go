// ABOUTME: Tests for the WebSocket command bridge
// ABOUTME: Round-trips engine verbs over a live websocket connection
package bridge

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/polyplay-audio/polyplay-go/pkg/audio"
	"github.com/polyplay-audio/polyplay-go/pkg/audio/output"
	"github.com/polyplay-audio/polyplay-go/pkg/engine"
)

func fakeDecode(name string, data []byte) (*audio.PCM, error) {
	if string(data) == "corrupt" {
		return nil, fmt.Errorf("bad payload")
	}
	return &audio.PCM{
		Samples:    []float32{0.1, 0.1, 0.2, 0.2},
		SampleRate: 44100,
		Channels:   2,
	}, nil
}

func newTestBridge(t *testing.T) *websocket.Conn {
	t.Helper()

	ctl := engine.New(engine.Config{
		Backend: output.NewNull("Speakers"),
		Decode:  fakeDecode,
	})
	t.Cleanup(ctl.Close)

	srv := New(Config{}, ctl)
	httpSrv := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	t.Cleanup(httpSrv.Close)

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/polyplay"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Request) Response {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write %s: %v", req.Type, err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read %s reply: %v", req.Type, err)
	}
	return resp
}

func TestBridgeListDevices(t *testing.T) {
	conn := newTestBridge(t)

	resp := roundTrip(t, conn, Request{Type: TypeListDevices})
	if resp.Type != "result" {
		t.Fatalf("expected result, got %+v", resp)
	}
	if len(resp.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(resp.Devices))
	}
	if resp.Devices[0].ID != output.DefaultDeviceID {
		t.Errorf("default entry must come first, got %q", resp.Devices[0].ID)
	}
}

func TestBridgePlayerLifecycle(t *testing.T) {
	conn := newTestBridge(t)

	created := roundTrip(t, conn, Request{Type: TypeCreatePlayer})
	if created.Type != "result" || created.PlayerID == 0 {
		t.Fatalf("expected new handle, got %+v", created)
	}
	id := created.PlayerID

	loaded := roundTrip(t, conn, Request{
		Type: TypeLoadAsset, PlayerID: id,
		Data: []byte("pretend-mp3"), Name: "x.mp3",
	})
	if loaded.Player == nil || !loaded.Player.HasAudio || loaded.Player.AssetName != "x.mp3" {
		t.Fatalf("unexpected load reply: %+v", loaded)
	}

	playing := roundTrip(t, conn, Request{Type: TypeToggle, PlayerID: id})
	if playing.Player == nil || !playing.Player.IsPlaying {
		t.Fatalf("expected playing, got %+v", playing)
	}

	stopped := roundTrip(t, conn, Request{Type: TypeStop, PlayerID: id})
	if stopped.Player == nil || stopped.Player.IsPlaying || !stopped.Player.IsEmpty {
		t.Fatalf("expected stopped, got %+v", stopped)
	}

	destroyed := roundTrip(t, conn, Request{Type: TypeDestroyPlayer, PlayerID: id})
	if destroyed.Type != "result" {
		t.Fatalf("expected result, got %+v", destroyed)
	}

	gone := roundTrip(t, conn, Request{Type: TypeGetState, PlayerID: id})
	if gone.Type != "error" || gone.Code != "not_found" {
		t.Fatalf("expected not_found error, got %+v", gone)
	}
}

func TestBridgeErrorCodes(t *testing.T) {
	conn := newTestBridge(t)

	created := roundTrip(t, conn, Request{Type: TypeCreatePlayer})
	id := created.PlayerID

	tests := []struct {
		name string
		req  Request
		code string
	}{
		{"unknown handle", Request{Type: TypeToggle, PlayerID: 999}, "not_found"},
		{"no asset", Request{Type: TypeToggle, PlayerID: id}, "no_audio"},
		{"bad device", Request{Type: TypeSetDevice, PlayerID: id, DeviceID: "nope"}, "device_error"},
		{"zero rate", Request{Type: TypePlayRawPCM, PlayerID: id, Channels: 2, Samples: []float32{0}}, "invalid_argument"},
		{"unknown verb", Request{Type: "player/warp"}, "invalid_argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tt.req)
			if resp.Type != "error" {
				t.Fatalf("expected error, got %+v", resp)
			}
			if resp.Code != tt.code {
				t.Errorf("expected code %q, got %q (%s)", tt.code, resp.Code, resp.Error)
			}
		})
	}
}

func TestBridgeDecodeError(t *testing.T) {
	conn := newTestBridge(t)

	created := roundTrip(t, conn, Request{Type: TypeCreatePlayer})
	id := created.PlayerID

	roundTrip(t, conn, Request{Type: TypeLoadAsset, PlayerID: id, Data: []byte("corrupt"), Name: "x.mp3"})
	resp := roundTrip(t, conn, Request{Type: TypeToggle, PlayerID: id})
	if resp.Type != "error" || resp.Code != "decode_error" {
		t.Fatalf("expected decode_error, got %+v", resp)
	}
}
