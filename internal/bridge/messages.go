// ABOUTME: Command bridge message type definitions
// ABOUTME: JSON request/response envelopes for every engine verb
package bridge

import (
	"github.com/polyplay-audio/polyplay-go/pkg/audio/output"
	"github.com/polyplay-audio/polyplay-go/pkg/engine"
)

// Request types, one per engine verb.
const (
	TypeListDevices   = "devices/list"
	TypeCreatePlayer  = "player/create"
	TypeDestroyPlayer = "player/destroy"
	TypeSetDevice     = "player/set-device"
	TypeLoadAsset     = "player/load"
	TypeToggle        = "player/toggle"
	TypeStop          = "player/stop"
	TypeGetState      = "player/state"
	TypePlayRawPCM    = "player/play-pcm"
)

// Request is one command from the client. Fields beyond Type are
// populated per verb; Data is base64 on the wire per encoding/json.
type Request struct {
	Type       string          `json:"type"`
	PlayerID   engine.PlayerID `json:"player_id,omitempty"`
	DeviceID   string          `json:"device_id,omitempty"`
	Name       string          `json:"name,omitempty"`
	Data       []byte          `json:"data,omitempty"`
	SampleRate int             `json:"sample_rate,omitempty"`
	Channels   int             `json:"channels,omitempty"`
	Samples    []float32       `json:"samples,omitempty"`
}

// Response answers one request. Type is "result" or "error".
type Response struct {
	Type     string           `json:"type"`
	Request  string           `json:"request"`
	Error    string           `json:"error,omitempty"`
	Code     string           `json:"code,omitempty"`
	PlayerID engine.PlayerID  `json:"player_id,omitempty"`
	Player   *engine.Snapshot `json:"player,omitempty"`
	Devices  []output.Device  `json:"devices,omitempty"`
}
