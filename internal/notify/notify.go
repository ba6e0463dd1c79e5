// Package notify publishes placement events to a Socket.IO server.
package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/voxelforge/internal/ctxlog"
	"github.com/specialistvlad/voxelforge/internal/world"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// PlacedEvent is emitted after an object has been placed.
	PlacedEvent = "object_placed"
	// DefaultAckEvent is the event the server answers with.
	DefaultAckEvent = "object_placed_ack"
	// DefaultTimeout bounds connecting, emitting and waiting for the ack.
	DefaultTimeout = 10 * time.Second
)

// Block is one written voxel.
type Block struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Z        int    `json:"z"`
	Material uint16 `json:"material"`
	Data     int    `json:"data"`
}

// Event describes one placement.
type Event struct {
	Generation string  `json:"generation"`
	Object     string  `json:"object"`
	Origin     [3]int  `json:"origin"`
	Rotation   int     `json:"rotation"`
	Mirror     bool    `json:"mirror"`
	Forced     bool    `json:"forced"`
	Blocks     []Block `json:"blocks"`
}

// NewEvent builds an event from the writes recorded during a placement.
// A voxel written more than once appears once, at its first position,
// holding the last block written to it.
func NewEvent(generation, object string, origin world.Point, changes []world.Change) *Event {
	ev := &Event{
		Generation: generation,
		Object:     object,
		Origin:     [3]int{origin.X, origin.Y, origin.Z},
		Blocks:     make([]Block, 0, len(changes)),
	}
	index := make(map[world.Point]int, len(changes))
	for _, c := range changes {
		b := Block{X: c.X, Y: c.Y, Z: c.Z, Material: uint16(c.Material), Data: c.Data}
		if i, ok := index[c.Point]; ok {
			ev.Blocks[i] = b
			continue
		}
		index[c.Point] = len(ev.Blocks)
		ev.Blocks = append(ev.Blocks, b)
	}
	return ev
}

// Payload returns the event as the generic map sent over the wire.
func (e *Event) Payload() (map[string]any, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Notifier publishes placement events.
type Notifier interface {
	Publish(ctx context.Context, ev *Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, *Event) error { return nil }

// Config describes the Socket.IO endpoint.
type Config struct {
	URL                string
	Namespace          string
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Publisher sends each event over a fresh Socket.IO connection and waits
// for the server's acknowledgement event.
type Publisher struct {
	cfg     Config
	baseURL string
	path    string
}

// NewPublisher validates cfg and fills in defaults.
func NewPublisher(cfg Config) (*Publisher, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("URL %q must include a scheme and host", cfg.URL)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.AckEvent == "" {
		cfg.AckEvent = DefaultAckEvent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Publisher{
		cfg:     cfg,
		baseURL: fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		path:    u.Path,
	}, nil
}

// Config returns the effective configuration.
func (p *Publisher) Config() Config { return p.cfg }

// Publish emits ev and returns once the ack event arrives, the connection
// fails, or the timeout expires.
func (p *Publisher) Publish(ctx context.Context, ev *Event) error {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", p.cfg.URL, "object", ev.Object)
	logger.Debug("Publish started.")
	defer logger.Debug("Publish finished.")

	payload, err := ev.Payload()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	var isConnected atomic.Bool
	done := make(chan error, 1)
	report := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if p.path != "" {
		opts.SetPath(p.path)
	}
	if p.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected, emitting event.", "sid", io.Id(), "blocks", len(ev.Blocks))
		io.Emit(PlacedEvent, payload)
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				report(fmt.Errorf("socket.io connection failed: %w", err))
				return
			}
		}
		report(errors.New("socket.io connection failed"))
	})

	io.On(types.EventName(p.cfg.AckEvent), func(...any) {
		logger.Info("Placement event acknowledged.", "event", p.cfg.AckEvent)
		report(nil)
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out after connecting while waiting for event '%s'", p.cfg.AckEvent)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case err := <-done:
		return err
	}
}
