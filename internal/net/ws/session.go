package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"go-tower-director/internal/app"
)

// errSessionEnded is returned once the game reached game over or victory.
var errSessionEnded = errors.New("ws: session ended")

const writeWait = 5 * time.Second

type inbound struct {
	msg ClientMessage
	err error
}

// session — одна игра на одно соединение. Игрой владеет только tickLoop,
// он же единственный пишет в сокет.
type session struct {
	id     string
	conn   *websocket.Conn
	game   *app.Game
	format Format
	tick   time.Duration
	logger *log.Logger
	inbox  chan inbound
}

func newSession(id string, conn *websocket.Conn, game *app.Game, format Format, tick time.Duration, logger *log.Logger) *session {
	return &session{
		id:     id,
		conn:   conn,
		game:   game,
		format: format,
		tick:   tick,
		logger: logger,
		inbox:  make(chan inbound, 16),
	}
}

func (s *session) run(ctx context.Context) error {
	defer s.conn.Close()
	if err := s.send(TypeInitialState, s.game.InitialState()); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(ctx) })
	g.Go(func() error { return s.tickLoop(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		// разблокирует ReadMessage
		s.conn.Close()
		return nil
	})
	return g.Wait()
}

// readLoop декодирует кадры: текстовые как JSON, бинарные как msgpack.
func (s *session) readLoop(ctx context.Context) error {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		format := FormatJSON
		if kind == websocket.BinaryMessage {
			format = FormatMsgpack
		}
		var in inbound
		if err := format.Unmarshal(data, &in.msg); err != nil {
			in.err = err
		} else if in.msg.Action == "" {
			in.err = errors.New("missing action")
		}
		select {
		case s.inbox <- in:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *session) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-s.inbox:
			if err := s.handle(in); err != nil {
				return err
			}
		case now := <-ticker.C:
			s.game.Update(now.Sub(last).Seconds())
			last = now
			if err := s.send(TypeGameTick, s.game.Snapshot()); err != nil {
				return err
			}
			if s.game.Over() {
				s.logger.Printf("game for %s finished at %.1fs", s.id, s.game.GameTime())
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over")
				s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return errSessionEnded
			}
		}
	}
}

func (s *session) handle(in inbound) error {
	if in.err != nil {
		s.logger.Printf("discarding malformed message from %s: %v", s.id, in.err)
		return s.send(TypeError, ErrorMessage{Message: fmt.Sprintf("malformed message: %v", in.err)})
	}
	return s.send(TypeCommandResult, s.apply(in.msg))
}

// apply runs one command against the game between ticks.
func (s *session) apply(msg ClientMessage) CommandResult {
	res := CommandResult{Action: msg.Action}
	if s.game.Over() {
		res.Reason = ReasonGameOver
		return res
	}
	p := msg.Payload
	switch msg.Action {
	case ActionPlaceTower:
		res.OK = s.game.PlaceTower(p.TowerTypeID, p.TileX, p.TileY)
	case ActionUpgradeTower:
		res.OK = s.game.UpgradeTower(p.TowerID, p.UpgradeID)
	case ActionSalvageTower:
		res.OK = s.game.SalvageTower(p.TowerID)
	case ActionSetTowerPersona:
		res.OK = s.game.SetPersona(p.TowerID, p.NewPersonaID)
	default:
		s.logger.Printf("unknown action %q from %s", msg.Action, s.id)
		res.Reason = ReasonUnknownAction
		return res
	}
	if !res.OK {
		res.Reason = ReasonRejected
	}
	return res
}

func (s *session) send(kind string, data any) error {
	payload, err := s.format.Marshal(ServerMessage{Type: kind, Data: data})
	if err != nil {
		return fmt.Errorf("ws: marshal %s: %w", kind, err)
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(s.format.MessageType(), payload)
}
