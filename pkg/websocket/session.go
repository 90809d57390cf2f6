package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"marketlink/internal/codec"
	"marketlink/pkg/exception"

	"github.com/gorilla/websocket"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const writeWait = 10 * time.Second

// session is one live connection. Requests are correlated by id; a closed
// session fails every pending request.
type session struct {
	conn   *websocket.Conn
	nextID *atomic.Uint32

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint32]chan codec.Frame

	closeOnce sync.Once
	closed    chan struct{}
}

func newSession(conn *websocket.Conn, nextID *atomic.Uint32) *session {
	return &session{
		conn:    conn,
		nextID:  nextID,
		pending: make(map[uint32]chan codec.Frame),
		closed:  make(chan struct{}),
	}
}

func (s *session) request(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error) {
	id := s.nextID.Add(1)
	reply := make(chan codec.Frame, 1)

	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil, exception.ErrConnectionClose
	}
	s.pending[id] = reply
	s.mu.Unlock()
	defer s.forget(id)

	if err := s.write(codec.EncodeRequest(nil, cmd, id, body)); err != nil {
		return nil, errors.Wrapf(exception.ErrConnectionClose, "write %s, err: %v", cmd, err)
	}

	select {
	case f := <-reply:
		if err := f.Err(); err != nil {
			return nil, err
		}
		return f.Body, nil
	case <-s.closed:
		return nil, exception.ErrConnectionClose
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *session) write(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *session) forget(id uint32) {
	s.mu.Lock()
	if s.pending != nil {
		delete(s.pending, id)
	}
	s.mu.Unlock()
}

func (s *session) deliver(f codec.Frame) {
	s.mu.Lock()
	reply, ok := s.pending[f.RequestID]
	s.mu.Unlock()
	if !ok {
		logs.Debugf("websocket: drop reply of %s, request id: %d", f.Command, f.RequestID)
		return
	}
	select {
	case reply <- f:
	default:
	}
}

// readLoop is the only reader of the connection. Push frames are handed over
// in arrival order.
func (s *session) readLoop(ctx context.Context, pushes chan<- codec.Frame) error {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		f, err := codec.DecodeFrame(data)
		if err != nil {
			logs.Warnf("websocket: decode frame, err: %+v", err)
			continue
		}
		switch f.Type {
		case codec.FrameResponse:
			s.deliver(f)
		case codec.FramePush:
			select {
			case pushes <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (s *session) keepAlive(interval time.Duration) {
	if interval <= 0 {
		return
	}
	_ = s.conn.SetReadDeadline(time.Now().Add(3 * interval))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(3 * interval))
	})
}

func (s *session) ping() error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
		close(s.closed)
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session_end"),
			time.Now().Add(time.Second),
		)
		_ = s.conn.Close()
	})
}
