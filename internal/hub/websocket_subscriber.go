package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	defaultQueueSize = 64
)

// WebsocketSubscriber queues messages for one websocket connection and
// writes them from its own goroutine, so a slow viewer never blocks a
// broadcast.
type WebsocketSubscriber struct {
	id    string
	conn  *websocket.Conn
	queue chan []byte
	done  chan struct{}
	once  sync.Once
}

func NewWebsocketSubscriber(id string, conn *websocket.Conn, queueSize int) *WebsocketSubscriber {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	s := &WebsocketSubscriber{
		id:    id,
		conn:  conn,
		queue: make(chan []byte, queueSize),
		done:  make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *WebsocketSubscriber) ID() string {
	return s.id
}

func (s *WebsocketSubscriber) Send(msg []byte) error {
	select {
	case <-s.done:
		return ErrSubscriberClosed
	default:
	}
	select {
	case s.queue <- msg:
		return nil
	default:
		return ErrSubscriberBacklogged
	}
}

// Done is closed once the subscriber has been closed.
func (s *WebsocketSubscriber) Done() <-chan struct{} {
	return s.done
}

func (s *WebsocketSubscriber) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.queue:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				_ = s.Close()
				return
			}
		}
	}
}

func (s *WebsocketSubscriber) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = s.conn.Close()
	})
	return err
}
