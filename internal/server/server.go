package server

import (
	"context"

	"github.com/npezzotti/campus-connect/internal/stats"
	"github.com/npezzotti/campus-connect/internal/types"
	"go.uber.org/zap"
)

const (
	MetricActiveConnections = "ActiveConnections"
	MetricActiveRooms       = "ActiveRooms"
	MetricMessagesRelayed   = "MessagesRelayed"
)

// ChatServer is the relay hub. Its room registry maps a room id to the
// connections subscribed to it; only the Run goroutine touches it, and it is
// never persisted.
type ChatServer struct {
	log             *zap.Logger
	stats           stats.StatsProvider
	clients         map[*Client]struct{}
	rooms           map[string]*Room
	registerChan    chan *Client
	deRegisterChan  chan *Client
	subscribeChan   chan *ClientMessage
	unsubscribeChan chan *ClientMessage
	publishChan     chan *ClientMessage
	broadcastChan   chan *ServerMessage
	stop            chan struct{}
	done            chan struct{}
}

func NewChatServer(logger *zap.Logger, sp stats.StatsProvider) *ChatServer {
	sp.RegisterMetric(MetricActiveConnections)
	sp.RegisterMetric(MetricActiveRooms)
	sp.RegisterMetric(MetricMessagesRelayed)

	return &ChatServer{
		log:             logger,
		stats:           sp,
		clients:         make(map[*Client]struct{}),
		rooms:           make(map[string]*Room),
		registerChan:    make(chan *Client),
		deRegisterChan:  make(chan *Client),
		subscribeChan:   make(chan *ClientMessage, 256),
		unsubscribeChan: make(chan *ClientMessage, 256),
		publishChan:     make(chan *ClientMessage, 256),
		broadcastChan:   make(chan *ServerMessage, 256),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

func (cs *ChatServer) Run() {
	for {
		select {
		case c := <-cs.registerChan:
			cs.log.Debug("adding connection", zap.Int("user_id", c.user.Id))
			cs.clients[c] = struct{}{}
			cs.stats.Incr(MetricActiveConnections)
		case c := <-cs.deRegisterChan:
			cs.removeClient(c)
		case msg := <-cs.subscribeChan:
			cs.handleSubscribe(msg)
		case msg := <-cs.unsubscribeChan:
			cs.handleUnsubscribe(msg)
		case msg := <-cs.publishChan:
			cs.handlePublish(msg)
		case msg := <-cs.broadcastChan:
			cs.relay(msg)
		case <-cs.stop:
			cs.log.Info("stopping relay", zap.Int("connections", len(cs.clients)))
			for c := range cs.clients {
				c.stopClient()
			}

			close(cs.done)
			return
		}
	}
}

// RegisterClient hands a connection to the hub. It returns false once the hub
// has stopped.
func (cs *ChatServer) RegisterClient(c *Client) bool {
	select {
	case cs.registerChan <- c:
		return true
	case <-cs.done:
		return false
	}
}

// Broadcast fans a stored message out to the room's current subscribers.
// Delivery is best-effort; nothing is queued for subscribers that connect
// later.
func (cs *ChatServer) Broadcast(msg types.Message) {
	select {
	case cs.broadcastChan <- NewChatMessage(msg):
	case <-cs.done:
	default:
		cs.log.Warn("broadcast queue full, dropping message", zap.String("room_id", msg.RoomId))
	}
}

func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.log.Info("received shutdown signal")
	close(cs.stop)

	select {
	case <-cs.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (cs *ChatServer) handleSubscribe(msg *ClientMessage) {
	c := msg.client
	roomId := msg.Subscribe.RoomId

	room, ok := cs.rooms[roomId]
	if !ok {
		room = newRoom(roomId)
		cs.rooms[roomId] = room
		cs.stats.Incr(MetricActiveRooms)
	}

	room.addClient(c)
	c.rooms[roomId] = room
	cs.log.Debug("subscribed", zap.Int("user_id", c.user.Id), zap.String("room_id", roomId))

	c.queueMessage(NoErrOK(msg.Id, map[string]any{"room_id": roomId}))
}

func (cs *ChatServer) handleUnsubscribe(msg *ClientMessage) {
	c := msg.client
	roomId := msg.Unsubscribe.RoomId

	if _, ok := c.rooms[roomId]; !ok {
		c.queueMessage(ErrNotSubscribed(msg.Id))
		return
	}

	cs.leave(c, roomId)
	c.queueMessage(NoErrOK(msg.Id, map[string]any{"room_id": roomId}))
}

// handlePublish relays a client's message to everyone subscribed to the room,
// the sender included. Publishing does not require a subscription and
// nothing is stored.
func (cs *ChatServer) handlePublish(msg *ClientMessage) {
	c := msg.client
	c.queueMessage(NoErrAccepted(msg.Id))

	cs.relay(NewChatMessage(types.Message{
		RoomId:     msg.Publish.RoomId,
		SenderId:   c.user.Id,
		SenderName: c.user.Name,
		Content:    msg.Publish.Content,
		Timestamp:  msg.Timestamp,
	}))
}

func (cs *ChatServer) relay(msg *ServerMessage) {
	room, ok := cs.rooms[msg.Message.RoomId]
	if !ok {
		return
	}

	room.broadcast(msg)
	cs.stats.Incr(MetricMessagesRelayed)
}

func (cs *ChatServer) removeClient(c *Client) {
	if _, ok := cs.clients[c]; !ok {
		return
	}

	for roomId := range c.rooms {
		cs.leave(c, roomId)
	}

	delete(cs.clients, c)
	cs.stats.Decr(MetricActiveConnections)
	cs.log.Debug("removed connection", zap.Int("user_id", c.user.Id))
}

// leave drops c from a room, unloading the room once it has no subscribers.
func (cs *ChatServer) leave(c *Client, roomId string) {
	delete(c.rooms, roomId)

	room, ok := cs.rooms[roomId]
	if !ok {
		return
	}

	room.removeClient(c)
	if room.empty() {
		delete(cs.rooms, roomId)
		cs.stats.Decr(MetricActiveRooms)
		cs.log.Debug("unloaded room", zap.String("room_id", room.externalId))
	}
}
