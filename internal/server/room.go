package server

// Room is the set of live connections subscribed to one room id. It is
// owned by the ChatServer goroutine.
type Room struct {
	externalId string
	clients    map[*Client]struct{}
}

func newRoom(externalId string) *Room {
	return &Room{
		externalId: externalId,
		clients:    make(map[*Client]struct{}),
	}
}

func (r *Room) addClient(c *Client) {
	r.clients[c] = struct{}{}
}

func (r *Room) removeClient(c *Client) {
	delete(r.clients, c)
}

func (r *Room) empty() bool {
	return len(r.clients) == 0
}

func (r *Room) broadcast(msg *ServerMessage) {
	for c := range r.clients {
		c.queueMessage(msg)
	}
}
