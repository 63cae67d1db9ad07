package ws

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// OrderHub pushes order lifecycle events (order.created, order.shipped, …) to
// sellers subscribed to their store's channel. It satisfies
// services.OrderNotifier.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // storeID -> set of clients
	broadcast  chan storeEvent
	register   chan subscription
	unregister chan subscription
	mu         sync.Mutex
	stores     *repository.StoreRepository
}

type subscription struct {
	Conn    *websocket.Conn
	StoreID uint
	UserID  uint
}

// OrderEvent is the wire shape pushed to subscribers.
type OrderEvent struct {
	Event   string    `json:"event"`
	StoreID uint      `json:"storeId"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

type storeEvent struct {
	StoreID uint
	Event   OrderEvent
}

func NewOrderHub(stores *repository.StoreRepository) *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan storeEvent, 64),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		stores:     stores,
	}
}

// Run owns the client sets; everything mutating them goes through channels.
func (h *OrderHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.StoreID] == nil {
				h.clients[sub.StoreID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.StoreID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.StoreID][sub.Conn]; ok {
				delete(h.clients[sub.StoreID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[ev.StoreID] {
				if err := conn.WriteJSON(ev.Event); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[ev.StoreID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyStore never blocks order processing: with no subscribers the event is
// dropped on the floor, not queued.
func (h *OrderHub) NotifyStore(storeID uint, event string, payload any) {
	select {
	case h.broadcast <- storeEvent{
		StoreID: storeID,
		Event:   OrderEvent{Event: event, StoreID: storeID, At: time.Now(), Payload: payload},
	}:
	default:
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/stores/:id/orders
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	var storeID uint
	fmt.Sscan(c.Param("id"), &storeID)

	userIDVal, _ := c.Get("userId")
	userID, _ := userIDVal.(uint)

	// only the store's owner may listen to its order feed
	ok, err := h.stores.IsOwnedBy(storeID, userID)
	if err != nil || !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no access"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := subscription{Conn: conn, StoreID: storeID, UserID: userID}
	h.register <- sub

	go h.drain(sub)
}

// drain keeps the connection's read side alive so closes are noticed;
// subscribers never send application data.
func (h *OrderHub) drain(sub subscription) {
	defer func() { h.unregister <- sub }()

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
