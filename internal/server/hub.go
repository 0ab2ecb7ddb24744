// Package server coordinates client lifecycle for the chat service via the
// Hub type, which owns the connection registry and the group directory.
package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Vivek-26-12/ChatWebscoket/internal/groups"
	"github.com/Vivek-26-12/ChatWebscoket/internal/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Vivek-26-12/ChatWebscoket/internal/server"

// Hub owns all shared chat state. A single mutex guards the registry, the
// group directory and the live client set; outbound sends made while holding
// it only enqueue and never wait on the network.
type Hub struct {
	cfg      Config
	mu       sync.Mutex
	registry *registry.Registry
	groups   *groups.Directory
	clients  map[*Client]bool

	register   chan *Client
	unregister chan *Client
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}

	now    func() time.Time
	tracer trace.Tracer
}

// NewHub creates a Hub for cfg. A nil cfg uses defaults.
func NewHub(cfg *Config) *Hub {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	c = sanitizeConfig(c)

	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:        c,
		registry:   registry.New(),
		groups:     groups.NewDirectory(),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		now:        time.Now,
		tracer:     otel.Tracer(tracerName),
	}
}

// Config returns the sanitized configuration the hub runs with.
func (h *Hub) Config() Config {
	return h.cfg
}

// GetRegisterChan returns the channel used for registering new clients to the hub.
func (h *Hub) GetRegisterChan() chan<- *Client {
	return h.register
}

// GetUnregisterChan returns the channel used for unregistering clients from the hub.
func (h *Hub) GetUnregisterChan() chan<- *Client {
	return h.unregister
}

// OnlineUsers returns the registered usernames in registration order.
func (h *Hub) OnlineUsers() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.Usernames()
}

// GroupsFor returns the groups username currently belongs to.
func (h *Hub) GroupsFor(username string) []groups.Group {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.groups.ListFor(username)
}

// ClientCount returns the number of accepted transports still open.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Accept hands a freshly upgraded client to the Run loop. It reports false
// when the hub is shutting down.
func (h *Hub) Accept(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// leave reports a closed transport. After Run has exited it cleans up inline
// so read pumps never block during shutdown.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.Disconnect(client)
	}
}

// Run starts the hub's main event loop, handling client registration and
// unregistration. This method should be called in a separate goroutine as it
// runs until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				log.Printf("Received nil client registration; skipping")
				continue
			}

			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			log.Printf("Client accepted from %s. Total clients: %d", client.addr, clientCount)

			if client.conn == nil {
				continue
			}

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.Disconnect(client)
		}
	}
}

// shutdownClients closes every open transport so the pumps exit.
func (h *Hub) shutdownClients() {
	log.Println("Shutting down all client connections...")

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			if err := client.conn.Close(); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error closing client connection from %s: %v", client.addr, err)
				}
			}
		}
	}

	log.Printf("Closed %d client connections", len(clients))
}

// Shutdown initiates graceful shutdown of the hub and waits for all goroutines to complete.
// It returns after all client connections are closed and goroutines have finished,
// or when the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
