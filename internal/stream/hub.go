package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans row-change notifications out to connected clients so they can
// re-fetch the feed. Redis pub/sub carries the same payloads across
// instances; a nil redis client keeps the hub local-only.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Topic string
	Send  chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicClients, ok := h.clients[client.Topic]; ok {
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.clients, client.Topic)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mu.RLock()
	for client := range h.clients[topic] {
		select {
		case client.Send <- payload:
		default:
		}
	}
	h.mu.RUnlock()

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(topic), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "timeline:*:changes")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		topic := topicFromChannel(msg.Channel)
		h.mu.RLock()
		for client := range h.clients[topic] {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
		h.mu.RUnlock()
	}
}

func redisChannel(topic string) string {
	return "timeline:" + topic + ":changes"
}

func topicFromChannel(ch string) string {
	// timeline:{topic}:changes
	const prefix = "timeline:"
	const suffix = ":changes"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
