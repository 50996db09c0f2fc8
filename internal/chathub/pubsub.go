package chathub

import (
	"encoding/json"
	"log"

	"unilink/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// consumePubSub drains the Redis subscription covering all room channels
// and feeds decoded envelopes into the hub loop. It exits when the
// subscription is closed.
func (m *ManagerService) consumePubSub(pubsub *redis.PubSub) {
	for msg := range pubsub.Channel() {
		var env models.RealtimeMessage
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("ERROR: Failed to decode realtime message on %s: %v", msg.Channel, err)
			continue
		}

		select {
		case m.PubSubCh <- env:
		case <-m.stopCh:
			return
		}
	}
}
