package mqtt

import (
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/kart-io/mediahook/pkg/logger"
)

const (
	// reconnectDelay is the fixed backoff between reconnect attempts after an
	// unexpected disconnect.
	reconnectDelay = 30 * time.Second

	// disconnectQuiesceMs is how long Disconnect waits for in-flight work.
	disconnectQuiesceMs = 250
)

// Connection is the subset of the broker client the destination publishes
// through. Satisfied by paho's Client; test doubles implement it directly.
type Connection interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// Manager owns the registry of destination-instance id to long-lived broker
// connection. Reconcile is the reaction to a configuration change: a full
// teardown and rebuild, never an incremental diff. Reconcile calls are
// mutually exclusive; Send-path lookups take the read lock only.
type Manager struct {
	log logger.Logger

	mu      sync.RWMutex
	clients map[string]pahomqtt.Client
}

// NewManager creates an empty connection manager.
func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.Discard
	}
	return &Manager{log: log, clients: make(map[string]pahomqtt.Client)}
}

// Get returns the live connection registered for the instance id.
func (m *Manager) Get(instanceID string) (Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[instanceID]
	return c, ok
}

// Reconcile replaces every owned connection with freshly constructed clients
// for the given options. Startup is best-effort per client: a client that
// fails to construct is logged and skipped, and reconciliation of the rest
// proceeds.
func (m *Manager) Reconcile(opts []*Option) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopAllLocked()

	for _, o := range opts {
		if !o.Enabled {
			continue
		}
		o.EnsureInstanceID()
		client, err := m.startClient(o)
		if err != nil {
			m.log.Error("failed to start broker client", "instance", o.InstanceID, "server", o.Server, "error", err)
			continue
		}
		m.clients[o.InstanceID] = client
	}
	m.log.Info("broker connections reconciled", "count", len(m.clients))
}

// Close stops every owned connection.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAllLocked()
}

func (m *Manager) stopAllLocked() {
	for id, client := range m.clients {
		client.Disconnect(disconnectQuiesceMs)
		m.log.Debug("broker client stopped", "instance", id)
	}
	m.clients = make(map[string]pahomqtt.Client)
}

// startClient constructs and asynchronously connects one broker client.
func (m *Manager) startClient(o *Option) (pahomqtt.Client, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	scheme := "tcp"
	if o.UseTLS {
		scheme = "ssl"
	}
	broker := fmt.Sprintf("%s://%s:%d", scheme, o.Server, o.Port)
	instance := o.InstanceID

	clientOpts := pahomqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("mediahook-" + instance).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(reconnectDelay).
		SetConnectRetry(true).
		SetConnectRetryInterval(reconnectDelay)

	if o.Username != "" {
		clientOpts.SetUsername(o.Username)
		clientOpts.SetPassword(o.Password)
	}
	if o.UseTLS {
		clientOpts.SetTLSConfig(&tls.Config{InsecureSkipVerify: o.SkipCertVerify})
	}

	clientOpts.SetOnConnectHandler(func(pahomqtt.Client) {
		m.log.Debug("broker connected", "instance", instance, "broker", broker)
	})
	clientOpts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		m.log.Debug("broker connection lost", "instance", instance, "broker", broker, "error", err)
	})
	clientOpts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		m.log.Debug("broker reconnecting", "instance", instance, "broker", broker)
	})

	client := pahomqtt.NewClient(clientOpts)

	// Connect asynchronously: reconcile never blocks on a slow broker, and
	// connect failures surface through the lifecycle handlers and retry loop.
	token := client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			m.log.Debug("broker connect failed", "instance", instance, "broker", broker, "error", err)
		}
	}()

	return client, nil
}
