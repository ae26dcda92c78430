package bdsingestor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/google/uuid"

	config "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Config"
	logger "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Logger"
	bdsmodels "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Models"
	interfaces "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Repository/Interfaces"
)

// Ingestor owns the subscription to the bee-data topic. The paho network
// loop runs on its own goroutine and is the only caller of onMessage;
// decoded readings are handed to a buffered channel consumed by a single
// writer goroutine, which owns all document-store writes. The network
// loop never blocks on database latency.
type Ingestor struct {
	cfg    config.MQTTConfig
	repo   interfaces.BeeReadingRepository
	logger *logger.Logger

	client mqtt.Client
	msgCh  chan bdsmodels.BeeReading
	wg     sync.WaitGroup
	stop   sync.Once

	mu        sync.Mutex
	listeners []func(connected bool)
}

func New(cfg config.MQTTConfig, repo interfaces.BeeReadingRepository, log *logger.Logger) *Ingestor {
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 4096
	}
	return &Ingestor{
		cfg:    cfg,
		repo:   repo,
		logger: log.WithComponent("mqtt"),
		msgCh:  make(chan bdsmodels.BeeReading, queueSize),
	}
}

// Start configures the client, launches the writer goroutine and kicks
// off the connection attempt. The connect is fire-and-forget: the paho
// client retries in the background and IsConnected is the only externally
// observable failure signal. Only a broken TLS configuration is returned
// as an error.
func (i *Ingestor) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(i.brokerURL()).
		SetClientID(fmt.Sprintf("%s-%s", i.cfg.ClientID, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])).
		SetKeepAlive(i.cfg.KeepAlive).
		SetPingTimeout(i.cfg.PingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(false)

	if i.cfg.BrokerUser != "" {
		opts.SetUsername(i.cfg.BrokerUser)
		opts.SetPassword(i.cfg.BrokerPass)
		i.logger.WithField("user", i.cfg.BrokerUser).Info("MQTT authentication configured")
	}

	if i.cfg.UseTLS {
		tlsCfg, err := i.tlsConfig(i.cfg.CACertPath)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
		i.logger.Info("MQTT TLS enabled")
	}

	opts.OnConnect = func(c mqtt.Client) {
		i.logger.WithField("topic", i.cfg.Topic).Info("Connected to MQTT broker, subscribing")
		if token := c.Subscribe(i.cfg.Topic, 1, i.onMessage); token.Wait() && token.Error() != nil {
			i.logger.ErrorWithError(token.Error(), "Subscribe failed")
		}
		i.notifyListeners(true)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		i.logger.WithField("reason", classifyConnectionError(err)).ErrorWithError(err, "MQTT connection lost")
		i.notifyListeners(false)
	}

	i.client = mqtt.NewClient(opts)

	i.startWriter(ctx)

	i.logger.WithField("broker", i.brokerURL()).Info("Connecting to MQTT broker")
	token := i.client.Connect()
	go func() {
		if token.Wait() && token.Error() != nil {
			i.logger.WithField("reason", classifyConnectionError(token.Error())).
				ErrorWithError(token.Error(), "Failed to connect to MQTT broker")
		}
	}()

	return nil
}

// WaitForConnection blocks up to timeout for the broker session to come
// up, polling every 500ms. Callers must not assume the connection is
// established synchronously; a false return is a degraded start, not a
// fatal one.
func (i *Ingestor) WaitForConnection(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if i.IsConnected() {
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return i.IsConnected()
}

// Stop disconnects from the broker, closes the handoff channel and waits
// for the writer goroutine to drain what is already queued. Idempotent.
func (i *Ingestor) Stop() {
	if i.client != nil && i.client.IsConnected() {
		i.client.Disconnect(500)
	}
	i.stop.Do(func() {
		close(i.msgCh)
	})
	i.wg.Wait()
}

// IsConnected reports current broker connectivity for health reporting.
func (i *Ingestor) IsConnected() bool {
	return i.client != nil && i.client.IsConnected()
}

// OnConnectionChange registers a listener invoked with the new
// connectivity state on every connect and disconnect.
func (i *Ingestor) OnConnectionChange(fn func(connected bool)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, fn)
}

// Publish serializes data to JSON and publishes it at QoS 1. A publish
// while disconnected is a logged no-op, never an error to the caller.
func (i *Ingestor) Publish(topic string, data interface{}) {
	if !i.IsConnected() {
		i.logger.Warn("Not connected to MQTT broker, dropping publish")
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		i.logger.ErrorWithError(err, "Failed to marshal publish payload")
		return
	}

	token := i.client.Publish(topic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		i.logger.WithField("topic", topic).ErrorWithError(token.Error(), "Failed to publish")
		return
	}
	i.logger.WithField("topic", topic).Debug("Published message")
}

// onMessage runs on the paho network goroutine for every inbound message.
// It decodes, stamps a missing timestamp and enqueues; a malformed payload
// is logged and dropped without affecting the subscription.
func (i *Ingestor) onMessage(_ mqtt.Client, m mqtt.Message) {
	reading, err := bdsmodels.DecodeBeeReading(m.Payload())
	if err != nil {
		i.logger.WithField("topic", m.Topic()).ErrorWithError(err, "Failed to decode message")
		return
	}

	if reading.Timestamp == "" {
		reading.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	// Cross-context handoff: never blocks the network loop, even when the
	// writer is stalled on a slow store.
	select {
	case i.msgCh <- reading:
	default:
		i.logger.Warn("Reading queue full, dropping message")
	}
}

func (i *Ingestor) startWriter(ctx context.Context) {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.writerLoop(ctx)
	}()
}

// writerLoop is the sole consumer of msgCh and the only goroutine that
// writes readings to the store. A closed channel is drained before
// returning so queued readings are not lost on shutdown.
func (i *Ingestor) writerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reading, ok := <-i.msgCh:
			if !ok {
				return
			}
			i.repo.Insert(ctx, reading)
		}
	}
}

func (i *Ingestor) notifyListeners(connected bool) {
	i.mu.Lock()
	listeners := make([]func(bool), len(i.listeners))
	copy(listeners, i.listeners)
	i.mu.Unlock()

	for _, fn := range listeners {
		fn(connected)
	}
}

func (i *Ingestor) brokerURL() string {
	scheme := "tcp"
	if i.cfg.UseTLS {
		scheme = "tcps"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, i.cfg.BrokerHost, i.cfg.BrokerPort)
}

func (i *Ingestor) tlsConfig(caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile == "" {
		return cfg, nil
	}
	ca, err := os.ReadFile(caFile)
	if err != nil {
		return nil, err
	}
	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("bad CA file")
	}
	cfg.RootCAs = cp
	return cfg, nil
}

// classifyConnectionError maps broker refusal codes to the log labels the
// frontend dashboards grep for.
func classifyConnectionError(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, packets.ErrorRefusedBadProtocolVersion):
		return "incorrect protocol version"
	case errors.Is(err, packets.ErrorRefusedIDRejected):
		return "invalid client identifier"
	case errors.Is(err, packets.ErrorRefusedServerUnavailable):
		return "server unavailable"
	case errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword):
		return "bad username or password"
	case errors.Is(err, packets.ErrorRefusedNotAuthorised):
		return "not authorised"
	default:
		return "connection error"
	}
}
