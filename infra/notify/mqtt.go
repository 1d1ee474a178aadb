// Package notify publishes offer and allocation notifications to the
// counterparties over MQTT.
package notify

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/agrinet/allocd/core/events"
	"github.com/agrinet/allocd/infra/logger"
)

// Notifier delivers outbound notifications.
type Notifier interface {
	NotifyOffer(ev events.OfferEvent) error
	NotifyAllocation(ev events.AllocationEvent) error
	Close() error
}

// MQTTNotifier implements Notifier on an Eclipse Paho client. Offers go to
// <prefix>/offers/<receiver>, allocation results to
// <prefix>/allocations/<requester>.
type MQTTNotifier struct {
	cli    paho.Client
	cfg    Config
	logger logger.Logger
}

// NewMQTTNotifier connects to the broker.
func NewMQTTNotifier(cfg Config) (*MQTTNotifier, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := newTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &MQTTNotifier{cli: cli, cfg: cfg, logger: logger.New("notifier")}, nil
}

func newTLSConfig(cfg Config) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CABundle != "" {
		ca, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("parse ca bundle %s", cfg.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

func (n *MQTTNotifier) publish(topic string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	token := n.cli.Publish(topic, n.cfg.QoS, false, b)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

// NotifyOffer publishes the offer to its receiver's topic.
func (n *MQTTNotifier) NotifyOffer(ev events.OfferEvent) error {
	topic := fmt.Sprintf("%s/offers/%s", n.cfg.TopicPrefix, ev.ReceiverID)
	return n.publish(topic, ev)
}

// NotifyAllocation publishes the allocation result to the requester's topic.
func (n *MQTTNotifier) NotifyAllocation(ev events.AllocationEvent) error {
	topic := fmt.Sprintf("%s/allocations/%s", n.cfg.TopicPrefix, ev.Request.RequesterID)
	return n.publish(topic, ev.Result)
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() error {
	n.cli.Disconnect(250)
	return nil
}
