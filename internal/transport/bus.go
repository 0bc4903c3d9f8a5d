// Package transport implements the inter-region bus: three logical
// topics (tick, migration, commute) carrying JSON payloads over NATS,
// with a bounded retry budget on publish (spec §4.5, §7).
package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/epirust-go/epirust/internal/travel"
)

const (
	tickSubject = "epirust.tick"
	ackSubject  = "epirust.tick_ack"

	maxPublishRetries = 5
	retryBaseDelay    = 100 * time.Millisecond
)

func migrationSubject(region string) string { return "epirust.migration." + region }
func commuteSubject(region string) string   { return "epirust.commute." + region }

// Bus is a region's connection to the shared message bus.
type Bus struct {
	conn *nats.Conn

	tickCh chan travel.Tick
	ackCh  chan travel.TickAck

	migrationSub *nats.Subscription
	migrationCh  chan travel.MigratorsByRegion

	commuteSub *nats.Subscription
	commuteCh  chan travel.CommutersByRegion
}

// Connect dials url and subscribes this region to its own migration and
// commute topics, plus the shared tick and ack topics.
func Connect(url, regionID string) (*Bus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("transport: connect %s: %w", url, err)
	}

	b := &Bus{
		conn:        conn,
		tickCh:      make(chan travel.Tick, 64),
		ackCh:       make(chan travel.TickAck, 64),
		migrationCh: make(chan travel.MigratorsByRegion, 64),
		commuteCh:   make(chan travel.CommutersByRegion, 64),
	}

	if _, err := conn.Subscribe(tickSubject, b.decodeTick()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: subscribe tick: %w", err)
	}
	if _, err := conn.Subscribe(ackSubject, b.decodeAck()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: subscribe ack: %w", err)
	}
	sub, err := conn.Subscribe(migrationSubject(regionID), b.decodeMigration())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: subscribe migration: %w", err)
	}
	b.migrationSub = sub
	csub, err := conn.Subscribe(commuteSubject(regionID), b.decodeCommute())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: subscribe commute: %w", err)
	}
	b.commuteSub = csub

	return b, nil
}

func (b *Bus) decodeTick() nats.MsgHandler {
	return func(msg *nats.Msg) {
		var t travel.Tick
		if err := json.Unmarshal(msg.Data, &t); err != nil {
			slog.Error("transport: malformed tick message", "err", err)
			return
		}
		b.tickCh <- t
	}
}

func (b *Bus) decodeAck() nats.MsgHandler {
	return func(msg *nats.Msg) {
		var a travel.TickAck
		if err := json.Unmarshal(msg.Data, &a); err != nil {
			slog.Error("transport: malformed ack message", "err", err)
			return
		}
		b.ackCh <- a
	}
}

func (b *Bus) decodeMigration() nats.MsgHandler {
	return func(msg *nats.Msg) {
		var m travel.MigratorsByRegion
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			slog.Error("transport: malformed migration message", "err", err)
			return
		}
		b.migrationCh <- m
	}
}

func (b *Bus) decodeCommute() nats.MsgHandler {
	return func(msg *nats.Msg) {
		var c travel.CommutersByRegion
		if err := json.Unmarshal(msg.Data, &c); err != nil {
			slog.Error("transport: malformed commute message", "err", err)
			return
		}
		b.commuteCh <- c
	}
}

// AwaitTick blocks until a tick whose hour equals wantHour arrives,
// discarding any with an earlier hour (spec §4.5 step 1, §8 invariant 5).
// Returns the tick; its Terminate field carries the terminate flag.
func (b *Bus) AwaitTick(wantHour int) travel.Tick {
	for t := range b.tickCh {
		if t.Hour < wantHour {
			continue
		}
		if t.Hour > wantHour {
			panic(fmt.Sprintf("transport: received tick for hour %d before local hour reached %d", t.Hour, wantHour))
		}
		return t
	}
	panic("transport: tick channel closed before terminate tick")
}

// PublishAck sends this region's TickAck with a bounded retry budget.
func (b *Bus) PublishAck(ack travel.TickAck) error {
	return b.publishWithRetry(ackSubject, ack)
}

// PublishTick broadcasts the current hour to every region. Used by the
// coordinator binary, which is the only caller of AwaitAck.
func (b *Bus) PublishTick(t travel.Tick) error {
	return b.publishWithRetry(tickSubject, t)
}

// AwaitAck blocks for the next TickAck from any region.
func (b *Bus) AwaitAck() travel.TickAck {
	return <-b.ackCh
}

// PublishMigrants sends one message per destination bucket, including
// empty buckets so receivers can count them (spec §4.5 step 3).
func (b *Bus) PublishMigrants(buckets []travel.MigratorsByRegion) error {
	for _, bucket := range buckets {
		if err := b.publishWithRetry(migrationSubject(bucket.ToRegion), bucket); err != nil {
			return err
		}
	}
	return nil
}

// PublishCommuters sends one message per destination bucket.
func (b *Bus) PublishCommuters(buckets []travel.CommutersByRegion) error {
	for _, bucket := range buckets {
		if err := b.publishWithRetry(commuteSubject(bucket.ToRegion), bucket); err != nil {
			return err
		}
	}
	return nil
}

// AwaitMigrants blocks until `count` migration messages have been
// received for this hour and returns their concatenated migrators.
func (b *Bus) AwaitMigrants(count int) []travel.Migrator {
	var out []travel.Migrator
	for i := 0; i < count; i++ {
		bucket := <-b.migrationCh
		out = append(out, bucket.Migrators...)
	}
	return out
}

// AwaitCommuters blocks until `count` commute messages have been received
// for this hour and returns their concatenated commuters.
func (b *Bus) AwaitCommuters(count int) []travel.Commuter {
	var out []travel.Commuter
	for i := 0; i < count; i++ {
		bucket := <-b.commuteCh
		out = append(out, bucket.Commuters...)
	}
	return out
}

// publishWithRetry publishes payload to subject, retrying with
// exponential backoff up to maxPublishRetries times before escalating to
// a fatal bus error (spec §7's "Bus transient error" kind).
func (b *Bus) publishWithRetry(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("transport: marshal payload for %s: %w", subject, err)
	}

	var lastErr error
	for attempt := 0; attempt < maxPublishRetries; attempt++ {
		if err := b.conn.Publish(subject, data); err == nil {
			return nil
		} else {
			lastErr = err
			slog.Warn("transport: publish failed, retrying", "subject", subject, "attempt", attempt, "err", err)
			time.Sleep(retryBaseDelay << attempt)
		}
	}
	return fmt.Errorf("transport: exhausted retry budget publishing to %s: %w", subject, lastErr)
}

// Close drains subscriptions and closes the underlying connection.
func (b *Bus) Close() {
	if b.migrationSub != nil {
		b.migrationSub.Unsubscribe()
	}
	if b.commuteSub != nil {
		b.commuteSub.Unsubscribe()
	}
	b.conn.Close()
}
