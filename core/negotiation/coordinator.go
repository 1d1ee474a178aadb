// Package negotiation runs bounded multi-round bargaining sessions between a
// requester and an allocator when a direct grant is impossible.
package negotiation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrinet/allocd/core/events"
	"github.com/agrinet/allocd/core/logger"
	"github.com/agrinet/allocd/core/model"
	"github.com/agrinet/allocd/core/pricing"
	"github.com/agrinet/allocd/internal/eventbus"
)

// Coordinator owns the active session set and drives the bargaining state
// machine. Mutations on a session are serialized behind the coordinator lock
// so its offer list and transitions stay deterministic.
type Coordinator struct {
	mu       sync.Mutex
	cfg      Config
	pricing  *pricing.Policy
	log      logger.Logger
	bus      eventbus.EventBus
	sessions map[string]*Session
	history  []*Session
	profiles map[string]*Profile

	// now and jitter are injectable for deterministic tests. A nil jitter
	// disables opening-price randomness.
	now    func() time.Time
	jitter func() float64
}

// NewCoordinator creates a Coordinator. The bus may be nil.
func NewCoordinator(cfg Config, policy *pricing.Policy, bus eventbus.EventBus, log logger.Logger) (*Coordinator, error) {
	if policy == nil {
		return nil, fmt.Errorf("negotiation: nil pricing policy")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{
		cfg:      cfg,
		pricing:  policy,
		log:      log,
		bus:      bus,
		sessions: make(map[string]*Session),
		profiles: make(map[string]*Profile),
		now:      time.Now,
	}, nil
}

// SetClock overrides the time source, for tests.
func (c *Coordinator) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// SetJitter sets the opening-price randomness source. Nil keeps pricing
// deterministic.
func (c *Coordinator) SetJitter(j func() float64) {
	c.mu.Lock()
	c.jitter = j
	c.mu.Unlock()
}

// RegisterAgent records the bargaining strategy of an agent.
func (c *Coordinator) RegisterAgent(agentID string, strategy Strategy) {
	c.mu.Lock()
	c.profiles[agentID] = &Profile{
		AgentID:     agentID,
		Strategy:    strategy,
		SuccessRate: c.cfg.InitialSuccessRate,
	}
	c.mu.Unlock()
}

// profileFor returns the agent profile, creating a default one on first use.
func (c *Coordinator) profileFor(agentID string) *Profile {
	p, ok := c.profiles[agentID]
	if !ok {
		p = &Profile{
			AgentID:     agentID,
			Strategy:    StrategyAdaptive,
			SuccessRate: c.cfg.InitialSuccessRate,
		}
		c.profiles[agentID] = p
	}
	return p
}

// FairPrice exposes the negotiation baseline for an item.
func (c *Coordinator) FairPrice(kind model.ResourceKind, quantity float64) float64 {
	return c.pricing.FairPrice(kind, quantity)
}

// Initiate opens a session with one seed offer. A zero price derives the
// opening price from the fair market baseline and the initiator's strategy.
func (c *Coordinator) Initiate(initiatorID, responderID string, kind model.ResourceKind, quantity, price float64, conditions map[string]string) (*Session, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", model.ErrInvalidRequest)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	fair := c.pricing.FairPrice(kind, quantity)
	if price == 0 {
		price = c.openingPrice(c.profileFor(initiatorID), fair)
	}

	session := &Session{
		ID:              uuid.NewString(),
		InitiatorID:     initiatorID,
		ResponderID:     responderID,
		Kind:            kind,
		InitialQuantity: quantity,
		Status:          StatusInitiated,
		CreatedAt:       now,
		UpdatedAt:       now,
		ExpiresAt:       now.Add(c.cfg.SessionTTL),
	}
	seed := Offer{
		ID:         uuid.NewString(),
		SessionID:  session.ID,
		SenderID:   initiatorID,
		ReceiverID: responderID,
		Kind:       kind,
		Quantity:   quantity,
		UnitPrice:  price / quantity,
		TotalPrice: price,
		Conditions: conditions,
		Timestamp:  now,
		ExpiresAt:  now.Add(c.cfg.InitialOfferTTL),
	}
	session.Offers = append(session.Offers, seed)
	c.sessions[session.ID] = session

	sessionsStarted.WithLabelValues(kind.String()).Inc()
	offersMade.WithLabelValues(kind.String()).Inc()
	c.publishOffer(seed)
	c.log.Infof("negotiation %s initiated: %s -> %s for %.1f %s at $%.2f",
		session.ID, initiatorID, responderID, quantity, kind, price)
	return session, nil
}

// CounterOffer appends a new offer countering the previous one. Zero price or
// quantity are derived from the strategy rules and the countered offer. When
// the appended offer satisfies the auto-accept heuristic the session is
// finalized immediately.
func (c *Coordinator) CounterOffer(sessionID, agentID string, price, quantity float64, conditions map[string]string) (Offer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.activeSession(sessionID)
	if err != nil {
		return Offer{}, err
	}
	if agentID != session.InitiatorID && agentID != session.ResponderID {
		return Offer{}, fmt.Errorf("agent %s is not a participant of session %s: %w", agentID, sessionID, model.ErrInvalidState)
	}
	if price < 0 || quantity < 0 {
		return Offer{}, fmt.Errorf("%w: counter price and quantity must not be negative", model.ErrInvalidRequest)
	}
	last := session.lastOffer()
	now := c.now()
	if now.After(last.ExpiresAt) {
		return Offer{}, fmt.Errorf("offer %s: %w", last.ID, model.ErrExpired)
	}

	fair := c.pricing.FairPrice(session.Kind, session.InitialQuantity)
	if price == 0 {
		price = c.counterPrice(c.profileFor(agentID), session, fair)
	}
	if quantity == 0 {
		quantity = last.Quantity
	}

	merged := make(map[string]string, len(last.Conditions)+len(conditions))
	for k, v := range last.Conditions {
		merged[k] = v
	}
	for k, v := range conditions {
		merged[k] = v
	}

	counter := Offer{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		SenderID:   agentID,
		ReceiverID: last.SenderID,
		Kind:       session.Kind,
		Quantity:   quantity,
		UnitPrice:  price / quantity,
		TotalPrice: price,
		Conditions: merged,
		Timestamp:  now,
		ExpiresAt:  now.Add(c.cfg.CounterOfferTTL),
		CounterTo:  last.ID,
	}
	session.Offers = append(session.Offers, counter)
	session.UpdatedAt = now
	session.Status = StatusInProgress

	offersMade.WithLabelValues(session.Kind.String()).Inc()
	c.publishOffer(counter)
	c.log.Infof("counter-offer on %s: %s counters at $%.2f (was $%.2f)",
		sessionID, agentID, price, last.TotalPrice)

	if c.shouldAutoAccept(session, &counter, fair) {
		c.finalizeAgreed(session, &counter)
	}
	return counter, nil
}

// Accept finalizes the session as Agreed if the offer belongs to it and the
// accepting agent is its receiver.
func (c *Coordinator) Accept(sessionID, agentID, offerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.activeSession(sessionID)
	if err != nil {
		return err
	}
	offer := session.findOffer(offerID)
	if offer == nil {
		return fmt.Errorf("offer %s: %w", offerID, model.ErrNotFound)
	}
	if offer.ReceiverID != agentID {
		return fmt.Errorf("%w: %s is not the receiver of offer %s", model.ErrInvalidState, agentID, offerID)
	}
	if c.now().After(offer.ExpiresAt) {
		return fmt.Errorf("offer %s: %w", offerID, model.ErrExpired)
	}
	c.finalizeAgreed(session, offer)
	return nil
}

// Reject finalizes the session as Rejected and moves it to history.
func (c *Coordinator) Reject(sessionID, agentID, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.activeSession(sessionID)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = "offer rejected"
	}
	session.ConflictReason = reason
	c.close(session, StatusRejected)
	c.log.Infof("negotiation %s rejected by %s: %s", sessionID, agentID, reason)
	return nil
}

// CleanupExpired moves every active session past its deadline to Expired and
// history. A failure finalizing one session is isolated: the session is
// surfaced as Conflict and the sweep continues.
func (c *Coordinator) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var expired []*Session
	for _, s := range c.sessions {
		if now.After(s.ExpiresAt) {
			expired = append(expired, s)
		}
	}
	for _, s := range expired {
		c.expireSession(s)
	}
	return len(expired)
}

// expireSession closes one session, downgrading it to Conflict if the
// transition itself fails.
func (c *Coordinator) expireSession(s *Session) {
	defer func() {
		if r := recover(); r != nil {
			s.Status = StatusConflict
			s.ConflictReason = fmt.Sprintf("expiry failed: %v", r)
			c.history = append(c.history, s)
			delete(c.sessions, s.ID)
			c.log.Errorf("negotiation %s moved to conflict: %v", s.ID, r)
		}
	}()
	c.close(s, StatusExpired)
	c.log.Infof("negotiation %s expired", s.ID)
}

// activeSession fetches a session, lazily expiring it when its TTL passed.
func (c *Coordinator) activeSession(id string) (*Session, error) {
	session, ok := c.sessions[id]
	if !ok {
		return nil, fmt.Errorf("negotiation %s: %w", id, model.ErrNotFound)
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("negotiation %s is %s: %w", id, session.Status, model.ErrInvalidState)
	}
	if c.now().After(session.ExpiresAt) {
		c.expireSession(session)
		return nil, fmt.Errorf("negotiation %s: %w", id, model.ErrExpired)
	}
	return session, nil
}

// finalizeAgreed records the agreement and closes the session.
func (c *Coordinator) finalizeAgreed(session *Session, offer *Offer) {
	session.FinalAgreement = &Agreement{
		AcceptedOfferID: offer.ID,
		FinalPrice:      offer.TotalPrice,
		FinalQuantity:   offer.Quantity,
		Conditions:      offer.Conditions,
		AgreedAt:        c.now(),
	}
	c.close(session, StatusAgreed)
	c.log.Infof("agreement on %s: %s <-> %s for %.1f %s at $%.2f",
		session.ID, session.InitiatorID, session.ResponderID,
		offer.Quantity, offer.Kind, offer.TotalPrice)
}

// close applies the terminal transition, updates both parties' success rates
// and moves the session to history.
func (c *Coordinator) close(session *Session, status Status) {
	session.Status = status
	session.UpdatedAt = c.now()
	c.updateSuccessRates(session)
	c.history = append(c.history, session)
	delete(c.sessions, session.ID)

	sessionsClosed.WithLabelValues(session.Kind.String(), string(status)).Inc()
	if c.bus != nil {
		var price float64
		if session.FinalAgreement != nil {
			price = session.FinalAgreement.FinalPrice
		}
		c.bus.Publish(events.SessionEvent{
			SessionID:  session.ID,
			Kind:       session.Kind,
			Status:     string(status),
			FinalPrice: price,
			Rounds:     len(session.Offers),
			Duration:   session.UpdatedAt.Sub(session.CreatedAt),
		})
	}
}

// updateSuccessRates nudges both parties' rolling statistic after a terminal
// transition.
func (c *Coordinator) updateSuccessRates(session *Session) {
	for _, id := range []string{session.InitiatorID, session.ResponderID} {
		p := c.profileFor(id)
		if session.Status == StatusAgreed {
			p.SuccessRate += c.cfg.SuccessGain
			if p.SuccessRate > c.cfg.SuccessCap {
				p.SuccessRate = c.cfg.SuccessCap
			}
		} else {
			p.SuccessRate -= c.cfg.FailurePenalty
			if p.SuccessRate < c.cfg.FailureFloor {
				p.SuccessRate = c.cfg.FailureFloor
			}
		}
	}
}

func (c *Coordinator) publishOffer(o Offer) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(events.OfferEvent{
		SessionID:  o.SessionID,
		OfferID:    o.ID,
		SenderID:   o.SenderID,
		ReceiverID: o.ReceiverID,
		Kind:       o.Kind,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		CounterTo:  o.CounterTo,
		ExpiresAt:  o.ExpiresAt,
	})
}

// Session returns a copy of an active or historical session.
func (c *Coordinator) Session(id string) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[id]; ok {
		return *s, nil
	}
	for _, s := range c.history {
		if s.ID == id {
			return *s, nil
		}
	}
	return Session{}, fmt.Errorf("negotiation %s: %w", id, model.ErrNotFound)
}

// Profile returns the current bargaining profile of an agent.
func (c *Coordinator) Profile(agentID string) Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.profileFor(agentID)
}

// ActiveSummaries lists every active session.
func (c *Coordinator) ActiveSummaries() []Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	out := make([]Summary, 0, len(c.sessions))
	for _, s := range c.sessions {
		out = append(out, Summary{
			SessionID:     s.ID,
			Kind:          s.Kind,
			Quantity:      s.InitialQuantity,
			Participants:  []string{s.InitiatorID, s.ResponderID},
			Status:        s.Status,
			OfferCount:    len(s.Offers),
			CurrentPrice:  s.lastOffer().TotalPrice,
			TimeRemaining: s.ExpiresAt.Sub(now),
			CreatedAt:     s.CreatedAt,
		})
	}
	return out
}
