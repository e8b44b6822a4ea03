// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

// Manager routes messages between entities.
// It is owned by the caller; entities only delegate to it.
type Manager interface {
	SendMessage(sender, receiver *Entity, message string, delay float64, data any)
}

// Telegram is a message in flight between two entities.
type Telegram struct {
	Sender   *Entity
	Receiver *Entity
	Message  string
	// Delivery delay in seconds.
	Delay float64
	Data  any
}

// SendMessage routes message to receiver through the attached
// manager, passing e as the sender. Without a manager the message is
// dropped and a diagnostic is logged; the call does not fail.
func (e *Entity) SendMessage(receiver *Entity, message string, delay float64, data any) {
	if e.Manager == nil {
		logger.Warn("message dropped: no manager attached",
			"sender", e.Name,
			"message", message,
		)
		return
	}
	e.Manager.SendMessage(e, receiver, message, delay, data)
}

// HandleMessage delivers t to the entity's OnMessage hook.
// It reports whether the message was handled.
func (e *Entity) HandleMessage(t Telegram) bool {
	if e.OnMessage != nil {
		return e.OnMessage(e, t)
	}
	return false
}
