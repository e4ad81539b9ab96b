package enums

// OutboxEventType names a domain event emitted through the outbox.
type OutboxEventType string

const (
	EventOrderFinalized OutboxEventType = "order.finalized"
)

func (t OutboxEventType) String() string { return string(t) }

func (t OutboxEventType) IsValid() bool {
	switch t {
	case EventOrderFinalized:
		return true
	default:
		return false
	}
}

// OutboxAggregateType names the aggregate an outbox event refers to.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "order"
)

func (t OutboxAggregateType) String() string { return string(t) }

func (t OutboxAggregateType) IsValid() bool {
	switch t {
	case AggregateOrder:
		return true
	default:
		return false
	}
}
