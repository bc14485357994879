package domain

type CoffeeAction string

const (
	CoffeeCreated CoffeeAction = "Created"
	CoffeeUpdated CoffeeAction = "Updated"
	CoffeeDeleted CoffeeAction = "Deleted"
)

// CoffeeMessage is the notification published after every successful write.
type CoffeeMessage struct {
	CoffeeID string       `json:"coffeeId"`
	Name     string       `json:"name"`
	Action   CoffeeAction `json:"action"`
}

// RoutingKey returns the topic routing key for the action, e.g. "coffee.created".
func (a CoffeeAction) RoutingKey() string {
	switch a {
	case CoffeeCreated:
		return "coffee.created"
	case CoffeeUpdated:
		return "coffee.updated"
	case CoffeeDeleted:
		return "coffee.deleted"
	default:
		return "coffee.unknown"
	}
}

func NewCoffeeMessage(c *Coffee, action CoffeeAction) CoffeeMessage {
	return CoffeeMessage{
		CoffeeID: c.ID(),
		Name:     c.Name(),
		Action:   action,
	}
}
