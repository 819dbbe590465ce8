package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
)

// Line is one product's entry in the cart. Name, Price and ImageURL are copied
// from the catalog when the product is first added and are not refreshed.
type Line struct {
	ItemID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price * quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is an immutable view of the cart handed to subscribers.
type Snapshot struct {
	Lines    []Line          `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
}

// Cart is the shopping cart aggregate of one browsing session.
//
// Invariants: at most one line per item id, and every line has quantity >= 1.
// Lines keep insertion order.
type Cart struct {
	mu          sync.Mutex
	lines       []Line
	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds quantity units of item, merging into an existing line.
func (c *Cart) AddItem(item catalog.Product, quantity int) {
	c.Dispatch(AddItem{Item: item, Quantity: quantity})
}

// SetQuantity sets the exact quantity of a line. quantity <= 0 removes it.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	c.Dispatch(SetQuantity{ItemID: itemID, Quantity: quantity})
}

// RemoveItem deletes the line for itemID, if any.
func (c *Cart) RemoveItem(itemID string) {
	c.Dispatch(RemoveItem{ItemID: itemID})
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Dispatch(Clear{})
}

// Dispatch applies cmd and, when the cart changed, notifies every subscriber
// with the resulting snapshot before returning.
func (c *Cart) Dispatch(cmd Command) {
	c.mu.Lock()
	changed := cmd.apply(c)
	if !changed {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	subs := make([]subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (c *Cart) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Total returns the sum of price * quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Quantity is the sum of all line quantities.
func (c *Cart) Quantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Snapshot returns the current state.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cart) snapshotLocked() Snapshot {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	qty := 0
	for _, l := range lines {
		qty += l.Quantity
	}
	return Snapshot{Lines: lines, Total: c.totalLocked(), Quantity: qty}
}

func (c *Cart) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) indexOf(itemID string) int {
	for i, l := range c.lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}
