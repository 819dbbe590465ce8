package cart

import "github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"

// Command is a cart mutation. The set of commands is closed to this package.
type Command interface {
	// apply mutates the cart (lock held) and reports whether anything changed.
	apply(c *Cart) bool
}

// AddItem merges Quantity units of Item into the cart.
// Quantity is validated by the caller; values below 1 are ignored.
type AddItem struct {
	Item     catalog.Product
	Quantity int
}

func (cmd AddItem) apply(c *Cart) bool {
	if cmd.Quantity < 1 || cmd.Item.ID == "" {
		return false
	}
	if i := c.indexOf(cmd.Item.ID); i >= 0 {
		c.lines[i].Quantity += cmd.Quantity
		return true
	}
	c.lines = append(c.lines, Line{
		ItemID:   cmd.Item.ID,
		Name:     cmd.Item.Name,
		Price:    cmd.Item.Price,
		ImageURL: cmd.Item.ImageURL,
		Quantity: cmd.Quantity,
	})
	return true
}

// SetQuantity replaces a line's quantity; Quantity <= 0 behaves as RemoveItem.
type SetQuantity struct {
	ItemID   string
	Quantity int
}

func (cmd SetQuantity) apply(c *Cart) bool {
	if cmd.Quantity <= 0 {
		return RemoveItem{ItemID: cmd.ItemID}.apply(c)
	}
	i := c.indexOf(cmd.ItemID)
	if i < 0 || c.lines[i].Quantity == cmd.Quantity {
		return false
	}
	c.lines[i].Quantity = cmd.Quantity
	return true
}

// RemoveItem deletes a line.
type RemoveItem struct {
	ItemID string
}

func (cmd RemoveItem) apply(c *Cart) bool {
	i := c.indexOf(cmd.ItemID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// RemoveOrdered takes Lines, as they were submitted in an order, out of the
// cart. Quantities added after the submission stay in the cart.
type RemoveOrdered struct {
	Lines []Line
}

func (cmd RemoveOrdered) apply(c *Cart) bool {
	changed := false
	for _, ordered := range cmd.Lines {
		i := c.indexOf(ordered.ItemID)
		if i < 0 || ordered.Quantity < 1 {
			continue
		}
		changed = true
		if c.lines[i].Quantity <= ordered.Quantity {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			continue
		}
		c.lines[i].Quantity -= ordered.Quantity
	}
	return changed
}

// Clear empties the cart.
type Clear struct{}

func (Clear) apply(c *Cart) bool {
	if len(c.lines) == 0 {
		return false
	}
	c.lines = nil
	return true
}
