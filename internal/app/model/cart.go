package model

import "strings"

// CartLine is one product entry in the cart. Quantity is always >= 1 for a line
// held by the cart.
type CartLine struct {
	ID       string          `json:"id"`
	Quantity int             `json:"quantity"`
	Product  ProductSnapshot `json:"product"`
}

// Subtotal is the line quantity times the effective unit price.
func (l CartLine) Subtotal() float64 {
	return l.Product.EffectivePrice() * float64(l.Quantity)
}

func (l CartLine) clone() CartLine {
	l.Product = l.Product.Clone()
	return l
}

// CartLines is an ordered cart, most recently added line first.
//
// Every method returns a new slice and leaves the receiver untouched, so callers
// can compute the next state before deciding whether to publish it.
type CartLines []CartLine

// ValidLineID reports whether id can key a cart line.
func ValidLineID(id string) bool {
	return strings.TrimSpace(id) != ""
}

func (ls CartLines) indexOf(id string) int {
	for i := range ls {
		if ls[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies the lines.
func (ls CartLines) Clone() CartLines {
	if ls == nil {
		return CartLines{}
	}
	out := make(CartLines, len(ls))
	for i := range ls {
		out[i] = ls[i].clone()
	}
	return out
}

// Find returns a copy of the line keyed by id.
func (ls CartLines) Find(id string) (CartLine, bool) {
	if i := ls.indexOf(id); i >= 0 {
		return ls[i].clone(), true
	}
	return CartLine{}, false
}

// Add merges quantity into the existing line for id, keeping its captured product
// fields, or inserts a new line at the front.
func (ls CartLines) Add(id string, product ProductSnapshot, quantity int) CartLines {
	next := ls.Clone()
	if i := next.indexOf(id); i >= 0 {
		next[i].Quantity += quantity
		return next
	}
	line := CartLine{ID: id, Quantity: quantity, Product: product.Clone()}
	return append(CartLines{line}, next...)
}

// UpdateQuantity applies delta to the line for id. A resulting quantity <= 0
// removes the line. The bool is false when no line matched.
func (ls CartLines) UpdateQuantity(id string, delta int) (CartLines, bool) {
	i := ls.indexOf(id)
	if i < 0 {
		return ls.Clone(), false
	}
	qty := ls[i].Quantity + delta
	if qty <= 0 {
		return ls.Remove(id)
	}
	next := ls.Clone()
	next[i].Quantity = qty
	return next, true
}

// Remove drops the line for id. The bool is false when no line matched.
func (ls CartLines) Remove(id string) (CartLines, bool) {
	i := ls.indexOf(id)
	if i < 0 {
		return ls.Clone(), false
	}
	next := make(CartLines, 0, len(ls)-1)
	for j := range ls {
		if j != i {
			next = append(next, ls[j].clone())
		}
	}
	return next, true
}

// TotalCount is the sum of line quantities, not the number of lines.
func (ls CartLines) TotalCount() int {
	total := 0
	for _, l := range ls {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums line subtotals.
func (ls CartLines) TotalPrice() float64 {
	var total float64
	for _, l := range ls {
		total += l.Subtotal()
	}
	return total
}

// NormalizeCartLines repairs lines read from an untrusted source: records without
// an id or with quantity <= 0 are dropped and duplicate ids are merged into the
// first occurrence. Order is otherwise preserved.
func NormalizeCartLines(raw []CartLine) CartLines {
	out := make(CartLines, 0, len(raw))
	for _, l := range raw {
		if !ValidLineID(l.ID) || l.Quantity <= 0 {
			continue
		}
		if i := out.indexOf(l.ID); i >= 0 {
			out[i].Quantity += l.Quantity
			continue
		}
		out = append(out, l.clone())
	}
	return out
}
