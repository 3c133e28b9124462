package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartEntry — присутствие одного товара в корзине вместе с количеством.
type CartEntry struct {
	Product Product
	Amount  int
}

// Subtotal возвращает стоимость позиции: цена × количество.
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Product.Price.Mul(decimal.NewFromInt(int64(e.Amount)))
}

// Cart — упорядоченная последовательность позиций.
// Порядок соответствует порядку первого добавления товара.
//
// Методы, меняющие состав, возвращают новую последовательность и не трогают
// исходную: хранилище корзины подменяет состояние только после успешной записи.
type Cart []CartEntry

// Find ищет позицию по идентификатору товара.
func (c Cart) Find(productID int64) (CartEntry, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c[i], true
	}
	return CartEntry{}, false
}

func (c Cart) indexOf(productID int64) int {
	for i := range c {
		if c[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Clone возвращает независимую копию корзины.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Append добавляет позицию в конец.
func (c Cart) Append(entry CartEntry) Cart {
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, entry)
}

// Without возвращает корзину без позиции productID; порядок остальных сохраняется.
func (c Cart) Without(productID int64) Cart {
	out := make(Cart, 0, len(c))
	for _, entry := range c {
		if entry.Product.ID == productID {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// WithAmount возвращает корзину, в которой у позиции productID количество
// заменено на amount. Если позиции нет, состав не меняется.
func (c Cart) WithAmount(productID int64, amount int) Cart {
	out := c.Clone()
	if i := out.indexOf(productID); i >= 0 {
		out[i].Amount = amount
	}
	return out
}

// Total возвращает сумму всех позиций.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c {
		total = total.Add(entry.Subtotal())
	}
	return total
}

// Items возвращает общее количество единиц товара.
func (c Cart) Items() int {
	var n int
	for _, entry := range c {
		n += entry.Amount
	}
	return n
}

// Validate проверяет инварианты корзины: уникальность товара и amount >= 1.
func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c))
	for _, entry := range c {
		if entry.Amount < 1 {
			return fmt.Errorf("%w: product %d has amount %d", ErrEntryAmountInvalid, entry.Product.ID, entry.Amount)
		}
		if _, dup := seen[entry.Product.ID]; dup {
			return fmt.Errorf("%w: product %d", ErrDuplicateEntry, entry.Product.ID)
		}
		seen[entry.Product.ID] = struct{}{}
	}
	return nil
}
