package domain

import "github.com/shopspring/decimal"

// Product — карточка товара из каталога. Для логики корзины это непрозрачные
// атрибуты отображения: корзина их только хранит и отдаёт наружу.
type Product struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Stock — снимок остатка товара на складе на момент запроса.
// Не кэшируется и не принадлежит корзине.
type Stock struct {
	ProductID int64 `json:"id"`
	Amount    int   `json:"amount"`
}
