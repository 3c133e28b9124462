package cart

import (
	"errors"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

var messages = map[domain.NotificationKind]string{
	domain.KindAdded:         "Added!",
	domain.KindRemoved:       "Product removed",
	domain.KindAmountUpdated: "Quantity updated",
	domain.KindOutOfStock:    "Requested quantity is out of stock",
	domain.KindAddFailed:     "Failed to add product",
	domain.KindNotInCart:     "Failed to remove product",
	domain.KindRemoveFailed:  "Failed to remove product",
	domain.KindInvalidAmount: "Failed to change product quantity",
	domain.KindChangeFailed:  "Failed to change product quantity",
}

// Describe переводит исход операции в уведомление для пользователя.
// ID и время заполняет вызывающая сторона.
func Describe(op domain.Operation, productID int64, amount int, err error) domain.Notification {
	n := domain.Notification{
		Operation: op,
		ProductID: productID,
		Kind:      kindOf(op, err),
	}
	if err == nil {
		n.Amount = amount
	}
	n.Message = messages[n.Kind]
	return n
}

func kindOf(op domain.Operation, err error) domain.NotificationKind {
	switch {
	case err == nil:
		switch op {
		case domain.OperationRemove:
			return domain.KindRemoved
		case domain.OperationUpdate:
			return domain.KindAmountUpdated
		default:
			return domain.KindAdded
		}
	case errors.Is(err, domain.ErrOutOfStock):
		return domain.KindOutOfStock
	case errors.Is(err, domain.ErrProductNotInCart):
		return domain.KindNotInCart
	case errors.Is(err, domain.ErrInvalidAmount):
		return domain.KindInvalidAmount
	}

	switch op {
	case domain.OperationRemove:
		return domain.KindRemoveFailed
	case domain.OperationUpdate:
		return domain.KindChangeFailed
	default:
		return domain.KindAddFailed
	}
}
