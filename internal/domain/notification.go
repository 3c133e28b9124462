package domain

import "time"

// Operation — операция корзины, породившая уведомление.
type Operation string

const (
	OperationAdd    Operation = "add"
	OperationRemove Operation = "remove"
	OperationUpdate Operation = "update"
)

// NotificationKind — исход операции.
type NotificationKind string

const (
	KindAdded         NotificationKind = "added"
	KindRemoved       NotificationKind = "removed"
	KindAmountUpdated NotificationKind = "amount_updated"

	KindOutOfStock    NotificationKind = "out_of_stock"
	KindNotInCart     NotificationKind = "not_in_cart"
	KindInvalidAmount NotificationKind = "invalid_amount"
	KindAddFailed     NotificationKind = "add_failed"
	KindRemoveFailed  NotificationKind = "remove_failed"
	KindChangeFailed  NotificationKind = "change_failed"
)

// IsFailure сообщает, описывает ли вид уведомления неудачный исход.
func (k NotificationKind) IsFailure() bool {
	switch k {
	case KindAdded, KindRemoved, KindAmountUpdated:
		return false
	default:
		return true
	}
}

// Notification — одно уведомление об исходе вызова операции.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Operation Operation        `json:"operation"`
	ProductID int64            `json:"product_id"`
	Amount    int              `json:"amount,omitempty"`
	Message   string           `json:"message"`
	At        time.Time        `json:"at"`
}
