package domain

import "errors"

var (
	// ErrOutOfStock — запрошенное количество превышает остаток на складе.
	ErrOutOfStock = errors.New("requested amount is out of stock")
	// ErrProductNotInCart — удаляемого товара нет в корзине.
	ErrProductNotInCart = errors.New("product is not in cart")
	// ErrInvalidAmount — запрошено количество меньше единицы.
	ErrInvalidAmount = errors.New("amount must be at least 1")

	// ErrAddFailed — непредвиденная ошибка при добавлении товара.
	ErrAddFailed = errors.New("add product failed")
	// ErrRemoveFailed — непредвиденная ошибка при удалении товара.
	ErrRemoveFailed = errors.New("remove product failed")
	// ErrChangeFailed — непредвиденная ошибка при изменении количества.
	ErrChangeFailed = errors.New("change product amount failed")

	// ErrProductNotFound возвращается клиентом склада, если товар неизвестен каталогу.
	ErrProductNotFound = errors.New("product not found")
	// ErrInventoryUnavailable — склад ответил ошибкой или недоступен.
	ErrInventoryUnavailable = errors.New("inventory unavailable")

	// ErrSnapshotNotFound — в хранилище нет сохранённой корзины.
	ErrSnapshotNotFound = errors.New("cart snapshot not found")
	// ErrSnapshotMalformed — сохранённые данные не удалось разобрать.
	ErrSnapshotMalformed = errors.New("cart snapshot malformed")
	// ErrSnapshotVersion — неизвестная или устаревшая версия формата.
	ErrSnapshotVersion = errors.New("cart snapshot version unsupported")

	// Нарушения инвариантов корзины.
	ErrEntryAmountInvalid = errors.New("cart entry amount must be at least 1")
	ErrDuplicateEntry     = errors.New("duplicate cart entry")
)

// IsTransient сообщает, относится ли ошибка к категории временных сбоев операции.
func IsTransient(err error) bool {
	return errors.Is(err, ErrAddFailed) || errors.Is(err, ErrRemoveFailed) || errors.Is(err, ErrChangeFailed)
}
