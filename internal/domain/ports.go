package domain

import "context"

// InventoryClient описывает удалённый каталог и склад (только чтение).
type InventoryClient interface {
	// GetStock возвращает текущий остаток товара.
	GetStock(ctx context.Context, productID int64) (Stock, error)
	// GetProduct возвращает карточку товара.
	GetProduct(ctx context.Context, productID int64) (Product, error)
}

// SnapshotStore — key-value слот для сериализованной корзины.
// Читается один раз при старте и перезаписывается целиком после каждой мутации.
type SnapshotStore interface {
	// Load возвращает сохранённые данные или ErrSnapshotNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save перезаписывает значение целиком.
	Save(ctx context.Context, key string, data []byte) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

// Notifier — канал уведомлений пользователя. Вызовы fire-and-forget:
// реализация не возвращает ошибок и не влияет на логику корзины.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
