// Package cart реализует хранилище корзины: упорядоченный набор позиций,
// согласованный с остатками склада и сохраняемый после каждой мутации.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
	"github.com/vladislavdragonenkov/cartstore/internal/metrics"
)

// DefaultKey — ключ слота, под которым корзина хранилась в браузерном клиенте.
const DefaultKey = "@RocketShoes:cart"

const tracerName = "github.com/vladislavdragonenkov/cartstore/internal/cart"

// Store владеет текущей корзиной. Экземпляр создаётся один раз и передаётся
// потребителям явно.
type Store struct {
	key       string
	inventory domain.InventoryClient
	snapshots domain.SnapshotStore
	notifier  domain.Notifier
	logger    *log.Entry
	metrics   *metrics.CartMetrics
	tracer    trace.Tracer
	now       func() time.Time

	initOnce sync.Once

	// mu сериализует фазу mutate+persist и защищает entries от гонок чтения.
	mu      sync.RWMutex
	entries domain.Cart
}

// Option настраивает Store.
type Option func(*Store)

// WithMetrics включает prometheus-метрики.
func WithMetrics(m *metrics.CartMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithTracer подменяет tracer (по умолчанию — глобальный провайдер otel).
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore создаёт хранилище корзины. До вызова Initialize корзина пуста.
func NewStore(
	key string,
	inventory domain.InventoryClient,
	snapshots domain.SnapshotStore,
	notifier domain.Notifier,
	logger *log.Entry,
	opts ...Option,
) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New().WithField("component", "cart")
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	s := &Store{
		key:       key,
		inventory: inventory,
		snapshots: snapshots,
		notifier:  notifier,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		entries:   domain.Cart{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize загружает сохранённую корзину. Отсутствующий, повреждённый или
// нечитаемый снимок означает пустую корзину; ошибка не возвращается.
// Повторные вызовы ничего не делают.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() { s.load(ctx) })
}

func (s *Store) load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "cart.Initialize")
	defer span.End()

	logger := s.logger.WithField("key", s.key)

	data, err := s.snapshots.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			logger.Info("cart snapshot not found, starting with empty cart")
			s.recordLoad(metrics.SnapshotResultAbsent)
			return
		}
		logger.WithError(err).Warn("failed to load cart snapshot, starting with empty cart")
		s.recordLoad(metrics.SnapshotResultError)
		return
	}

	entries, err := DecodeSnapshot(data)
	if err != nil {
		logger.WithError(err).Warn("discarding unreadable cart snapshot")
		s.recordLoad(metrics.SnapshotResultMalformed)
		return
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.recordLoad(metrics.SnapshotResultOK)
	s.recordSize(entries)
	logger.WithField("entries", len(entries)).Info("cart restored from snapshot")
}

// Cart возвращает копию текущей корзины в порядке добавления.
func (s *Store) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Clone()
}

// AddProduct добавляет одну единицу товара, проверяя остаток на складе.
func (s *Store) AddProduct(ctx context.Context, productID int64) error {
	return s.run(ctx, domain.OperationAdd, productID, func(ctx context.Context) (int, error) {
		return s.addProduct(ctx, productID)
	})
}

// RemoveProduct удаляет позицию товара целиком.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) error {
	return s.run(ctx, domain.OperationRemove, productID, func(ctx context.Context) (int, error) {
		return 0, s.removeProduct(ctx, productID)
	})
}

// UpdateProductAmount устанавливает количество товара в корзине.
func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	return s.run(ctx, domain.OperationUpdate, productID, func(ctx context.Context) (int, error) {
		return amount, s.updateProductAmount(ctx, productID, amount)
	})
}

func (s *Store) addProduct(ctx context.Context, productID int64) (int, error) {
	existing, found := s.lookup(productID)

	stock, err := s.fetchStock(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrAddFailed, err)
	}

	current := 0
	if found {
		current = existing.Amount
	}
	if want := current + 1; want > stock.Amount {
		return 0, outOfStock(productID, want, stock)
	}

	product := existing.Product
	if !found {
		product, err = s.fetchProduct(ctx, productID)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", domain.ErrAddFailed, err)
		}
		product.ID = productID
	}

	var amount int
	err = s.commit(ctx, func(c domain.Cart) (domain.Cart, error) {
		entry, ok := c.Find(productID)
		if !ok {
			amount = 1
			return c.Append(domain.CartEntry{Product: product, Amount: amount}), nil
		}
		amount = entry.Amount + 1
		if amount > stock.Amount {
			return nil, outOfStock(productID, amount, stock)
		}
		return c.WithAmount(productID, amount), nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrAddFailed, err)
	}
	return amount, nil
}

func (s *Store) removeProduct(ctx context.Context, productID int64) error {
	err := s.commit(ctx, func(c domain.Cart) (domain.Cart, error) {
		if _, ok := c.Find(productID); !ok {
			return nil, fmt.Errorf("%w: product %d", domain.ErrProductNotInCart, productID)
		}
		return c.Without(productID), nil
	})
	if err != nil && !errors.Is(err, domain.ErrProductNotInCart) {
		return fmt.Errorf("%w: %w", domain.ErrRemoveFailed, err)
	}
	return err
}

func (s *Store) updateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount < 1 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidAmount, amount)
	}

	stock, err := s.fetchStock(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrChangeFailed, err)
	}
	if amount > stock.Amount {
		return outOfStock(productID, amount, stock)
	}

	if err := s.commit(ctx, func(c domain.Cart) (domain.Cart, error) {
		return c.WithAmount(productID, amount), nil
	}); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrChangeFailed, err)
	}
	return nil
}

func (s *Store) lookup(productID int64) (domain.CartEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Find(productID)
}

// commit применяет mutate к текущей корзине, сохраняет результат и только
// после успешной записи подменяет состояние в памяти.
func (s *Store) commit(ctx context.Context, mutate func(domain.Cart) (domain.Cart, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(s.entries)
	if err != nil {
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.entries = next
	s.recordSize(next)
	return nil
}

func (s *Store) persist(ctx context.Context, c domain.Cart) error {
	data, err := EncodeSnapshot(c, s.now())
	if err != nil {
		s.recordSave(metrics.SnapshotResultError)
		return err
	}
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		s.recordSave(metrics.SnapshotResultError)
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	s.recordSave(metrics.SnapshotResultOK)
	return nil
}

func (s *Store) fetchStock(ctx context.Context, productID int64) (domain.Stock, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.GetStock")
	defer span.End()

	start := time.Now()
	stock, err := s.inventory.GetStock(ctx, productID)
	s.recordInventoryCall("get_stock", time.Since(start))
	if err != nil {
		span.RecordError(err)
		return domain.Stock{}, fmt.Errorf("fetch stock for product %d: %w", productID, err)
	}
	return stock, nil
}

func (s *Store) fetchProduct(ctx context.Context, productID int64) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.GetProduct")
	defer span.End()

	start := time.Now()
	product, err := s.inventory.GetProduct(ctx, productID)
	s.recordInventoryCall("get_product", time.Since(start))
	if err != nil {
		span.RecordError(err)
		return domain.Product{}, fmt.Errorf("fetch product %d: %w", productID, err)
	}
	return product, nil
}

// run — граница операции: перехватывает панику, пишет лог, метрики и span,
// отправляет ровно одно уведомление.
func (s *Store) run(ctx context.Context, op domain.Operation, productID int64, fn func(context.Context) (int, error)) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "cart."+string(op), trace.WithAttributes(
		attribute.Int64("cart.product_id", productID),
	))
	defer span.End()

	var amount int
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: panic: %v", failureFor(op), r)
			}
		}()
		amount, err = fn(ctx)
	}()

	n := Describe(op, productID, amount, err)
	n.ID = uuid.NewString()
	n.At = s.now().UTC()

	entry := s.logger.WithFields(log.Fields{
		"operation":  op,
		"product_id": productID,
		"outcome":    n.Kind,
	})
	switch {
	case err == nil:
		entry.WithField("amount", amount).Debug("cart operation applied")
	case domain.IsTransient(err):
		entry.WithError(err).Warn("cart operation failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		entry.WithError(err).Info("cart operation rejected")
	}
	span.SetAttributes(attribute.String("cart.outcome", string(n.Kind)))

	if s.metrics != nil {
		s.metrics.RecordOperation(string(op), string(n.Kind), time.Since(start))
	}
	s.notifier.Notify(ctx, n)
	return err
}

func outOfStock(productID int64, want int, stock domain.Stock) error {
	return fmt.Errorf("%w: product %d wants %d, stock %d", domain.ErrOutOfStock, productID, want, stock.Amount)
}

func failureFor(op domain.Operation) error {
	switch op {
	case domain.OperationRemove:
		return domain.ErrRemoveFailed
	case domain.OperationUpdate:
		return domain.ErrChangeFailed
	default:
		return domain.ErrAddFailed
	}
}

func (s *Store) recordSize(c domain.Cart) {
	if s.metrics != nil {
		s.metrics.SetCartSize(len(c), c.Items())
	}
}

func (s *Store) recordLoad(result string) {
	if s.metrics != nil {
		s.metrics.RecordSnapshotLoad(result)
	}
}

func (s *Store) recordSave(result string) {
	if s.metrics != nil {
		s.metrics.RecordSnapshotSave(result)
	}
}

func (s *Store) recordInventoryCall(call string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordInventoryCall(call, d)
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, domain.Notification) {}
