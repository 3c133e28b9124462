// Package notify содержит реализации канала уведомлений пользователя.
package notify

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

// LogNotifier пишет каждое уведомление в лог.
type LogNotifier struct {
	logger *log.Entry
}

// NewLogNotifier создаёт notifier поверх logrus.
func NewLogNotifier(logger *log.Entry) *LogNotifier {
	if logger == nil {
		logger = log.WithField("component", "notify")
	}
	return &LogNotifier{logger: logger}
}

// Notify логирует неудачи на уровне warn, успех — на info.
func (n *LogNotifier) Notify(_ context.Context, note domain.Notification) {
	entry := n.logger.WithFields(log.Fields{
		"notification_id": note.ID,
		"kind":            note.Kind,
		"operation":       note.Operation,
		"product_id":      note.ProductID,
	})
	if note.Kind.IsFailure() {
		entry.Warn(note.Message)
		return
	}
	entry.WithField("amount", note.Amount).Info(note.Message)
}

// Fanout доставляет уведомление всем вложенным notifier по очереди.
type Fanout []domain.Notifier

// Notify вызывает каждый notifier; nil-элементы пропускаются.
func (f Fanout) Notify(ctx context.Context, note domain.Notification) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, note)
		}
	}
}

// Feed хранит последние уведомления в кольцевом буфере фиксированного размера.
type Feed struct {
	mu    sync.RWMutex
	items []domain.Notification
	next  int
	full  bool
}

// DefaultFeedSize — размер ленты по умолчанию.
const DefaultFeedSize = 100

// NewFeed создаёт ленту на size уведомлений (size<=0 — DefaultFeedSize).
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{items: make([]domain.Notification, size)}
}

// Notify добавляет уведомление, вытесняя самое старое при переполнении.
func (f *Feed) Notify(_ context.Context, note domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[f.next] = note
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
}

// Recent возвращает до limit последних уведомлений, от новых к старым.
// limit<=0 — все сохранённые.
func (f *Feed) Recent(limit int) []domain.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	size := f.next
	if f.full {
		size = len(f.items)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]domain.Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}

// Last возвращает самое свежее уведомление.
func (f *Feed) Last() (domain.Notification, bool) {
	recent := f.Recent(1)
	if len(recent) == 0 {
		return domain.Notification{}, false
	}
	return recent[0], true
}

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = Fanout(nil)
	_ domain.Notifier = (*Feed)(nil)
)
