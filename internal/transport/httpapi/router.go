// Package httpapi публикует корзину по HTTP (gorilla/mux).
package httpapi

import (
	"context"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

const tracerName = "github.com/vladislavdragonenkov/cartstore/internal/transport/httpapi"

// CartService — операции корзины, доступные через API.
type CartService interface {
	Cart() domain.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, productID int64, amount int) error
}

// NotificationFeed отдаёт последние уведомления.
type NotificationFeed interface {
	Recent(limit int) []domain.Notification
}

// Handler обслуживает REST-эндпоинты корзины.
type Handler struct {
	cart   CartService
	feed   NotificationFeed
	logger *log.Entry
	tracer trace.Tracer
}

// NewHandler создаёт обработчик. feed может быть nil — тогда
// /notifications отвечает пустым списком.
func NewHandler(cart CartService, feed NotificationFeed, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}
	return &Handler{
		cart:   cart,
		feed:   feed,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Router собирает маршруты и middleware.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.tracing, h.logging)

	r.HandleFunc("/cart", h.getCart).Methods("GET")
	items := r.PathPrefix("/cart/items").Subrouter()
	items.HandleFunc("/{productId}", h.addProduct).Methods("POST")
	items.HandleFunc("/{productId}", h.removeProduct).Methods("DELETE")
	items.HandleFunc("/{productId}", h.updateProductAmount).Methods("PUT")
	r.HandleFunc("/notifications", h.listNotifications).Methods("GET")

	return r
}
