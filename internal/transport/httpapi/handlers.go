package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cartstore/internal/cart"
	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

const maxNotificationsLimit = 100

type productView struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type itemView struct {
	Product  productView     `json:"product"`
	Amount   int             `json:"amount"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items []itemView      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type noticeView struct {
	Kind      domain.NotificationKind `json:"kind"`
	Operation domain.Operation        `json:"operation"`
	ProductID int64                   `json:"product_id"`
	Amount    int                     `json:"amount,omitempty"`
	Message   string                  `json:"message"`
}

type mutationResponse struct {
	Cart         cartView   `json:"cart"`
	Notification noticeView `json:"notification"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type updateAmountRequest struct {
	Amount *int `json:"amount"`
}

func newCartView(c domain.Cart) cartView {
	view := cartView{Items: make([]itemView, 0, len(c)), Total: c.Total()}
	for _, e := range c {
		view.Items = append(view.Items, itemView{
			Product: productView{
				ID:    e.Product.ID,
				Title: e.Product.Title,
				Price: e.Product.Price,
				Image: e.Product.Image,
			},
			Amount:   e.Amount,
			Subtotal: e.Subtotal(),
		})
	}
	return view
}

func (h *Handler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newCartView(h.cart.Cart()))
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFrom(w, r)
	if !ok {
		return
	}
	err := h.cart.AddProduct(r.Context(), productID)
	h.respondMutation(w, domain.OperationAdd, productID, err)
}

func (h *Handler) removeProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFrom(w, r)
	if !ok {
		return
	}
	err := h.cart.RemoveProduct(r.Context(), productID)
	h.respondMutation(w, domain.OperationRemove, productID, err)
}

func (h *Handler) updateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFrom(w, r)
	if !ok {
		return
	}

	var req updateAmountRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}

	err := h.cart.UpdateProductAmount(r.Context(), productID, *req.Amount)
	h.respondMutation(w, domain.OperationUpdate, productID, err)
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxNotificationsLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxNotificationsLimit))
			return
		}
		limit = v
	}

	notifications := []domain.Notification{}
	if h.feed != nil {
		notifications = h.feed.Recent(limit)
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

func (h *Handler) respondMutation(w http.ResponseWriter, op domain.Operation, productID int64, err error) {
	current := h.cart.Cart()

	amount := 0
	if entry, ok := current.Find(productID); ok {
		amount = entry.Amount
	}
	n := cart.Describe(op, productID, amount, err)

	writeJSON(w, statusFor(err), mutationResponse{
		Cart: newCartView(current),
		Notification: noticeView{
			Kind:      n.Kind,
			Operation: n.Operation,
			ProductID: n.ProductID,
			Amount:    n.Amount,
			Message:   n.Message,
		},
	})
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotInCart):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func productIDFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["productId"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
