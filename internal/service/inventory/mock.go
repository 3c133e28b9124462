package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

// MockService — конфигурируемая in-memory заглушка склада для разработки и тестов.
type MockService struct {
	mu       sync.Mutex
	stock    map[int64]int
	products map[int64]domain.Product

	StockErr   error
	ProductErr error

	StockCalls   int
	ProductCalls int
}

// NewMockService возвращает пустой склад: любой товар неизвестен, пока не добавлен.
func NewMockService() *MockService {
	return &MockService{
		stock:    make(map[int64]int),
		products: make(map[int64]domain.Product),
	}
}

// Put регистрирует товар вместе с остатком.
func (m *MockService) Put(product domain.Product, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
	m.stock[product.ID] = amount
}

// SetStock меняет остаток уже известного товара.
func (m *MockService) SetStock(productID int64, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock[productID] = amount
}

// GetStock возвращает остаток или ErrProductNotFound.
func (m *MockService) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StockCalls++
	if m.StockErr != nil {
		return domain.Stock{}, m.StockErr
	}
	amount, ok := m.stock[productID]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", productID, domain.ErrProductNotFound)
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

// GetProduct возвращает карточку товара или ErrProductNotFound.
func (m *MockService) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProductCalls++
	if m.ProductErr != nil {
		return domain.Product{}, m.ProductErr
	}
	product, ok := m.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}
	return product, nil
}

// Calls возвращает счётчики вызовов.
func (m *MockService) Calls() (stock, product int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StockCalls, m.ProductCalls
}

var _ domain.InventoryClient = (*MockService)(nil)

// NewDemoService возвращает заглушку с небольшим каталогом для локального запуска.
func NewDemoService() *MockService {
	m := NewMockService()
	for _, p := range []struct {
		product domain.Product
		amount  int
	}{
		{domain.Product{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: decimal.RequireFromString("179.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg"}, 3},
		{domain.Product{ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: decimal.RequireFromString("139.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 5},
		{domain.Product{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: decimal.RequireFromString("219.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"}, 2},
		{domain.Product{ID: 4, Title: "Tênis Nike Revolution 5", Price: decimal.RequireFromString("199.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis4.jpg"}, 1},
	} {
		m.Put(p.product, p.amount)
	}
	return m
}
