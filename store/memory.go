package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

type memoryTxKey struct{}

// Memory is an in-process Store used by tests. It mirrors the Mongo
// implementation's semantics, including the counter-based id sequence.
// Transactions serialize via a mutex; partial writes are not rolled back.
type Memory struct {
	mu       sync.Mutex
	products map[int]models.Product
	users    map[string]models.User
	seq      int
	seeded   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		products: make(map[int]models.Product),
		users:    make(map[string]models.User),
	}
}

func (m *Memory) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, memoryTxKey{}, true))
}

// lock acquires the store mutex unless the context already holds it via
// WithTransaction.
func (m *Memory) lock(ctx context.Context) func() {
	if ctx.Value(memoryTxKey{}) != nil {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// ----- Products -----

func (m *Memory) AllProducts(ctx context.Context) ([]models.Product, error) {
	defer m.lock(ctx)()
	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *Memory) ProductByID(ctx context.Context, id int) (*models.Product, error) {
	defer m.lock(ctx)()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (m *Memory) InsertProduct(ctx context.Context, p *models.Product) error {
	defer m.lock(ctx)()
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id int) error {
	defer m.lock(ctx)()
	delete(m.products, id)
	return nil
}

func (m *Memory) UpdateProduct(ctx context.Context, id int, u ProductUpdate) (*models.Product, error) {
	defer m.lock(ctx)()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p.Name = u.Name
	p.OldPrice = u.OldPrice
	p.NewPrice = u.NewPrice
	p.Category = u.Category
	m.products[id] = p
	return &p, nil
}

func (m *Memory) SetPopular(ctx context.Context, id int, popular bool) (*models.Product, error) {
	defer m.lock(ctx)()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p.Popular = popular
	m.products[id] = p
	return &p, nil
}

func (m *Memory) SetQuantity(ctx context.Context, id, quantity int) (*models.Product, error) {
	defer m.lock(ctx)()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p.Quantity = quantity
	m.products[id] = p
	return &p, nil
}

func (m *Memory) SetAllPopular(ctx context.Context, popular bool) (int64, error) {
	defer m.lock(ctx)()
	var modified int64
	for id, p := range m.products {
		if p.Popular != popular {
			p.Popular = popular
			m.products[id] = p
			modified++
		}
	}
	return modified, nil
}

func (m *Memory) SetAllQuantity(ctx context.Context, quantity int) (int64, error) {
	defer m.lock(ctx)()
	var modified int64
	for id, p := range m.products {
		if p.Quantity != quantity {
			p.Quantity = quantity
			m.products[id] = p
			modified++
		}
	}
	return modified, nil
}

func (m *Memory) NewestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	defer m.lock(ctx)()
	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Date.After(products[j].Date) })
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (m *Memory) PopularProducts(ctx context.Context) ([]models.Product, error) {
	defer m.lock(ctx)()
	var products []models.Product
	for _, p := range m.products {
		if p.Popular {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *Memory) NextProductID(ctx context.Context) (int, error) {
	defer m.lock(ctx)()
	if !m.seeded {
		m.seq = 39
		for id := range m.products {
			if id > m.seq {
				m.seq = id
			}
		}
		m.seeded = true
	}
	m.seq++
	return m.seq, nil
}

func (m *Memory) AdjustStock(ctx context.Context, id, delta int) error {
	defer m.lock(ctx)()
	p, ok := m.products[id]
	if !ok {
		return ErrProductNotFound
	}
	if delta < 0 && p.Quantity < -delta {
		return ErrInsufficientStock
	}
	p.Quantity += delta
	m.products[id] = p
	return nil
}

// ----- Users -----

func (m *Memory) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer m.lock(ctx)()
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := u
	copied.Cart = copyCart(u.Cart)
	return &copied, nil
}

func (m *Memory) EmailExists(ctx context.Context, email string) (bool, error) {
	defer m.lock(ctx)()
	_, ok := m.users[email]
	return ok, nil
}

func (m *Memory) InsertUser(ctx context.Context, u *models.User) error {
	defer m.lock(ctx)()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	stored := *u
	stored.Cart = copyCart(u.Cart)
	m.users[u.Email] = stored
	return nil
}

func (m *Memory) UpdateProfile(ctx context.Context, currentEmail, name, address, email string) (*models.User, error) {
	defer m.lock(ctx)()
	u, ok := m.users[currentEmail]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Name = name
	u.Address = &address
	u.Email = email
	delete(m.users, currentEmail)
	m.users[email] = u
	copied := u
	copied.Cart = copyCart(u.Cart)
	return &copied, nil
}

func (m *Memory) AllUsers(ctx context.Context) ([]models.User, error) {
	defer m.lock(ctx)()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		copied := u
		copied.Cart = copyCart(u.Cart)
		users = append(users, copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *Memory) SetCartQuantity(ctx context.Context, email, productID string, quantity int) error {
	defer m.lock(ctx)()
	u, ok := m.users[email]
	if !ok {
		return ErrUserNotFound
	}
	u.Cart[productID] = quantity
	return nil
}

func (m *Memory) RemoveCartEntry(ctx context.Context, email, productID string) error {
	defer m.lock(ctx)()
	u, ok := m.users[email]
	if !ok {
		return ErrUserNotFound
	}
	delete(u.Cart, productID)
	return nil
}

func copyCart(cart map[string]int) map[string]int {
	copied := make(map[string]int, len(cart))
	for k, v := range cart {
		copied[k] = v
	}
	return copied
}
