package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfwatch/internal/types"
)

type mockUserRepo struct {
	users   []*types.User
	listErr error
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*types.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, types.NewAppError(types.ErrCodeNotFoundUser, "user not found", nil)
}

func (m *mockUserRepo) List(_ context.Context) ([]*types.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.users, nil
}

func (m *mockUserRepo) UpdateWhatsApp(_ context.Context, id, whatsapp string) error {
	u, err := m.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	u.WhatsApp = whatsapp
	return nil
}

type mockProductRepo struct {
	byUser  map[string][]*types.Product
	listErr error
}

func (m *mockProductRepo) ListByUser(_ context.Context, userID string) ([]*types.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byUser[userID], nil
}

func (m *mockProductRepo) GetByBarcode(_ context.Context, _, _ string) (*types.Product, error) {
	return nil, types.NewAppError(types.ErrCodeNotFoundProduct, "product not found", nil)
}
func (m *mockProductRepo) Create(_ context.Context, _ *types.Product) error          { return nil }
func (m *mockProductRepo) AddBatch(_ context.Context, _ string, _ *types.ProductBatch) error {
	return nil
}
func (m *mockProductRepo) Delete(_ context.Context, _, _ string) error { return nil }

var runToday = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func productWithBatch(id, name string, expiry time.Time) *types.Product {
	return &types.Product{
		ID: id, Name: name, Barcode: "899" + id, PLU: "PLU-" + id,
		Batches: []types.ProductBatch{{
			ID: id + "-b1", ProductID: id, BatchNumber: "BATCH-" + id,
			ExpiryDate: expiry, Quantity: 10,
		}},
	}
}

type coordinatorFixture struct {
	users    *mockUserRepo
	products *mockProductRepo
	notifs   *mockNotificationRepo
	sender   *fakeSender
	coord    *Coordinator
}

func newCoordinatorFixture(users []*types.User, products map[string][]*types.Product) *coordinatorFixture {
	f := &coordinatorFixture{
		users:    &mockUserRepo{users: users},
		products: &mockProductRepo{byUser: products},
		notifs:   &mockNotificationRepo{},
		sender:   &fakeSender{},
	}
	clock := fixedClock{runToday}
	dispatcher := NewDispatcher(f.sender, "tok-123456789", "62", nil)
	raiser := NewRaiser(f.notifs, clock, nil)
	f.coord = NewCoordinator(f.users, f.products, raiser, dispatcher, 14, clock, nil)
	return f
}

func TestRunAll_PartialFailureIsolation(t *testing.T) {
	users := []*types.User{
		{ID: "u1", Username: "andi", Name: "Andi", WhatsApp: "6281111111111"},
		{ID: "u2", Username: "budi", Name: "Budi"}, // no WhatsApp number
		{ID: "u3", Username: "cici", Name: "Cici", WhatsApp: "6283333333333"},
	}
	products := map[string][]*types.Product{
		"u1": {productWithBatch("p1", "Indomie", runToday.AddDate(0, 0, 5))},
		"u2": {productWithBatch("p2", "Aqua", runToday.AddDate(0, 0, -1))},
		"u3": {productWithBatch("p3", "Susu", runToday.AddDate(0, 0, 3))},
	}
	f := newCoordinatorFixture(users, products)

	report, err := f.coord.RunAll(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.Success)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "budi")
	assert.Contains(t, report.Errors[0], "no WhatsApp number")

	// The dispatcher was only invoked for users with an address.
	require.Len(t, f.sender.calls, 2)
	assert.Equal(t, "6281111111111", f.sender.calls[0].Target)
	assert.Equal(t, "6283333333333", f.sender.calls[1].Target)
}

func TestRunAll_SkipsUsersWithNothingDue(t *testing.T) {
	users := []*types.User{
		{ID: "u1", Username: "andi", Name: "Andi", WhatsApp: "6281111111111"},
	}
	products := map[string][]*types.Product{
		"u1": {productWithBatch("p1", "Fresh", runToday.AddDate(1, 0, 0))},
	}
	f := newCoordinatorFixture(users, products)

	report, err := f.coord.RunAll(context.Background(), 0)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Zero(t, report.Sent, "nothing due counts neither as success nor failure")
	assert.Zero(t, report.Failed)
	assert.Empty(t, f.sender.calls)
	assert.Empty(t, f.notifs.rows)
}

func TestRunAll_RaisesRowsOnce(t *testing.T) {
	users := []*types.User{
		{ID: "u1", Username: "andi", Name: "Andi", WhatsApp: "6281111111111"},
	}
	products := map[string][]*types.Product{
		"u1": {productWithBatch("p1", "Indomie", runToday.AddDate(0, 0, 5))},
	}
	f := newCoordinatorFixture(users, products)

	_, err := f.coord.RunAll(context.Background(), 0)
	require.NoError(t, err)
	_, err = f.coord.RunAll(context.Background(), 0)
	require.NoError(t, err)

	assert.Len(t, f.notifs.rows, 1, "unchanged batch set raises exactly one row across runs")
	assert.Len(t, f.sender.calls, 2, "delivery itself is not deduplicated")
}

func TestRunAll_OneUsersStoreErrorDoesNotAbort(t *testing.T) {
	users := []*types.User{
		{ID: "u1", Username: "andi", Name: "Andi", WhatsApp: "6281111111111"},
	}
	f := newCoordinatorFixture(users, nil)
	f.products.listErr = errors.New("connection reset")

	report, err := f.coord.RunAll(context.Background(), 0)
	require.NoError(t, err, "per-user store errors are report entries, not run failures")
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Errors[0], "andi")
}

func TestRunAll_UserListFailureIsFatal(t *testing.T) {
	f := newCoordinatorFixture(nil, nil)
	f.users.listErr = errors.New("database is down")

	_, err := f.coord.RunAll(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorContains(t, err, "listing users")
}

func TestRunForUser_ComposesAndSends(t *testing.T) {
	users := []*types.User{
		{ID: "u1", Username: "andi", Name: "Andi", WhatsApp: "6281111111111"},
	}
	products := map[string][]*types.Product{
		"u1": {
			productWithBatch("p1", "Indomie", runToday.AddDate(0, 0, 5)),  // warning
			productWithBatch("p2", "Aqua", runToday.AddDate(0, 0, -2)),   // expired
			productWithBatch("p3", "Beras", runToday.AddDate(0, 6, 0)),   // safe
		},
	}
	f := newCoordinatorFixture(users, products)

	report, err := f.coord.RunForUser(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.True(t, report.Success)

	require.Len(t, f.sender.calls, 1)
	msg := f.sender.calls[0].Message
	assert.Contains(t, msg, "Aqua")
	assert.Contains(t, msg, "Indomie")
	assert.NotContains(t, msg, "Beras")

	// On-demand path never persists notification rows.
	assert.Empty(t, f.notifs.rows)
}

func TestRunForUser_WindowOverride(t *testing.T) {
	users := []*types.User{
		{ID: "u1", Username: "andi", Name: "Andi", WhatsApp: "6281111111111"},
	}
	products := map[string][]*types.Product{
		// 20 days out: safe at the default window, warning at 30.
		"u1": {productWithBatch("p1", "Indomie", runToday.AddDate(0, 0, 20))},
	}
	f := newCoordinatorFixture(users, products)

	report, err := f.coord.RunForUser(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Zero(t, report.Sent)

	report, err = f.coord.RunForUser(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
}

func TestRunForUser_UnknownUser(t *testing.T) {
	f := newCoordinatorFixture(nil, nil)

	_, err := f.coord.RunForUser(context.Background(), "ghost", 0)
	requireCode(t, err, types.ErrCodeNotFoundUser)
}

func TestRunForUser_NoWhatsAppIsReportedNotThrown(t *testing.T) {
	users := []*types.User{{ID: "u1", Username: "budi", Name: "Budi"}}
	products := map[string][]*types.Product{
		"u1": {productWithBatch("p1", "Indomie", runToday.AddDate(0, 0, 5))},
	}
	f := newCoordinatorFixture(users, products)

	report, err := f.coord.RunForUser(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Errors[0], "budi")
	assert.Empty(t, f.sender.calls, "dispatcher must not be invoked without an address")
}
