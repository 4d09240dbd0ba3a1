package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"order_manager/internal/apperrors"
	"order_manager/internal/models"
	"order_manager/internal/repository"
)

type sellableKey struct {
	kind models.LineKind
	id   uint
}

type optionKey struct {
	groupID  uint
	optionID uint
}

type fakeCatalog struct {
	sellables map[sellableKey]repository.ResolvedSellable
	inactive  map[sellableKey]bool
	groups    map[uint]*models.Complement
	links     map[uint][]sellableKey
	options   map[optionKey]repository.ResolvedOption
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		sellables: map[sellableKey]repository.ResolvedSellable{},
		inactive:  map[sellableKey]bool{},
		groups:    map[uint]*models.Complement{},
		links:     map[uint][]sellableKey{},
		options:   map[optionKey]repository.ResolvedOption{},
	}
}

func (f *fakeCatalog) addProduct(id uint, name string, price string) {
	ref, _ := models.NewLineRef(models.KindProduct, id)
	f.sellables[sellableKey{models.KindProduct, id}] = repository.ResolvedSellable{
		Ref: ref, Name: name, BasePrice: dec(price),
	}
}

func (f *fakeCatalog) addGroup(group *models.Complement, linkedTo ...sellableKey) {
	f.groups[group.ID] = group
	f.links[group.ID] = append(f.links[group.ID], linkedTo...)
}

func (f *fakeCatalog) addOption(groupID, optionID uint, name string, price string) {
	f.options[optionKey{groupID, optionID}] = repository.ResolvedOption{
		AdicionalID: optionID, Name: name, EffectivePrice: dec(price),
	}
}

func (f *fakeCatalog) ResolveSellable(empresaID uint, kind models.LineKind, id uint) (*repository.ResolvedSellable, error) {
	key := sellableKey{kind, id}
	if f.inactive[key] {
		return nil, apperrors.Inactive("%s %d is not available for sale", kind, id)
	}
	s, ok := f.sellables[key]
	if !ok {
		return nil, apperrors.NotFound("%s %d", kind, id)
	}
	return &s, nil
}

func (f *fakeCatalog) ResolveComplementGroup(empresaID, groupID uint, kind models.LineKind, sellableID uint) (*models.Complement, error) {
	group, ok := f.groups[groupID]
	if !ok {
		return nil, apperrors.NotFound("complement group %d", groupID)
	}
	for _, link := range f.links[groupID] {
		if link.kind == kind && link.id == sellableID {
			return group, nil
		}
	}
	return nil, apperrors.NotFound("complement group %d is not linked to %s %d", groupID, kind, sellableID)
}

func (f *fakeCatalog) ResolveOption(groupID, optionID uint) (*repository.ResolvedOption, error) {
	opt, ok := f.options[optionKey{groupID, optionID}]
	if !ok {
		return nil, apperrors.NotFound("option %d is not a member of group %d", optionID, groupID)
	}
	return &opt, nil
}

func (f *fakeCatalog) SoleGroupForOption(kind models.LineKind, sellableID, optionID uint) (uint, error) {
	var found []uint
	for key, opt := range f.options {
		if opt.AdicionalID != optionID {
			continue
		}
		for _, link := range f.links[key.groupID] {
			if link.kind == kind && link.id == sellableID {
				found = append(found, key.groupID)
			}
		}
	}
	switch len(found) {
	case 0:
		return 0, apperrors.NotFound("option %d is not linked to %s %d", optionID, kind, sellableID)
	case 1:
		return found[0], nil
	default:
		return 0, apperrors.InvalidInput("option %d is ambiguous", optionID)
	}
}

func (f *fakeCatalog) GetPaymentMethod(empresaID, id uint) (*models.PaymentMethod, error) {
	return &models.PaymentMethod{ID: id, EmpresaID: empresaID, Name: "cash", IsActive: true}, nil
}

type fakeOrderRepo struct {
	orders   map[uint]*models.Order
	history  map[uint][]models.OrderHistoryEntry
	nextID   uint
	counters map[models.Channel]int64

	failNextSave bool // injects one optimistic-lock conflict
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   map[uint]*models.Order{},
		history:  map[uint][]models.OrderHistoryEntry{},
		nextID:   1,
		counters: map[models.Channel]int64{},
	}
}

func (f *fakeOrderRepo) CreateOrder(order *models.Order, actorID uint) error {
	f.counters[order.Channel]++
	order.ID = f.nextID
	f.nextID++
	order.SequenceNumber = fmt.Sprintf("SEQ-%06d", f.counters[order.Channel])
	order.Status = models.StatusPending
	order.Version = 1
	for i := range order.Lines {
		order.Lines[i].ID = uint(i + 1)
	}
	stored := *order
	f.orders[order.ID] = &stored
	f.history[order.ID] = append(f.history[order.ID], models.OrderHistoryEntry{
		OrderID: order.ID, NewStatus: models.StatusPending, Operation: models.OpCreated, ActorID: actorID,
	})
	return nil
}

func (f *fakeOrderRepo) GetByID(empresaID, id uint) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.EmpresaID != empresaID {
		return nil, apperrors.NotFound("order %d", id)
	}
	copied := *order
	copied.Lines = append([]models.OrderLine(nil), order.Lines...)
	return &copied, nil
}

func (f *fakeOrderRepo) List(empresaID uint, filter repository.OrderFilter) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.EmpresaID == empresaID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) SaveWithVersion(order *models.Order, entry *models.OrderHistoryEntry) error {
	if f.failNextSave {
		f.failNextSave = false
		return apperrors.Conflict("order %d was modified concurrently", order.ID)
	}
	stored, ok := f.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return apperrors.Conflict("order %d was modified concurrently", order.ID)
	}
	order.Version++
	copied := *order
	copied.Lines = append([]models.OrderLine(nil), stored.Lines...)
	f.orders[order.ID] = &copied
	entry.OrderID = order.ID
	f.history[order.ID] = append(f.history[order.ID], *entry)
	return nil
}

func (f *fakeOrderRepo) AddLine(order *models.Order, line *models.OrderLine, entry *models.OrderHistoryEntry) error {
	stored, ok := f.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return apperrors.Conflict("order %d was modified concurrently", order.ID)
	}
	line.ID = uint(len(stored.Lines) + 1)
	line.OrderID = order.ID
	stored.Lines = append(stored.Lines, *line)
	stored.Subtotal = order.Subtotal
	stored.GrandTotal = order.GrandTotal
	stored.Version++
	order.Version = stored.Version
	entry.OrderID = order.ID
	f.history[order.ID] = append(f.history[order.ID], *entry)
	return nil
}

func (f *fakeOrderRepo) RemoveLine(order *models.Order, lineID uint, entry *models.OrderHistoryEntry) error {
	stored, ok := f.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return apperrors.Conflict("order %d was modified concurrently", order.ID)
	}
	kept := stored.Lines[:0]
	for _, l := range stored.Lines {
		if l.ID != lineID {
			kept = append(kept, l)
		}
	}
	stored.Lines = kept
	stored.Subtotal = order.Subtotal
	stored.GrandTotal = order.GrandTotal
	stored.Version++
	order.Version = stored.Version
	entry.OrderID = order.ID
	f.history[order.ID] = append(f.history[order.ID], *entry)
	return nil
}

type recordingTableNotifier struct {
	calls []int
}

func (r *recordingTableNotifier) BillClosed(empresaID uint, tableNumber int) {
	r.calls = append(r.calls, tableNumber)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
