package services

import (
	"log"

	"github.com/shopspring/decimal"

	"order_manager/internal/apperrors"
	"order_manager/internal/models"
	"order_manager/internal/repository"
)

// TableNotifier is told when a table order's bill closes so the physical
// table can be checked for remaining open orders and freed. Only the trigger
// lives here; the table lifecycle is an external collaborator.
type TableNotifier interface {
	BillClosed(empresaID uint, tableNumber int)
}

type NoopTableNotifier struct{}

func (NoopTableNotifier) BillClosed(uint, int) {}

// StatusService hosts every mutation of an existing order. Each operation
// re-reads the order, consults the state machine, recomputes totals from the
// current lines and saves under the optimistic version check; a lost race
// fails with Conflict and the caller retries after a re-read.
type StatusService interface {
	ChangeStatus(empresaID, orderID uint, target models.OrderStatus, actorID uint) (*models.Order, error)
	CloseBill(empresaID, orderID uint, paymentMethodID *uint, changeDueFor *decimal.Decimal, actorID uint) (*models.Order, error)
	Reopen(empresaID, orderID, actorID uint) (*models.Order, error)
	Cancel(empresaID, orderID uint, reason string, actorID uint) (*models.Order, error)
	AddItem(empresaID, orderID uint, line LineInput, actorID uint) (*models.Order, error)
	RemoveItem(empresaID, orderID, lineID, actorID uint) (*models.Order, error)
}

type statusService struct {
	orderRepo repository.OrderRepository
	catalog   repository.CatalogRepository
	checkout  CheckoutService
	machine   *StateMachine
	calc      PriceCalculator
	tables    TableNotifier
}

func NewStatusService(
	orderRepo repository.OrderRepository,
	catalog repository.CatalogRepository,
	checkout CheckoutService,
	machine *StateMachine,
	tables TableNotifier,
) StatusService {
	return &statusService{
		orderRepo: orderRepo,
		catalog:   catalog,
		checkout:  checkout,
		machine:   machine,
		calc:      NewPriceCalculator(),
		tables:    tables,
	}
}

func (s *statusService) ChangeStatus(empresaID, orderID uint, target models.OrderStatus, actorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(empresaID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CheckTransition(order.Channel, order.Status, target); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = target
	entry := &models.OrderHistoryEntry{
		PreviousStatus: previous,
		NewStatus:      target,
		Operation:      models.OpStatusChanged,
		ActorID:        actorID,
	}
	if err := s.orderRepo.SaveWithVersion(order, entry); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *statusService) CloseBill(empresaID, orderID uint, paymentMethodID *uint, changeDueFor *decimal.Decimal, actorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(empresaID, orderID)
	if err != nil {
		return nil, err
	}
	target, err := s.machine.CloseBillTarget(order.Channel, order.Status)
	if err != nil {
		return nil, err
	}

	s.refreshTotals(order)

	if paymentMethodID != nil {
		if _, err := s.catalog.GetPaymentMethod(empresaID, *paymentMethodID); err != nil {
			return nil, err
		}
		order.PaymentMethodID = paymentMethodID
	}
	if changeDueFor != nil {
		if changeDueFor.LessThan(order.GrandTotal) {
			return nil, apperrors.InvalidInput("tendered amount %s is below the order total %s",
				changeDueFor.StringFixed(2), order.GrandTotal.StringFixed(2))
		}
		order.ChangeDue = Round2(changeDueFor.Sub(order.GrandTotal))
	}

	previous := order.Status
	order.Status = target
	order.Paid = true
	entry := &models.OrderHistoryEntry{
		PreviousStatus: previous,
		NewStatus:      target,
		Operation:      models.OpClosed,
		ActorID:        actorID,
	}
	if err := s.orderRepo.SaveWithVersion(order, entry); err != nil {
		return nil, err
	}

	if order.Channel == models.ChannelTable && order.TableNumber != nil {
		s.tables.BillClosed(empresaID, *order.TableNumber)
	}
	return order, nil
}

func (s *statusService) Reopen(empresaID, orderID, actorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(empresaID, orderID)
	if err != nil {
		return nil, err
	}
	target, err := s.machine.ReopenTarget(order.Channel, order.Status)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = target
	entry := &models.OrderHistoryEntry{
		PreviousStatus: previous,
		NewStatus:      target,
		Operation:      models.OpReopened,
		ActorID:        actorID,
	}
	if err := s.orderRepo.SaveWithVersion(order, entry); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *statusService) Cancel(empresaID, orderID uint, reason string, actorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(empresaID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.machine.CheckCancel(order.Status); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = models.StatusCancelled
	entry := &models.OrderHistoryEntry{
		PreviousStatus: previous,
		NewStatus:      models.StatusCancelled,
		Operation:      models.OpCancelled,
		ActorID:        actorID,
		Reason:         reason,
	}
	if err := s.orderRepo.SaveWithVersion(order, entry); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *statusService) AddItem(empresaID, orderID uint, li LineInput, actorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(empresaID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, apperrors.InvalidTransition("order is %s; items can no longer be added", order.Status)
	}

	line, _, err := s.checkout.ComposeLine(empresaID, li)
	if err != nil {
		return nil, err
	}

	order.Lines = append(order.Lines, *line)
	s.refreshTotals(order)
	entry := &models.OrderHistoryEntry{
		PreviousStatus: order.Status,
		NewStatus:      order.Status,
		Operation:      models.OpItemAdded,
		ActorID:        actorID,
		Reason:         line.Name,
	}
	if err := s.orderRepo.AddLine(order, line, entry); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(empresaID, orderID)
}

func (s *statusService) RemoveItem(empresaID, orderID, lineID, actorID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(empresaID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, apperrors.InvalidTransition("order is %s; items can no longer be removed", order.Status)
	}

	kept := order.Lines[:0]
	removedName := ""
	for _, line := range order.Lines {
		if line.ID == lineID {
			removedName = line.Name
			continue
		}
		kept = append(kept, line)
	}
	if removedName == "" {
		return nil, apperrors.NotFound("line %d on order %d", lineID, orderID)
	}
	order.Lines = kept
	s.refreshTotals(order)

	entry := &models.OrderHistoryEntry{
		PreviousStatus: order.Status,
		NewStatus:      order.Status,
		Operation:      models.OpItemRemoved,
		ActorID:        actorID,
		Reason:         removedName,
	}
	if err := s.orderRepo.RemoveLine(order, lineID, entry); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(empresaID, orderID)
}

// refreshTotals recomputes the monetary fields from the current lines.
// Totals are never trusted from a previous write.
func (s *statusService) refreshTotals(order *models.Order) {
	subtotal := decimal.Zero
	for _, line := range order.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	order.Subtotal = Round2(subtotal)
	order.GrandTotal = Round2(s.calc.GrandTotal(subtotal, order.Discount, order.DeliveryFee, order.ServiceFee))
	if order.GrandTotal.IsNegative() {
		// Should be unreachable: discount is validated against the subtotal
		// at composition time.
		log.Printf("invariant violation: order %d grand total went negative", order.ID)
		order.GrandTotal = decimal.Zero
	}
}
