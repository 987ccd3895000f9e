package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/domain"
	"github.com/deputyJo/ironcart-backend/internal/events"
	"github.com/deputyJo/ironcart-backend/internal/payments"
	"github.com/deputyJo/ironcart-backend/internal/repos"
	"github.com/deputyJo/ironcart-backend/internal/validate"
)

// OrderEventSink receives order lifecycle events. Publishing is best effort;
// a nil sink disables it.
type OrderEventSink interface {
	OrderCreated(ctx context.Context, o domain.Order) error
	OrderPaid(ctx context.Context, e events.OrderPaidEvent) error
}

type OrderService struct {
	Carts   *repos.CartRepo
	Prods   *repos.ProductRepo
	Orders  *repos.OrderRepo
	Gateway payments.Gateway
	Events  OrderEventSink
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo, gw payments.Gateway) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders, Gateway: gw}
}

// Checkout converts the user's cart into an order. Stock is taken with an
// atomic decrement-if-sufficient per line, so concurrent checkouts cannot
// oversell a product. Stock already taken is not restored when the payment
// step declines; the caller sees 402 and may retry against remaining stock.
func (s *OrderService) Checkout(userID string) (domain.Order, error) {
	items, total, err := s.Carts.View(userID)
	if err != nil {
		return domain.Order{}, apperr.Internal("Order failed", err)
	}
	if len(items) == 0 {
		return domain.Order{}, apperr.BadRequest("Your cart is empty")
	}

	// Pre-check so an oversized line rejects before any stock moves.
	for _, it := range items {
		stock, err := s.Prods.Stock(it.ProductID)
		if err != nil || stock < it.Qty {
			return domain.Order{}, apperr.BadRequest(fmt.Sprintf("Insufficient stock for %s", it.Name))
		}
	}

	for _, it := range items {
		if err := s.Prods.DecrementStock(it.ProductID, it.Qty); err != nil {
			// Lost a concurrent race after the pre-check.
			return domain.Order{}, apperr.BadRequest(fmt.Sprintf("Insufficient stock for %s", it.Name))
		}
	}

	if err := s.Gateway.Charge(total); err != nil {
		return domain.Order{}, apperr.PaymentRequired("Payment failed. Try again.")
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		TotalAmount: total,
		Status:      domain.StatusPending,
		Payment:     domain.Payment{Method: domain.MethodFake},
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Qty,
			Price:     it.Price,
		})
	}

	if err := s.Orders.Create(&order); err != nil {
		return domain.Order{}, apperr.Internal("Order failed", err)
	}
	for _, it := range order.Items {
		if err := s.Orders.InsertItem(order.ID, it); err != nil {
			return domain.Order{}, apperr.Internal("Order failed", err)
		}
	}
	_ = s.Carts.Clear(userID)

	s.publishCreated(order)
	return order, nil
}

// CreatePending snapshots the cart into a Pending order for a hosted payment
// flow. Stock is not reserved; the provider confirmation settles it.
func (s *OrderService) CreatePending(userID, method string) (domain.Order, []repos.CartItemRow, error) {
	items, total, err := s.Carts.View(userID)
	if err != nil {
		return domain.Order{}, nil, apperr.Internal("Order failed", err)
	}
	if len(items) == 0 {
		return domain.Order{}, nil, apperr.BadRequest("Cart is empty")
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		TotalAmount: total,
		Status:      domain.StatusPending,
		Payment:     domain.Payment{Method: method},
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Qty,
			Price:     it.Price,
		})
	}

	if err := s.Orders.Create(&order); err != nil {
		return domain.Order{}, nil, apperr.Internal("Order failed", err)
	}
	for _, it := range order.Items {
		if err := s.Orders.InsertItem(order.ID, it); err != nil {
			return domain.Order{}, nil, apperr.Internal("Order failed", err)
		}
	}
	s.publishCreated(order)
	return order, items, nil
}

// MarkPaid is the one Pending -> Paid transition rule, shared by the webhook
// handler and the explicit capture endpoint.
func (s *OrderService) MarkPaid(orderID, method, transactionID, payerEmail string) error {
	ok, err := s.Orders.MarkPaid(orderID, method, transactionID, payerEmail)
	if err != nil {
		return apperr.Internal("Failed to update order", err)
	}
	if !ok {
		return apperr.NotFound("Order not found")
	}
	if s.Events != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Events.OrderPaid(ctx, events.OrderPaidEvent{
			OrderID:       orderID,
			Method:        method,
			TransactionID: transactionID,
			PaidAt:        time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("[events] order-paid publish failed for %s: %v", orderID, err)
		}
	}
	return nil
}

// UpdateStatus overwrites an order's status from the admin path. Statuses
// outside the fixed enum reject; sequencing is deliberately not enforced.
func (s *OrderService) UpdateStatus(orderID, status string) (domain.Order, error) {
	if !validate.Status(status) {
		return domain.Order{}, apperr.BadRequest("Invalid status")
	}
	ok, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return domain.Order{}, apperr.Internal("Failed to update order status", err)
	}
	if !ok {
		return domain.Order{}, apperr.NotFound("Order not found")
	}
	return s.Orders.Get(orderID)
}

func (s *OrderService) ListMine(userID string) ([]domain.Order, error) {
	out, err := s.Orders.ListByUser(userID)
	if err != nil {
		return nil, apperr.Internal("Could not retrieve your orders", err)
	}
	return out, nil
}

func (s *OrderService) ListAll() ([]domain.Order, error) {
	out, err := s.Orders.ListAll()
	if err != nil {
		return nil, apperr.Internal("Could not retrieve orders", err)
	}
	return out, nil
}

func (s *OrderService) publishCreated(order domain.Order) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Events.OrderCreated(ctx, order); err != nil {
		log.Printf("[events] order-created publish failed for %s: %v", order.ID, err)
	}
}
