package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"campus-canteen/order-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

const defaultCurrency = "THB"

type QRGenerator interface {
	Generate(payload string) ([]byte, error)
}

type DefaultQRGenerator struct {
	Size int
}

func (g DefaultQRGenerator) Generate(payload string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

// OrderReader is the slice of the order repository payment QR needs.
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

type paymentPayload struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentService renders the QR a student scans to pay. It never settles a
// payment; the vendor confirms payment through the pay transition.
type PaymentService struct {
	orders   OrderReader
	qr       QRGenerator
	currency string
}

func NewPaymentService(orders OrderReader, qr QRGenerator) *PaymentService {
	return &PaymentService{orders: orders, qr: qr, currency: defaultCurrency}
}

// PaymentPayload is the JSON text encoded into the QR image.
func (s *PaymentService) PaymentPayload(order *domain.Order) (string, error) {
	raw, err := json.Marshal(paymentPayload{OrderID: order.ID, Amount: order.Total, Currency: s.currency})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *PaymentService) PaymentQR(ctx context.Context, orderID string) ([]byte, error) {
	if orderID == "" {
		return nil, domain.Validation("orderId is required")
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payload, err := s.PaymentPayload(order)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payment qr: %w", err)
	}
	return png, nil
}

func (s *PaymentService) PaymentQRDataURL(ctx context.Context, orderID string) (string, error) {
	png, err := s.PaymentQR(ctx, orderID)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

var _ PaymentServiceInterface = (*PaymentService)(nil)
