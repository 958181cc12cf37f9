package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendNewOrder notifies a supplier that a vendor placed an order
func (s *Service) SendNewOrder(to, orderID, vendorName string, total int, items []OrderItem) error {
	subject := fmt.Sprintf("New order %s", shortID(orderID))
	body := BuildNewOrderBody(orderID, vendorName, total, items)
	return s.send(to, subject, body)
}

// SendLowStockAlert notifies a supplier that a product dropped to or below
// its low-stock threshold
func (s *Service) SendLowStockAlert(to, productName string, stock, threshold int) error {
	subject := fmt.Sprintf("Low stock: %s (%d left)", productName, stock)
	body := BuildLowStockBody(productName, stock, threshold)
	return s.send(to, subject, body)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
