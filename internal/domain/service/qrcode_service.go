package service

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateOrderQR generates a QR code encoding an order number, used for
	// in-store pickup and payment hand-off.
	GenerateOrderQR(orderNumber string) ([]byte, error)

	// ParseOrderQR parses QR code data and returns the order number
	ParseOrderQR(qrData string) (string, error)
}
