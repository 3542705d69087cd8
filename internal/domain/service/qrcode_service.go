package service

// QRCodeService defines the interface for table QR code generation and parsing
type QRCodeService interface {
	// TableURL returns the link a table QR code points at
	TableURL(identifier string) string

	// GenerateTableQR renders a PNG QR code for a table identifier
	GenerateTableQR(identifier string) ([]byte, error)

	// ParseTablePayload extracts the table identifier from scanned QR text
	ParseTablePayload(payload string) (string, error)
}
