package qrcode

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"dinein/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const (
	tablePathSegment = "table"
	payloadTypeTable = "table"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// QRCodeData is the JSON payload some printed table codes carry instead of a link
type QRCodeData struct {
	TableID string `json:"table_id"`
	Type    string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// TableURL returns the deep link the phone-entry route understands
func (s *qrcodeService) TableURL(identifier string) string {
	return s.baseURL + "/" + tablePathSegment + "/" + url.PathEscape(identifier)
}

// GenerateTableQR generates a PNG QR code linking to the table route
func (s *qrcodeService) GenerateTableQR(identifier string) ([]byte, error) {
	if !identifierPattern.MatchString(identifier) {
		return nil, fmt.Errorf("invalid table identifier: %q", identifier)
	}

	qrCode, err := qrcode.New(s.TableURL(identifier), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseTablePayload accepts a table link (".../table/<id>", optionally "?table=<id>"),
// a JSON payload, or a bare identifier
func (s *qrcodeService) ParseTablePayload(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", fmt.Errorf("empty QR payload")
	}

	var identifier string
	switch {
	case strings.HasPrefix(payload, "{"):
		var data QRCodeData
		if err := json.Unmarshal([]byte(payload), &data); err != nil {
			return "", fmt.Errorf("failed to unmarshal QR code data: %w", err)
		}
		if data.Type != payloadTypeTable {
			return "", fmt.Errorf("invalid QR code type: %s", data.Type)
		}
		identifier = data.TableID

	case strings.Contains(payload, "://") || strings.HasPrefix(payload, "/"):
		parsed, err := url.Parse(payload)
		if err != nil {
			return "", fmt.Errorf("failed to parse QR link: %w", err)
		}
		identifier = identifierFromURL(parsed)

	default:
		identifier = payload
	}

	if !identifierPattern.MatchString(identifier) {
		return "", fmt.Errorf("invalid table identifier: %q", identifier)
	}

	return identifier, nil
}

func identifierFromURL(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == tablePathSegment {
			if id, err := url.PathUnescape(segments[i+1]); err == nil {
				return id
			}
		}
	}

	return u.Query().Get(tablePathSegment)
}
