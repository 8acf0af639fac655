package app

import (
	"errors"
	"fmt"
	"time"

	"constellation/internal/domain"

	"github.com/form3tech-oss/jwt-go"
)

var (
	ErrReceiptNotCompleted = errors.New("session is not completed")
	ErrInvalidReceipt      = errors.New("invalid completion receipt")
)

// Receipt is the verified content of a completion token.
type Receipt struct {
	UserID          string
	ConstellationID string
	SessionID       string
	EdgeCount       int
	ExpiresAt       time.Time
}

// ReceiptService signs and verifies HS256 completion receipts.
type ReceiptService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewReceiptService(secret, issuer string, ttl time.Duration) *ReceiptService {
	return &ReceiptService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a receipt for a completed session.
func (s *ReceiptService) Issue(userID string, sess *domain.Session) (string, error) {
	if s == nil {
		return "", fmt.Errorf("receipt service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("receipt config is incomplete")
	}
	if sess == nil || !sess.Completed {
		return "", ErrReceiptNotCompleted
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"sub":   userID,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
		"cid":   sess.Constellation.ID,
		"sid":   sess.ID,
		"edges": sess.Connections.Len(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, expiry and issuer and returns the receipt content.
func (s *ReceiptService) Verify(tokenString string) (*Receipt, error) {
	if s == nil {
		return nil, fmt.Errorf("receipt service is nil")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidReceipt
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidReceipt)
	}

	sub, _ := claims["sub"].(string)
	cid, _ := claims["cid"].(string)
	sid, _ := claims["sid"].(string)
	edges, _ := claims["edges"].(float64)
	exp, _ := claims["exp"].(float64)
	if sub == "" || cid == "" || exp == 0 {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidReceipt)
	}

	return &Receipt{
		UserID:          sub,
		ConstellationID: cid,
		SessionID:       sid,
		EdgeCount:       int(edges),
		ExpiresAt:       time.Unix(int64(exp), 0),
	}, nil
}
