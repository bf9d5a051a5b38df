package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"
)

//
// ===========================================================
//  ENV UTILITIES
// ===========================================================
//

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// PtrTime returns pointer to time.Time
func PtrTime(t time.Time) *time.Time { return &t }

// PtrFloat returns pointer to float64
func PtrFloat(f float64) *float64 { return &f }

// PtrString returns pointer to string
func PtrString(s string) *string { return &s }

// PtrInt returns pointer to int
func PtrInt(i int) *int { return &i }

// PtrBool returns pointer to bool
func PtrBool(b bool) *bool { return &b }

//
// ===========================================================
//  DOCUMENT NUMBER GENERATORS
// ===========================================================
//

// randomDigits draws n decimal digits from crypto/rand, first digit non-zero.
func randomDigits(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	lo := big.NewInt(1)
	for i := 1; i < n; i++ {
		lo.Mul(lo, big.NewInt(10))
	}
	span := new(big.Int).Mul(lo, big.NewInt(9))
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return v.Add(v, lo).String(), nil
}

// GenerateDocumentNumber builds "<prefix>-<5 digits>", e.g. "INV-48210".
// Callers are expected to retry on a uniqueness collision.
func GenerateDocumentNumber(prefix string) (string, error) {
	digits, err := randomDigits(5)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", prefix, digits), nil
}

// GenerateBillNumber builds the printed bill number "P" + 10 digits.
func GenerateBillNumber(at time.Time) string {
	s := fmt.Sprintf("%d", at.UnixMilli())
	if len(s) > 10 {
		s = s[len(s)-10:]
	}
	return "P" + s
}
