package passes

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/darmiel/sitegate/internal/audit"
	"github.com/darmiel/sitegate/internal/config"
	"github.com/darmiel/sitegate/internal/core"
)

// ErrNotEligible is returned when a pass is requested for a person whose
// verdict is FAIL. ALERT persons are admissible and still get a pass; its
// expiry is capped by the expiring certificate.
var ErrNotEligible = fmt.Errorf("person is not eligible for a gate pass")

const defaultMaxValidity = 30 * 24 * time.Hour

// Pass is a signed site-access pass for an admissible person.
type Pass struct {
	// Token is the signed pass the gate terminals verify.
	Token string `json:"token"`

	PersonID string `json:"person_id"`

	// Fingerprint identifies this pass in audit logs.
	Fingerprint string `json:"fingerprint"`

	ExpiresAt time.Time `json:"expires_at"`
}

// Issuer mints signed gate passes from check results. A pass never outlives
// the person's earliest required certificate expiry.
type Issuer struct {
	signingKey  []byte
	maxValidity time.Duration
}

func NewIssuer(cfg config.PassConfig) (*Issuer, error) {
	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("signing key is required")
	}
	maxValidity := cfg.MaxValidity
	if maxValidity <= 0 {
		maxValidity = defaultMaxValidity
	}
	return &Issuer{
		signingKey:  []byte(cfg.SigningKey),
		maxValidity: maxValidity,
	}, nil
}

// Issue mints a pass for the given person based on their check result.
func (i *Issuer) Issue(person core.PersonRecord, result core.CheckResult) (*Pass, error) {
	if result.Verdict != core.VerdictPass && result.Verdict != core.VerdictAlert {
		return nil, ErrNotEligible
	}

	expiresAt := result.AsOf.Time().Add(i.maxValidity)
	if earliest, ok := earliestExpiry(person.Certificates); ok && earliest.Before(expiresAt) {
		expiresAt = earliest
	}
	if !expiresAt.After(time.Now()) {
		return nil, fmt.Errorf("pass would already be expired")
	}

	claims := jwt.MapClaims{
		"sub":      person.ID,
		"name":     person.Name,
		"phase":    string(person.Phase),
		"category": string(person.Category),
		"verdict":  string(result.Verdict),
		"as_of":    result.AsOf.String(),
		"jti":      xid.New().String(),
		"iat":      jwt.NewNumericDate(time.Now()),
		"exp":      jwt.NewNumericDate(expiresAt),
		"iss":      "sitegate",
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingKey)
	if err != nil {
		return nil, fmt.Errorf("signing pass: %w", err)
	}

	return &Pass{
		Token:       token,
		PersonID:    person.ID,
		Fingerprint: audit.Fingerprint(token),
		ExpiresAt:   expiresAt,
	}, nil
}

// Verify parses a pass token and returns its claims.
func (i *Issuer) Verify(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return i.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing pass: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid pass")
	}
	return claims, nil
}

func earliestExpiry(certs []core.Certificate) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, cert := range certs {
		if cert.ExpiresAt == nil {
			continue
		}
		t := cert.ExpiresAt.Time()
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	return earliest, found
}
