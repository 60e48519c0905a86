package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medrecord-api/internal/model"
)

var (
	ErrBadToken     = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Claims is the identity attached to every authenticated request. Access
// tokens carry the full set; refresh tokens carry only the user id.
type Claims struct {
	UserID     string     `json:"uid"`
	Email      string     `json:"email,omitempty"`
	Role       model.Role `json:"role,omitempty"`
	ProviderID string     `json:"pid,omitempty"`
	PatientID  string     `json:"ptid,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the two signed credentials. Pure
// functions over the configured secrets; nothing is stored here.
type TokenService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (ts *TokenService) IssueAccessToken(u *model.User) (string, error) {
	c := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ts.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if u.ProviderID != nil {
		c.ProviderID = *u.ProviderID
	}
	if u.PatientID != nil {
		c.PatientID = *u.PatientID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(ts.accessSecret))
}

// IssueRefreshToken embeds only the user id; everything else is re-read
// from the store on refresh. The jti keeps every issued token unique,
// so rotation always produces a new hash even within the same second.
func (ts *TokenService) IssueRefreshToken(userID string) (string, error) {
	c := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ts.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(ts.refreshSecret))
}

func (ts *TokenService) VerifyAccessToken(raw string) (*Claims, error) {
	return parse(raw, ts.accessSecret)
}

func (ts *TokenService) VerifyRefreshToken(raw string) (*Claims, error) {
	return parse(raw, ts.refreshSecret)
}

func parse(raw, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrBadToken
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	return c, nil
}

// HashRefreshToken is the at-rest form of a refresh token: only the sha256
// hex digest ever touches the database.
func HashRefreshToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
