/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package token issues and verifies the bearer credentials of the API
package token

import (
	"strconv"
	"time"

	"github.com/dnote/simplenote/pkg/clock"
	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/helpers"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TypeAccess is the type claim of an access token
const TypeAccess = "access"

// ErrInvalid is an error for a token that is malformed, expired, revoked or
// of the wrong type
var ErrInvalid = errors.New("Token is invalid or expired")

// Claims are the claims carried by the tokens
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Type   string `json:"token_type"`
}

// Issuer signs and verifies tokens with a shared secret
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clock.Clock
}

// NewIssuer returns a new issuer
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration, c clock.Clock) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clock:      c,
	}
}

func (i *Issuer) sign(userID int, kind string, ttl time.Duration) (string, Claims, error) {
	jti, err := helpers.GenUUID()
	if err != nil {
		return "", Claims{}, err
	}

	now := i.clock.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   kind,
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Claims{}, errors.Wrap(err, "signing the token")
	}

	return s, claims, nil
}

func (i *Issuer) parse(s, kind string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(s, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	if claims.Type != kind {
		return nil, errors.Wrapf(ErrInvalid, "expected a %s token", kind)
	}

	return claims, nil
}

// CreateAccess returns a new access token for the user
func (i *Issuer) CreateAccess(userID int) (string, error) {
	s, _, err := i.sign(userID, TypeAccess, i.accessTTL)
	if err != nil {
		return "", errors.Wrap(err, "creating an access token")
	}

	return s, nil
}

// ParseAccess verifies the given access token and returns the id of its user
func (i *Issuer) ParseAccess(s string) (int, error) {
	claims, err := i.parse(s, TypeAccess)
	if err != nil {
		return 0, err
	}

	return claims.UserID, nil
}

// CreateRefresh returns a new refresh token for the user and records it in
// the database so that it can be revoked
func (i *Issuer) CreateRefresh(db *gorm.DB, userID int) (string, error) {
	s, claims, err := i.sign(userID, database.TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return "", errors.Wrap(err, "creating a refresh token")
	}

	now := i.clock.Now().UTC()
	tok := database.Token{
		Model: database.Model{
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    userID,
		Value:     claims.ID,
		Type:      database.TokenTypeRefresh,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if err := db.Create(&tok).Error; err != nil {
		return "", errors.Wrap(err, "saving the refresh token")
	}

	return s, nil
}

// ParseRefresh verifies the given refresh token against its signature and
// its record, and returns the record
func (i *Issuer) ParseRefresh(db *gorm.DB, s string) (database.Token, error) {
	claims, err := i.parse(s, database.TokenTypeRefresh)
	if err != nil {
		return database.Token{}, err
	}

	var tok database.Token
	err = db.Where("value = ? AND type = ?", claims.ID, database.TokenTypeRefresh).First(&tok).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Token{}, errors.Wrap(ErrInvalid, "unknown token")
	} else if err != nil {
		return database.Token{}, errors.Wrap(err, "finding the token")
	}

	if tok.RevokedAt != nil {
		return database.Token{}, errors.Wrap(ErrInvalid, "revoked token")
	}
	if tok.UserID != claims.UserID {
		return database.Token{}, errors.Wrap(ErrInvalid, "user mismatch")
	}

	return tok, nil
}

// RevokeAll revokes every outstanding refresh token of the user
func (i *Issuer) RevokeAll(db *gorm.DB, userID int) error {
	now := i.clock.Now().UTC()

	err := db.Model(&database.Token{}).
		Where("user_id = ? AND type = ? AND revoked_at IS NULL", userID, database.TokenTypeRefresh).
		Updates(map[string]interface{}{
			"revoked_at": now,
			"updated_at": now,
		}).Error
	if err != nil {
		return errors.Wrap(err, "revoking refresh tokens")
	}

	return nil
}
