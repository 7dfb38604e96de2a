// Package onboard checks shared-secret keys that gate activation of optional
// product features.
package onboard

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNoKey is returned when a request carries none of the known key fields.
	ErrNoKey = errors.New("onboard: no onboarding key supplied")
	// ErrKeyMismatch is returned when key fields are present but none match.
	ErrKeyMismatch = errors.New("onboard: key does not match")
)

type Feature string

const (
	FeatureCsight             Feature = "csight"
	FeatureDora               Feature = "dora"
	FeatureValueStream        Feature = "valuestream"
	FeatureOperationalMetrics Feature = "operationalmetrics"
)

// allFeatures is the order in which request fields are checked.
var allFeatures = []Feature{
	FeatureCsight,
	FeatureDora,
	FeatureValueStream,
	FeatureOperationalMetrics,
}

// Field returns the JSON request field that carries the feature's key.
func (f Feature) Field() string {
	return string(f) + "_key"
}

// DisplayName is the name used in response messages.
func (f Feature) DisplayName() string {
	switch f {
	case FeatureCsight:
		return "Csight"
	case FeatureDora:
		return "Dora"
	case FeatureValueStream:
		return "Value Stream"
	case FeatureOperationalMetrics:
		return "Operational Metrics"
	}
	return string(f)
}

// Request holds the decoded fields of an onboarding request body.
type Request map[string]any

// Keyring maps features to their activation secrets.
type Keyring struct {
	secrets map[Feature]string
}

// NewKeyring returns a keyring for the given secrets. A secret that starts
// with a bcrypt prefix is verified as a hash; anything else is compared as a
// literal. Features with an empty secret can never be activated.
func NewKeyring(secrets map[Feature]string) *Keyring {
	k := &Keyring{secrets: make(map[Feature]string, len(secrets))}
	for f, s := range secrets {
		if s != "" {
			k.secrets[f] = s
		}
	}
	return k
}

// Features lists the activatable features in check order.
func (k *Keyring) Features() []Feature {
	var out []Feature
	for _, f := range allFeatures {
		if _, ok := k.secrets[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Check returns the first feature whose key field is present in req and
// matches its secret.
func (k *Keyring) Check(req Request) (Feature, error) {
	present := false
	for _, f := range allFeatures {
		v, ok := req[f.Field()]
		if !ok {
			continue
		}
		present = true

		value, isString := v.(string)
		if !isString {
			continue
		}
		secret, ok := k.secrets[f]
		if !ok {
			continue
		}
		if matches(secret, value) {
			return f, nil
		}
	}

	if !present {
		return "", ErrNoKey
	}
	return "", ErrKeyMismatch
}

func matches(secret, value string) bool {
	if isBcryptHash(secret) {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(value)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(value)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
