package portalauth

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/waseaca/portalauth/store"
)

// prefsKeySanitizer replaces every character outside [a-z0-9] in a
// normalized email when deriving the per-user preference key.
var prefsKeySanitizer = regexp.MustCompile(`[^a-z0-9]`)

// preferenceStore persists per-user UI preferences keyed by normalized
// email, independent of session lifetime.
type preferenceStore struct {
	kv     store.KV
	prefix string
}

func newPreferenceStore(kv store.KV, prefix string) *preferenceStore {
	return &preferenceStore{
		kv:     kv,
		prefix: prefix,
	}
}

func (p *preferenceStore) keyFor(email string) string {
	return p.prefix + prefsKeySanitizer.ReplaceAllString(normalizeEmail(email), "_")
}

// Save overwrites the stored record for email wholesale.
func (p *preferenceStore) Save(ctx context.Context, email string, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, p.keyFor(email), string(data))
}

// Load returns the stored record for email, or nil when absent. Malformed
// stored data reads as absent.
func (p *preferenceStore) Load(ctx context.Context, email string) (*Preferences, error) {
	value, ok, err := p.kv.Get(ctx, p.keyFor(email))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(value), &prefs); err != nil {
		return nil, nil
	}
	return &prefs, nil
}
