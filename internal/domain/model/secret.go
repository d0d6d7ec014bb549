package model

// SecretPayload is what callers hand to a SecretStore: a single entry whose key
// is the store's discriminator (SecretStore.Key) and whose value is the secret
// content. Stores may persist the whole map but only the entry under their own
// key is returned by GetSecret.
type SecretPayload map[string]any

// NewSecretPayload builds the single-entry payload for a store key.
func NewSecretPayload(key, secret string) SecretPayload {
	return SecretPayload{key: secret}
}

// Value returns the string stored under key. ok is false when the key is
// missing or its value is not a string.
func (p SecretPayload) Value(key string) (value string, ok bool) {
	raw, found := p[key]
	if !found {
		return "", false
	}
	value, ok = raw.(string)
	return value, ok
}
