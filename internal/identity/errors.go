package identity

import "fmt"

// KeyGenerationError reports an unusable key source: the external primitive
// produced output that could not be parsed into exactly one private and one
// public key, or the pair failed cryptographic validation.
type KeyGenerationError struct {
	Reason string
	Err    error
}

func (e *KeyGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key generation: %s: %v", e.Reason, e.Err)
	}
	return "key generation: " + e.Reason
}

func (e *KeyGenerationError) Unwrap() error { return e.Err }
