package identity

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// CommandKeygen shells out to an external binary, typically
// `sing-box generate reality-keypair`, and extracts the key pair from its
// textual output. Transient execution failures are retried with exponential
// backoff; malformed output is not retried because re-running the same
// binary would produce the same shape.
type CommandKeygen struct {
	Binary  string
	Args    []string
	Timeout time.Duration
	Retries uint64

	// run is swappable for tests.
	run func(ctx context.Context) ([]byte, error)
}

// NewCommandKeygen builds a keygen around the given binary. Args defaults to
// the sing-box keypair subcommand when empty.
func NewCommandKeygen(binary string, timeout time.Duration, retries uint64) *CommandKeygen {
	k := &CommandKeygen{
		Binary:  binary,
		Args:    []string{"generate", "reality-keypair"},
		Timeout: timeout,
		Retries: retries,
	}
	k.run = k.runCommand
	return k
}

// GenerateKeyPair implements Keygen.
func (k *CommandKeygen) GenerateKeyPair(ctx context.Context) (KeyPair, error) {
	var out []byte

	operation := func() error {
		runCtx := ctx
		if k.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, k.Timeout)
			defer cancel()
		}
		var err error
		out, err = k.run(runCtx)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), k.Retries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return KeyPair{}, &KeyGenerationError{Reason: "run " + k.Binary, Err: err}
	}

	pair, err := ParseKeyPairOutput(string(out))
	if err != nil {
		return KeyPair{}, err
	}
	return pair, nil
}

func (k *CommandKeygen) runCommand(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, k.Binary, k.Args...)
	return cmd.Output()
}

// ParseKeyPairOutput extracts the private and public key fields from keypair
// generator output of the form:
//
//	PrivateKey: <base64url>
//	PublicKey: <base64url>
//
// Exactly one of each must be present.
func ParseKeyPairOutput(out string) (KeyPair, error) {
	var pair KeyPair
	var privSeen, pubSeen int

	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "PrivateKey":
			pair.Private = value
			privSeen++
		case "PublicKey":
			pair.Public = value
			pubSeen++
		}
	}

	if privSeen != 1 || pubSeen != 1 {
		return KeyPair{}, &KeyGenerationError{
			Reason: "expected exactly one PrivateKey and one PublicKey field in generator output",
		}
	}
	if pair.Private == "" || pair.Public == "" {
		return KeyPair{}, &KeyGenerationError{Reason: "empty key field in generator output"}
	}
	return pair, nil
}
