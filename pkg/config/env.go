package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/shandysiswandi/gocle/pkg/awscfg"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/kms"
)

// ConnectionStringVar holds the KMS encrypted database connection string.
const ConnectionStringVar = "CONNECTION_STRING"

// ErrMissingVariable is wrapped by the error returned when a variable is not
// set and has no default.
var ErrMissingVariable = errors.New("config: environment variable not set")

// Environment is a source of named values.
type Environment interface {
	Lookup(name string) (string, bool)
}

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

// Lookup implements Environment.
func (OSEnvironment) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapEnvironment is an in-memory Environment.
type MapEnvironment map[string]string

// Lookup implements Environment.
func (m MapEnvironment) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Decrypter turns an encrypted value into plaintext.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

// DecrypterFunc adapts a function to Decrypter.
type DecrypterFunc func(ctx context.Context, ciphertext string) (string, error)

// Decrypt implements Decrypter.
func (f DecrypterFunc) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	return f(ctx, ciphertext)
}

type envOptions struct {
	environment Environment
	def         string
	hasDefault  bool
	decrypter   Decrypter
}

// EnvOption customizes Env and EncryptedEnv.
type EnvOption func(*envOptions)

// WithDefault sets the value used when the variable is not set. A variable
// that is set, even to "", always wins over the default.
func WithDefault(value string) EnvOption {
	return func(o *envOptions) {
		o.def = value
		o.hasDefault = true
	}
}

// WithEnvironment reads from env instead of the process environment.
func WithEnvironment(env Environment) EnvOption {
	return func(o *envOptions) {
		o.environment = env
	}
}

// WithDecrypter replaces the KMS decrypter used by EncryptedEnv.
func WithDecrypter(d Decrypter) EnvOption {
	return func(o *envOptions) {
		o.decrypter = d
	}
}

func buildEnvOptions(opts []EnvOption) *envOptions {
	o := &envOptions{environment: OSEnvironment{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Env returns the value of the named variable, or the default. A missing
// variable without default is an internal service error wrapping
// ErrMissingVariable.
func Env(name string, opts ...EnvOption) (string, error) {
	return lookup(name, buildEnvOptions(opts))
}

func lookup(name string, o *envOptions) (string, error) {
	if value, ok := o.environment.Lookup(name); ok {
		return value, nil
	}
	if o.hasDefault {
		return o.def, nil
	}

	return "", goerror.NewInternal(
		fmt.Sprintf("An environment variable with the name: %s could not be found.", name),
		fmt.Errorf("%w: %s", ErrMissingVariable, name),
	)
}

// EncryptedEnv reads the named variable like Env and decrypts it. The default,
// when used, is decrypted as well. Without WithDecrypter, values are decrypted
// with KMS using a client built on first use from the default AWS chain.
func EncryptedEnv(ctx context.Context, name string, opts ...EnvOption) (string, error) {
	o := buildEnvOptions(opts)

	ciphertext, err := lookup(name, o)
	if err != nil {
		return "", err
	}

	decrypter := o.decrypter
	if decrypter == nil {
		decrypter = DefaultDecrypter()
	}

	return decrypter.Decrypt(ctx, ciphertext)
}

// ConnectionString decrypts the CONNECTION_STRING variable.
func ConnectionString(ctx context.Context, opts ...EnvOption) (string, error) {
	return EncryptedEnv(ctx, ConnectionStringVar, opts...)
}

var defaultDecrypter = &lazyKMS{}

// DefaultDecrypter returns the shared KMS decrypter. The KMS client is created
// on first use so reading plain variables never touches AWS configuration.
func DefaultDecrypter() Decrypter {
	return defaultDecrypter
}

type lazyKMS struct {
	mu  sync.Mutex
	svc *kms.Service
}

func (l *lazyKMS) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	svc, err := l.service(ctx)
	if err != nil {
		return "", goerror.NewInternal("Value could not be decrypted", err)
	}
	return svc.DecryptString(ctx, ciphertext)
}

// service builds the client once; a failed attempt is retried on the next call.
func (l *lazyKMS) service(ctx context.Context) (*kms.Service, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc != nil {
		return l.svc, nil
	}

	svc, err := kms.New(ctx, awscfg.Options{}, nil)
	if err != nil {
		return nil, err
	}
	l.svc = svc

	return svc, nil
}
