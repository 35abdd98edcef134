// Package kms encrypts and decrypts small secrets with AWS Key Management
// Service.
package kms

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskms "github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"

	"github.com/shandysiswandi/gocle/pkg/awscfg"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

// Algorithm is the encryption algorithm KMS applies.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmSymmetricDefault Algorithm = Algorithm(types.EncryptionAlgorithmSpecSymmetricDefault)
	AlgorithmRSAESOAEPSHA1    Algorithm = Algorithm(types.EncryptionAlgorithmSpecRsaesOaepSha1)
	AlgorithmRSAESOAEPSHA256  Algorithm = Algorithm(types.EncryptionAlgorithmSpecRsaesOaepSha256)
)

// ErrInvalidCiphertext is returned when a base64 ciphertext cannot be decoded.
var ErrInvalidCiphertext = errors.New("kms: ciphertext is not valid base64")

// Client is the subset of the AWS KMS client used here.
type Client interface {
	Encrypt(ctx context.Context, params *awskms.EncryptInput, optFns ...func(*awskms.Options)) (*awskms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *awskms.DecryptInput, optFns ...func(*awskms.Options)) (*awskms.DecryptOutput, error)
}

// KeyManagement encrypts and decrypts values.
type KeyManagement interface {
	Encrypt(ctx context.Context, in EncryptInput) (*EncryptOutput, error)
	Decrypt(ctx context.Context, in DecryptInput) (*DecryptOutput, error)
	EncryptString(ctx context.Context, plaintext, keyID string) (string, error)
	DecryptString(ctx context.Context, ciphertext string) (string, error)
}

// EncryptInput describes an encrypt call.
type EncryptInput struct {
	KeyID             string `json:"key_id" validate:"required"`
	Plaintext         []byte `json:"plaintext" validate:"required,max=4096"`
	EncryptionContext map[string]string
	GrantTokens       []string
	Algorithm         Algorithm `json:"algorithm" validate:"omitempty,oneof=SYMMETRIC_DEFAULT RSAES_OAEP_SHA_1 RSAES_OAEP_SHA_256"`
}

// EncryptOutput is the result of an encrypt call.
type EncryptOutput struct {
	CiphertextBlob []byte
	KeyID          string
	Algorithm      Algorithm
}

// DecryptInput describes a decrypt call. KeyID is only needed for asymmetric
// keys.
type DecryptInput struct {
	CiphertextBlob    []byte `json:"ciphertext_blob" validate:"required"`
	EncryptionContext map[string]string
	GrantTokens       []string
	KeyID             string
	Algorithm         Algorithm `json:"algorithm" validate:"omitempty,oneof=SYMMETRIC_DEFAULT RSAES_OAEP_SHA_1 RSAES_OAEP_SHA_256"`
}

// DecryptOutput is the result of a decrypt call.
type DecryptOutput struct {
	Plaintext []byte
	KeyID     string
}

// Service implements KeyManagement on top of the AWS SDK.
type Service struct {
	client    Client
	validator validator.Validator
}

// New builds a Service with a client created from opts.
func New(ctx context.Context, opts awscfg.Options, v validator.Validator) (*Service, error) {
	cfg, err := awscfg.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	client := awskms.NewFromConfig(cfg, func(o *awskms.Options) {
		o.BaseEndpoint = opts.BaseEndpoint()
	})

	return NewWithClient(client, v), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client Client, v validator.Validator) *Service {
	return &Service{client: client, validator: v}
}

// Encrypt encrypts in.Plaintext with the given key.
func (s *Service) Encrypt(ctx context.Context, in EncryptInput) (*EncryptOutput, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	out, err := s.client.Encrypt(ctx, &awskms.EncryptInput{
		KeyId:               aws.String(in.KeyID),
		Plaintext:           in.Plaintext,
		EncryptionContext:   in.EncryptionContext,
		GrantTokens:         in.GrantTokens,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpec(in.Algorithm),
	})
	if err != nil {
		return nil, goerror.NewInternal("Value could not be encrypted", err)
	}

	return &EncryptOutput{
		CiphertextBlob: out.CiphertextBlob,
		KeyID:          aws.ToString(out.KeyId),
		Algorithm:      Algorithm(out.EncryptionAlgorithm),
	}, nil
}

// Decrypt decrypts in.CiphertextBlob.
func (s *Service) Decrypt(ctx context.Context, in DecryptInput) (*DecryptOutput, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	params := &awskms.DecryptInput{
		CiphertextBlob:      in.CiphertextBlob,
		EncryptionContext:   in.EncryptionContext,
		GrantTokens:         in.GrantTokens,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpec(in.Algorithm),
	}
	if in.KeyID != "" {
		params.KeyId = aws.String(in.KeyID)
	}

	out, err := s.client.Decrypt(ctx, params)
	if err != nil {
		return nil, goerror.NewInternal("Value could not be decrypted", err)
	}

	return &DecryptOutput{Plaintext: out.Plaintext, KeyID: aws.ToString(out.KeyId)}, nil
}

// EncryptString encrypts plaintext and returns the base64 ciphertext, the
// format DecryptString and encrypted environment variables expect.
func (s *Service) EncryptString(ctx context.Context, plaintext, keyID string) (string, error) {
	out, err := s.Encrypt(ctx, EncryptInput{KeyID: keyID, Plaintext: []byte(plaintext)})
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(out.CiphertextBlob), nil
}

// DecryptString decodes a base64 ciphertext and returns the UTF-8 plaintext.
func (s *Service) DecryptString(ctx context.Context, ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", goerror.NewInternal("Value could not be decrypted", errors.Join(ErrInvalidCiphertext, err))
	}

	out, err := s.Decrypt(ctx, DecryptInput{CiphertextBlob: blob})
	if err != nil {
		return "", err
	}

	return string(out.Plaintext), nil
}

func (s *Service) validate(in any) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInternal("Invalid key management request", err)
	}
	return nil
}
