package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/rs/cors"

	"github.com/shandysiswandi/gocle/pkg/apigw"
	"github.com/shandysiswandi/gocle/pkg/awscfg"
	"github.com/shandysiswandi/gocle/pkg/clock"
	"github.com/shandysiswandi/gocle/pkg/config"
	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/kms"
	"github.com/shandysiswandi/gocle/pkg/mail"
	"github.com/shandysiswandi/gocle/pkg/notify"
	"github.com/shandysiswandi/gocle/pkg/router"
	"github.com/shandysiswandi/gocle/pkg/storage"
	"github.com/shandysiswandi/gocle/pkg/uid"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

// envPrefix prefixes every variable read in Lambda mode, e.g. GOCLE_APP_NAME.
const envPrefix = "GOCLE"

func detectMode() string {
	if mode := strings.ToLower(os.Getenv("APP_MODE")); mode != "" {
		return mode
	}
	// set by the Lambda runtime
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return ModeLambda
	}
	return ModeHTTP
}

func (a *App) initConfig() {
	if a.mode == ModeLambda {
		a.config = config.NewViperFromEnv(envPrefix, lambdaDefaults)
		return
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "path", path, "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()

	v, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = v

	res, err := form.NewResolver(v)
	if err != nil {
		slog.Error("failed to init form resolver", "error", err)
		os.Exit(1)
	}
	a.resolver = res
}

func (a *App) awsOptions() awscfg.Options {
	return awscfg.Options{
		Region:       a.config.GetString("aws.region"),
		Endpoint:     a.config.GetString("aws.endpoint"),
		AccessKey:    a.config.GetString("aws.access_key"),
		SecretKey:    a.config.GetString("aws.secret_key"),
		SessionToken: a.config.GetString("aws.session_token"),
	}
}

func (a *App) initKMS() {
	svc, err := kms.New(a.ctx, a.awsOptions(), a.validator)
	if err != nil {
		slog.Error("failed to init kms", "error", err)
		os.Exit(1)
	}
	a.kms = svc
}

// secret reads key from the configuration. When app.secrets_encrypted is set
// the value is a base64 KMS ciphertext and is decrypted first.
func (a *App) secret(key string) string {
	if !a.config.GetBool("app.secrets_encrypted") || a.config.GetString(key) == "" {
		return a.config.GetString(key)
	}

	value, err := config.EncryptedEnv(a.ctx, key,
		config.WithEnvironment(a.config),
		config.WithDecrypter(config.DecrypterFunc(a.kms.DecryptString)),
	)
	if err != nil {
		slog.Error("failed to decrypt secret", "key", key, "error", err)
		os.Exit(1)
	}
	return value
}

func (a *App) initStorage() {
	aws := a.awsOptions()
	aws.AccessKey = a.config.GetString("storage.s3.access_key")
	aws.SecretKey = a.secret("storage.s3.secret_key")
	if endpoint := a.config.GetString("storage.s3.endpoint"); endpoint != "" {
		aws.Endpoint = endpoint
	}

	st, err := storage.NewFromDriver(a.ctx, a.config.GetString("storage.driver"), storage.FactoryOptions{
		S3: storage.S3Options{
			AWS:          aws,
			Bucket:       a.config.GetString("storage.bucket"),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		MinIO: storage.MinIOOptions{
			Endpoint:  a.config.GetString("storage.minio.endpoint"),
			AccessKey: a.config.GetString("storage.minio.access_key"),
			SecretKey: a.secret("storage.minio.secret_key"),
			Region:    a.config.GetString("storage.minio.region"),
			Bucket:    a.config.GetString("storage.bucket"),
			UseSSL:    a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "driver", a.config.GetString("storage.driver"), "error", err)
		os.Exit(1)
	}
	a.storage = st
}

func (a *App) initMail() {
	m, err := mail.NewFromDriver(a.ctx, a.config.GetString("mail.driver"), mail.FactoryOptions{
		SES: mail.SESOptions{
			AWS:       a.awsOptions(),
			From:      a.config.GetString("mail.from"),
			Validator: a.validator,
		},
		SMTP: mail.SMTPConfig{
			Host:     a.config.GetString("mail.smtp.host"),
			Port:     a.config.GetInt("mail.smtp.port"),
			Username: a.config.GetString("mail.smtp.username"),
			Password: a.secret("mail.smtp.password"),
			From:     a.config.GetString("mail.from"),
		},
	})
	if err != nil {
		slog.Error("failed to init mail", "driver", a.config.GetString("mail.driver"), "error", err)
		os.Exit(1)
	}
	a.mail = m
}

func (a *App) initNotify() {
	p, err := notify.New(a.ctx, a.awsOptions(), a.validator)
	if err != nil {
		slog.Error("failed to init notify", "error", err)
		os.Exit(1)
	}
	a.publisher = p
}

func (a *App) initTransport() {
	a.router = router.NewRouter(router.Config{
		Config:      a.config,
		UUID:        a.uuid,
		Instrument:  a.ins,
		ServiceName: a.config.GetString("instrument.service_name"),
	})
	a.mux = apigw.NewMux()

	a.handler = cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           a.handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				return a.storage.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}

// lambdaDefaults seeds keys read in Lambda mode so unset variables still
// resolve to sensible values.
var lambdaDefaults = map[string]any{
	"app.lambda.adapter":                 "direct",
	"app.server.cors":                    "*",
	"modules.contact.enabled":            true,
	"instrument.service_name":            "gocle",
	"instrument.log_level":               "info",
	"instrument.trace_sample_ratio":      1.0,
	"instrument.metric_interval_seconds": 60,
	"instrument.log_mask_fields":         "authorization,password,secret_key",
	"storage.driver":                     storage.DriverS3,
	"mail.driver":                        mail.DriverSES,
}
