package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/giantswarm/backoff"
	"github.com/giantswarm/microerror"
	"github.com/giantswarm/micrologger"

	"github.com/giantswarm/runtimeclass-admission-controller/pkg/policy"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/project"
)

const (
	defaultAddress        = ":8443"
	defaultMetricsAddress = ":8080"
	defaultCertsDir       = "/certs"
	defaultCertFile       = "tls.crt"
	defaultKeyFile        = "tls.key"
	defaultCertWait       = 30 * time.Second

	certRetryInterval = 2 * time.Second
)

type Config struct {
	Address        string
	MetricsAddress string
	// CertFile and KeyFile are absolute paths below CertsDir once parsed.
	CertsDir string
	CertFile string
	KeyFile  string
	CertWait time.Duration

	Policy policy.Policy

	Logger micrologger.Logger
}

// flags holds values whose zero value means "not given on the command
// line", so that they only override the policy file when set.
type flags struct {
	policyFile         string
	runtimeClass       string
	excludedNamespaces []string
	requiredLabels     map[string]string
	annotations        map[string]string
}

func Parse(args []string) (Config, error) {
	var err error
	var config Config
	f := flags{
		requiredLabels: map[string]string{},
		annotations:    map[string]string{},
	}

	// Create a new logger that is used by all admitters.
	var newLogger micrologger.Logger
	{
		newLogger, err = micrologger.New(micrologger.Config{})
		if err != nil {
			return Config{}, microerror.Mask(err)
		}
		config.Logger = newLogger
	}

	app := kingpin.New(project.Name(), project.Description())
	app.Version(project.Version())

	app.Flag("address", "The address to listen on").Default(defaultAddress).Envar("WEBHOOK_ADDRESS").StringVar(&config.Address)
	app.Flag("metrics-address", "The metrics address for Prometheus").Default(defaultMetricsAddress).Envar("WEBHOOK_METRICS_ADDRESS").StringVar(&config.MetricsAddress)
	app.Flag("certs-dir", "Directory containing the certificate and key for HTTPS").Default(defaultCertsDir).Envar("WEBHOOK_CERTS_DIR").StringVar(&config.CertsDir)
	app.Flag("tls-cert-file", "File name of the certificate within the certs directory").Default(defaultCertFile).Envar("WEBHOOK_CRT_FILE").StringVar(&config.CertFile)
	app.Flag("tls-key-file", "File name of the private key within the certs directory").Default(defaultKeyFile).Envar("WEBHOOK_KEY_FILE").StringVar(&config.KeyFile)
	app.Flag("cert-wait", "How long to wait for the certificate and key to appear").Default(defaultCertWait.String()).Envar("WEBHOOK_CERT_WAIT").DurationVar(&config.CertWait)

	app.Flag("policy-file", "YAML file with the mutation policy, flags override its values").Envar("WEBHOOK_POLICY_FILE").StringVar(&f.policyFile)
	app.Flag("runtime-class", "Runtime class injected into workloads (default \""+policy.DefaultRuntimeClass+"\")").Envar("WEBHOOK_RUNTIME_CLASS").StringVar(&f.runtimeClass)
	app.Flag("excluded-namespace", "Namespace that is never mutated, repeatable (default \""+policy.DefaultExcludedNamespace+"\")").StringsVar(&f.excludedNamespaces)
	app.Flag("required-label", "Label key=value every mutated object must carry, repeatable").StringMapVar(&f.requiredLabels)
	app.Flag("annotation", "Annotation key=value added to mutated objects, repeatable").StringMapVar(&f.annotations)

	_, err = app.Parse(args)
	if err != nil {
		return Config{}, microerror.Maskf(invalidConfigError, "%s", err)
	}

	config.Policy, err = newPolicy(f)
	if err != nil {
		return Config{}, microerror.Mask(err)
	}

	config.CertFile = filepath.Join(config.CertsDir, config.CertFile)
	config.KeyFile = filepath.Join(config.CertsDir, config.KeyFile)

	err = waitForCertificates(context.Background(), config)
	if err != nil {
		return Config{}, microerror.Mask(err)
	}

	return config, nil
}

func newPolicy(f flags) (policy.Policy, error) {
	var err error

	p := policy.Default()
	if f.policyFile != "" {
		p, err = policy.FromFile(f.policyFile)
		if err != nil {
			return policy.Policy{}, microerror.Mask(err)
		}
	}

	if f.runtimeClass != "" {
		p.RuntimeClass = f.runtimeClass
	}
	if len(f.excludedNamespaces) > 0 {
		p.ExcludedNamespaces = f.excludedNamespaces
	}
	if len(f.requiredLabels) > 0 {
		p.RequiredLabels = f.requiredLabels
	}
	if len(f.annotations) > 0 {
		p.Annotations = f.annotations
	}

	p = p.Normalize()
	err = p.Validate()
	if err != nil {
		return policy.Policy{}, microerror.Mask(err)
	}

	return p, nil
}

// waitForCertificates retries for a while since the secret volume can be
// populated after the container started.
func waitForCertificates(ctx context.Context, config Config) error {
	o := func() error {
		return checkCertificates(config)
	}

	interval := certRetryInterval
	if config.CertWait < interval {
		interval = config.CertWait
	}
	if interval <= 0 {
		return checkCertificates(config)
	}

	b := backoff.NewConstant(config.CertWait, interval)
	n := backoff.NewNotifier(config.Logger, ctx)

	err := backoff.RetryNotify(o, b, n)
	if err != nil {
		return microerror.Mask(err)
	}

	return nil
}

func checkCertificates(config Config) error {
	info, err := os.Stat(config.CertsDir)
	if err != nil {
		return microerror.Maskf(invalidConfigError, "certs directory %#q: %s", config.CertsDir, err)
	}
	if !info.IsDir() {
		return microerror.Maskf(invalidConfigError, "certs directory %#q is not a directory", config.CertsDir)
	}

	for _, path := range []string{config.CertFile, config.KeyFile} {
		info, err := os.Stat(path)
		if err != nil {
			return microerror.Maskf(invalidConfigError, "%#q: %s", path, err)
		}
		if !info.Mode().IsRegular() {
			return microerror.Maskf(invalidConfigError, "%#q is not a regular file", path)
		}
	}

	return nil
}
