package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/giantswarm/runtimeclass-admission-controller/pkg/policy"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		args      func(dir string) []string
		env       map[string]string
		files     map[string]string
		setup     func(t *testing.T, dir string)
		errorFunc func(error) bool

		expectedAddress  string
		expectedCertFile string
		expectedPolicy   policy.Policy
	}{
		{
			name: "case 0: defaults",
			args: func(dir string) []string {
				return []string{"--certs-dir", dir}
			},
			files: map[string]string{
				"tls.crt": "crt",
				"tls.key": "key",
			},

			expectedAddress:  ":8443",
			expectedCertFile: "tls.crt",
			expectedPolicy:   policy.Default(),
		},
		{
			name: "case 1: certificate file name from the environment",
			args: func(dir string) []string {
				return []string{"--certs-dir", dir, "--address", ":9443"}
			},
			env: map[string]string{
				"WEBHOOK_CRT_FILE": "server.pem",
			},
			files: map[string]string{
				"server.pem": "crt",
				"tls.key":    "key",
			},

			expectedAddress:  ":9443",
			expectedCertFile: "server.pem",
			expectedPolicy:   policy.Default(),
		},
		{
			name: "case 2: flags override the policy file",
			args: func(dir string) []string {
				return []string{
					"--certs-dir", dir,
					"--policy-file", filepath.Join(dir, "policy.yaml"),
					"--runtime-class", "gvisor",
					"--required-label", "actions-ephemeral-runner=TRUE",
				}
			},
			files: map[string]string{
				"tls.crt": "crt",
				"tls.key": "key",
				"policy.yaml": `runtimeClass: kata
excludedNamespaces:
- kube-system
- flux-
annotations:
  dev.edera/log-level: debug
`,
			},

			expectedAddress:  ":8443",
			expectedCertFile: "tls.crt",
			expectedPolicy: policy.Policy{
				RuntimeClass:       "gvisor",
				ExcludedNamespaces: []string{"kube-system", "flux-"},
				RequiredLabels: map[string]string{
					"actions-ephemeral-runner": "true",
				},
				Annotations: map[string]string{
					"dev.edera/log-level": "debug",
				},
			},
		},
		{
			name: "case 3: repeated excluded namespaces replace the default",
			args: func(dir string) []string {
				return []string{
					"--certs-dir", dir,
					"--excluded-namespace", "kube-",
					"--excluded-namespace", "-system",
				}
			},
			files: map[string]string{
				"tls.crt": "crt",
				"tls.key": "key",
			},

			expectedAddress:  ":8443",
			expectedCertFile: "tls.crt",
			expectedPolicy: policy.Policy{
				RuntimeClass:       policy.DefaultRuntimeClass,
				ExcludedNamespaces: []string{"kube-", "-system"},
			},
		},
		{
			name: "case 4: missing key file",
			args: func(dir string) []string {
				return []string{"--certs-dir", dir, "--cert-wait", "10ms"}
			},
			files: map[string]string{
				"tls.crt": "crt",
			},
			errorFunc: IsInvalidConfig,
		},
		{
			name: "case 5: certs directory is a file",
			args: func(dir string) []string {
				return []string{"--certs-dir", filepath.Join(dir, "tls.crt"), "--cert-wait", "10ms"}
			},
			files: map[string]string{
				"tls.crt": "crt",
			},
			errorFunc: IsInvalidConfig,
		},
		{
			name: "case 6: key is a directory",
			args: func(dir string) []string {
				return []string{"--certs-dir", dir, "--cert-wait", "10ms"}
			},
			files: map[string]string{
				"tls.crt": "crt",
			},
			setup: func(t *testing.T, dir string) {
				err := os.Mkdir(filepath.Join(dir, "tls.key"), 0700)
				if err != nil {
					t.Fatal(err)
				}
			},
			errorFunc: IsInvalidConfig,
		},
		{
			name: "case 7: invalid runtime class",
			args: func(dir string) []string {
				return []string{"--certs-dir", dir, "--runtime-class", "Not_Valid"}
			},
			files: map[string]string{
				"tls.crt": "crt",
				"tls.key": "key",
			},
			errorFunc: policy.IsInvalidPolicy,
		},
		{
			name: "case 8: unknown field in the policy file",
			args: func(dir string) []string {
				return []string{"--certs-dir", dir, "--policy-file", filepath.Join(dir, "policy.yaml")}
			},
			files: map[string]string{
				"tls.crt":     "crt",
				"tls.key":     "key",
				"policy.yaml": "runtimeClassName: edera\n",
			},
			errorFunc: policy.IsInvalidPolicy,
		},
		{
			name: "case 9: unknown flag",
			args: func(dir string) []string {
				return []string{"--certs-dir", dir, "--no-such-flag"}
			},
			errorFunc: IsInvalidConfig,
		},
	}

	for i, tc := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600)
				if err != nil {
					t.Fatal(err)
				}
			}
			if tc.setup != nil {
				tc.setup(t, dir)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			config, err := Parse(tc.args(dir))

			switch {
			case err == nil && tc.errorFunc == nil:
				// correct; carry on
			case err != nil && tc.errorFunc == nil:
				t.Fatalf("error == %#v, want nil", err)
			case err == nil && tc.errorFunc != nil:
				t.Fatalf("error == nil, want non-nil")
			case !tc.errorFunc(err):
				t.Fatalf("error == %#v, want matching", err)
			}

			if tc.errorFunc != nil {
				return
			}

			if config.Address != tc.expectedAddress {
				t.Fatalf("Address = %q, want %q", config.Address, tc.expectedAddress)
			}
			if config.CertFile != filepath.Join(dir, tc.expectedCertFile) {
				t.Fatalf("CertFile = %q, want %q", config.CertFile, filepath.Join(dir, tc.expectedCertFile))
			}
			if config.KeyFile != filepath.Join(dir, "tls.key") {
				t.Fatalf("KeyFile = %q, want %q", config.KeyFile, filepath.Join(dir, "tls.key"))
			}
			if config.Logger == nil {
				t.Fatalf("Logger is nil")
			}
			if !cmp.Equal(config.Policy, tc.expectedPolicy) {
				t.Fatalf("want matching policy \n %s", cmp.Diff(tc.expectedPolicy, config.Policy))
			}
		})
	}
}
