package main

import (
	"bytes"
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyson/certman"
	"github.com/giantswarm/microerror"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giantswarm/runtimeclass-admission-controller/config"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/metrics"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/mutator"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/project"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/runtimeclass"
)

func main() {
	config, err := config.Parse(os.Args[1:])
	if err != nil {
		panic(microerror.JSON(err))
	}

	var runtimeClassMutator *runtimeclass.Mutator
	{
		c := runtimeclass.MutatorConfig{
			Logger: config.Logger,
			Policy: config.Policy,
		}

		runtimeClassMutator, err = runtimeclass.NewMutator(c)
		if err != nil {
			panic(microerror.JSON(err))
		}
	}

	cm, err := certman.New(config.CertFile, config.KeyFile)
	if err != nil {
		panic(microerror.JSON(err))
	}
	if err := cm.Watch(); err != nil {
		panic(microerror.JSON(err))
	}
	defer cm.Stop()

	metrics.BuildInfo.WithLabelValues(project.Version(), project.GitSHA()).Set(1)

	handler := routes(runtimeClassMutator, cm, config.CertFile, config.KeyFile)

	metricsHandler := http.NewServeMux()
	metricsHandler.Handle("/metrics", promhttp.Handler())

	config.Logger.LogCtx(context.Background(), "level", "info", "message", "serving webhook", "address", config.Address, "runtimeClass", config.Policy.RuntimeClass)

	go serveMetrics(config, metricsHandler)
	serveTLS(config, cm, handler)
}

// routes registers our endpoints.
func routes(m mutator.Mutator, cm *certman.CertMan, certFile, keyFile string) http.Handler {
	handler := http.NewServeMux()
	handler.Handle("/mutate", mutator.Handler(m))

	handler.HandleFunc("/healthz", func(writer http.ResponseWriter, request *http.Request) {
		healthCheck(writer, request, cm, certFile, keyFile)
	})
	handler.HandleFunc("/livez", liveCheck)

	return handler
}

// healthCheck reports unhealthy once the certificate served differs from
// the one on disk, which means certman missed a rotation.
func healthCheck(writer http.ResponseWriter, request *http.Request, cm *certman.CertMan, certFile, keyFile string) {
	served, err := cm.GetCertificate(nil)
	if err != nil || served == nil || len(served.Certificate) == 0 {
		writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	onDisk, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil || len(onDisk.Certificate) == 0 {
		writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	if !bytes.Equal(served.Certificate[0], onDisk.Certificate[0]) {
		writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func liveCheck(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
}

func serveTLS(config config.Config, cm *certman.CertMan, handler http.Handler) {
	server := &http.Server{
		Addr:    config.Address,
		Handler: handler,
		TLSConfig: &tls.Config{
			GetCertificate: cm.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		},
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM)
	go func() {
		<-sig
		err := server.Shutdown(context.Background())
		if err != nil {
			panic(microerror.JSON(err))
		}
	}()

	err := server.ListenAndServeTLS("", "")
	if err != nil {
		if err != http.ErrServerClosed {
			panic(microerror.JSON(err))
		}
	}
}

func serveMetrics(config config.Config, handler http.Handler) {
	server := &http.Server{
		Addr:    config.MetricsAddress,
		Handler: handler,
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM)
	go func() {
		<-sig
		err := server.Shutdown(context.Background())
		if err != nil {
			panic(microerror.JSON(err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil {
		if err != http.ErrServerClosed {
			panic(microerror.JSON(err))
		}
	}
}
