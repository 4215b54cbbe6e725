package otel

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	otellog "go.opentelemetry.io/otel/log"

	"neoito.app/leadgen/core/config"
)

var _ = Describe("Setup", func() {
	It("returns nil telemetry when no endpoint is configured", func() {
		telemetry, err := Setup(context.Background(), config.OTelConfig{ServiceName: "leadgen"})
		Expect(err).NotTo(HaveOccurred())
		Expect(telemetry).To(BeNil())
	})

	It("exports traces and logs to the collector and flushes them on shutdown", func() {
		var (
			mu      sync.Mutex
			paths   []string
			apiKeys []string
		)
		collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			mu.Lock()
			paths = append(paths, r.URL.Path)
			apiKeys = append(apiKeys, r.Header.Get("api-key"))
			mu.Unlock()
			w.Header().Set("Content-Type", "application/x-protobuf")
			w.WriteHeader(http.StatusOK)
		}))
		DeferCleanup(collector.Close)

		ctx := context.Background()
		telemetry, err := Setup(ctx, config.OTelConfig{
			Endpoint:       collector.URL + "/",
			Headers:        "api-key=secret",
			ServiceName:    "leadgen",
			ServiceVersion: "test",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(telemetry).NotTo(BeNil())

		_, span := telemetry.tracerProvider.Tracer("leadgen-test").Start(ctx, "generate")
		span.End()

		var rec otellog.Record
		rec.SetBody(otellog.StringValue("generation finished"))
		telemetry.loggerProvider.Logger("leadgen-test").Emit(ctx, rec)

		Expect(telemetry.Shutdown(ctx)).To(Succeed())

		mu.Lock()
		defer mu.Unlock()
		Expect(paths).To(ContainElements("/v1/traces", "/v1/logs"))
		Expect(apiKeys).To(HaveEach("secret"))
	})
})

var _ = Describe("parseHeaders", func() {
	DescribeTable("parses OTLP header strings",
		func(input string, expected map[string]string) {
			Expect(parseHeaders(input)).To(Equal(expected))
		},
		Entry("empty", "", map[string]string{}),
		Entry("single pair", "api-key=abc", map[string]string{"api-key": "abc"}),
		Entry("trims whitespace", " a = 1 , b=2", map[string]string{"a": "1", "b": "2"}),
		Entry("keeps '=' inside values", "auth=Basic dXNlcjpw=", map[string]string{"auth": "Basic dXNlcjpw="}),
		Entry("skips malformed pairs", "novalue,k=v", map[string]string{"k": "v"}),
	)
})

var _ = Describe("endpointURL", func() {
	It("appends the signal path", func() {
		Expect(endpointURL("http://collector:4318", "traces")).To(Equal("http://collector:4318/v1/traces"))
		Expect(endpointURL("http://collector:4318/", "logs")).To(Equal("http://collector:4318/v1/logs"))
	})
})
