// Package metrics holds the Prometheus registry and the application counters.
package metrics

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "profiledesk"

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	signups = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Signup attempts that reached the identity backend, by result and error code",
		},
		[]string{"result", "code"},
	)

	logins = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Verified login attempts, by result and error code",
		},
		[]string{"result", "code"},
	)

	welcomeEmails = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "welcome_emails_total",
			Help:      "Welcome emails handed to the email sender, by result",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// labels returns the result and code labels for err.
func labels(err error) (string, string) {
	if err == nil {
		return "success", "none"
	}
	return "failure", domain.CodeFor(err)
}

// RecordSignup counts a signup attempt.
func RecordSignup(err error) {
	result, code := labels(err)
	signups.WithLabelValues(result, code).Inc()
}

// RecordLogin counts a verified login attempt.
func RecordLogin(err error) {
	result, code := labels(err)
	logins.WithLabelValues(result, code).Inc()
}

// RecordWelcomeEmail counts a welcome email delivery.
func RecordWelcomeEmail(err error) {
	result, _ := labels(err)
	welcomeEmails.WithLabelValues(result).Inc()
}

var (
	httpOnce       sync.Once
	httpMiddleware echo.MiddlewareFunc
)

// HTTPMiddleware returns the request metrics middleware. The collectors are
// registered once, so every server built in the process shares them.
func HTTPMiddleware() echo.MiddlewareFunc {
	httpOnce.Do(func() {
		httpMiddleware = echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  namespace,
			Registerer: Registry,
			Skipper: func(c echo.Context) bool {
				switch c.Path() {
				case "/health", "/metrics":
					return true
				}
				return false
			},
		})
	})
	return httpMiddleware
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: Registry})
}
