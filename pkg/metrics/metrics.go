// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application-level counters for Prometheus.
type Collector struct {
	usersRegistered prometheus.Counter
	logins          *prometheus.CounterVec
	booksCreated    prometheus.Counter
	booksCompleted  prometheus.Counter
	sessionsLogged  prometheus.Counter
	pagesRead       prometheus.Counter
	goalsCreated    prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_users_registered_total",
			Help: "Total number of user registrations",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelfmark_logins_total",
			Help: "Total number of login attempts by result",
		}, []string{"result"}),
		booksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_books_created_total",
			Help: "Total number of books added to shelves",
		}),
		booksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_books_completed_total",
			Help: "Total number of books marked completed",
		}),
		sessionsLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_sessions_logged_total",
			Help: "Total number of reading sessions logged",
		}),
		pagesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_pages_read_total",
			Help: "Total number of pages recorded across all sessions",
		}),
		goalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_goals_created_total",
			Help: "Total number of reading goals created",
		}),
	}

	reg.MustRegister(
		c.usersRegistered,
		c.logins,
		c.booksCreated,
		c.booksCompleted,
		c.sessionsLogged,
		c.pagesRead,
		c.goalsCreated,
	)

	return c
}

// RecordUserRegistered records a successful registration.
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordLogin records a login attempt. result is "success" or "failure".
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordBookCreated records a book being added.
func (c *Collector) RecordBookCreated() {
	c.booksCreated.Inc()
}

// RecordBookCompleted records a book reaching completed status.
func (c *Collector) RecordBookCompleted() {
	c.booksCompleted.Inc()
}

// RecordSessionLogged records a reading session and its page count.
func (c *Collector) RecordSessionLogged(pages int) {
	c.sessionsLogged.Inc()
	c.pagesRead.Add(float64(pages))
}

// RecordGoalCreated records a reading goal being created.
func (c *Collector) RecordGoalCreated() {
	c.goalsCreated.Inc()
}

// Handler returns the HTTP handler that serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
