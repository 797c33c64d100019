// Package metrics holds the Prometheus collectors for forum activity.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess      = "success"
	OutcomeError        = "error"
	OutcomeDuplicate    = "duplicate"
	OutcomeStale        = "stale"
	OutcomeKeptPrevious = "kept_previous"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	CommentsCreated  prometheus.Counter
	ThreadsCreated   prometheus.Counter
	Likes            *prometheus.CounterVec // outcome: success, duplicate, error
	FavoriteToggles  *prometheus.CounterVec // state: on, off
	Reports          prometheus.Counter
	DeletionRequests prometheus.Counter
	ReportMails      *prometheus.CounterVec // outcome: success, error
	Refreshes        *prometheus.CounterVec // outcome: success, error, stale, kept_previous
	ThreadCache      *prometheus.CounterVec // result: hit, miss
}

func NewMetrics(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		CommentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studychannel_comments_created_total",
			Help: "Total number of comments created",
		}),
		ThreadsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studychannel_threads_created_total",
			Help: "Total number of threads created",
		}),
		Likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studychannel_likes_total",
			Help: "Like attempts by outcome",
		}, []string{"outcome"}),
		FavoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studychannel_favorite_toggles_total",
			Help: "Favorite toggles by resulting state",
		}, []string{"state"}),
		Reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studychannel_reports_total",
			Help: "Total number of reports filed",
		}),
		DeletionRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studychannel_deletion_requests_total",
			Help: "Total number of self-service deletion requests",
		}),
		ReportMails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studychannel_report_mails_total",
			Help: "Moderator notification mails by outcome",
		}, []string{"outcome"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studychannel_thread_view_refreshes_total",
			Help: "Thread view refreshes by outcome",
		}, []string{"outcome"}),
		ThreadCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studychannel_thread_cache_lookups_total",
			Help: "Thread list cache lookups by result",
		}, []string{"result"}),
	}

	collectors := []prometheus.Collector{
		m.CommentsCreated, m.ThreadsCreated, m.Likes, m.FavoriteToggles,
		m.Reports, m.DeletionRequests, m.ReportMails, m.Refreshes, m.ThreadCache,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) CommentCreated() {
	if m == nil {
		return
	}
	m.CommentsCreated.Inc()
}

func (m *Metrics) ThreadCreated() {
	if m == nil {
		return
	}
	m.ThreadsCreated.Inc()
}

func (m *Metrics) Like(outcome string) {
	if m == nil {
		return
	}
	m.Likes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FavoriteToggled(favorited bool) {
	if m == nil {
		return
	}
	state := "off"
	if favorited {
		state = "on"
	}
	m.FavoriteToggles.WithLabelValues(state).Inc()
}

func (m *Metrics) Report() {
	if m == nil {
		return
	}
	m.Reports.Inc()
}

func (m *Metrics) DeletionRequest() {
	if m == nil {
		return
	}
	m.DeletionRequests.Inc()
}

func (m *Metrics) ReportMail(outcome string) {
	if m == nil {
		return
	}
	m.ReportMails.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ThreadCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ThreadCache.WithLabelValues(result).Inc()
}
