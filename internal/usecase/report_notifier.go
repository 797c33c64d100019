package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/util"
)

const (
	maxPendingReportMails = 8
	defaultMailTimeout    = 30 * time.Second
)

type SendMailFunc func(ctx context.Context, cfg util.MailConfig, receiverEmail string, subject string, body string) error

// ReportNotifier emails moderators about new reports in the background. At
// most maxPendingReportMails sends are in flight; extra reports are logged
// and skipped.
type ReportNotifier struct {
	Mail      util.MailConfig
	Moderator string
	Send      SendMailFunc
	Timeout   time.Duration
	Log       *zap.Logger
	Metrics   *metrics.Metrics

	slots chan struct{}
	wg    sync.WaitGroup
}

func NewReportNotifier(mail util.MailConfig, moderator string, zap *zap.Logger, metrics *metrics.Metrics) *ReportNotifier {
	return &ReportNotifier{
		Mail:      mail,
		Moderator: moderator,
		Send:      util.SendEmail,
		Timeout:   defaultMailTimeout,
		Log:       zap,
		Metrics:   metrics,
		slots:     make(chan struct{}, maxPendingReportMails),
	}
}

func (notifier *ReportNotifier) Enabled() bool {
	return notifier != nil && notifier.Mail.Enabled() && notifier.Moderator != ""
}

func (notifier *ReportNotifier) Notify(report model.Report) {
	if !notifier.Enabled() {
		return
	}

	select {
	case notifier.slots <- struct{}{}:
	default:
		notifier.Log.Warn("report mail queue full, skipping notification", zap.String("reportId", report.Id))
		notifier.Metrics.ReportMail(metrics.OutcomeError)
		return
	}

	notifier.wg.Add(1)
	go func() {
		defer notifier.wg.Done()
		defer func() { <-notifier.slots }()

		subject := fmt.Sprintf("[Study Channel] New %s report", report.TargetType)
		body := fmt.Sprintf("Report %s\nTarget: %s %s\nReason:\n%s\n", report.Id, report.TargetType, report.TargetId, report.Reason)

		timeout := notifier.Timeout
		if timeout <= 0 {
			timeout = defaultMailTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := notifier.Send(ctx, notifier.Mail, notifier.Moderator, subject, body)
		if err != nil {
			notifier.Log.Error("failed to send report mail", zap.String("reportId", report.Id), zap.Error(err))
			notifier.Metrics.ReportMail(metrics.OutcomeError)
			return
		}

		notifier.Metrics.ReportMail(metrics.OutcomeSuccess)
	}()
}

// Wait blocks until every in-flight notification has finished or ctx is
// done, whichever comes first.
func (notifier *ReportNotifier) Wait(ctx context.Context) error {
	if notifier == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		notifier.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
