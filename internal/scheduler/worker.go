package scheduler

import (
	"context"
	"fmt"

	analyticsservice "crm_backend/internal/analytics/service"
	"crm_backend/internal/notification"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// WorkerConfig combines the config slices the digest worker needs.
type WorkerConfig interface {
	config.SchedulerConfig
	config.DigestConfig
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	analytics *analyticsservice.Service
	sender    notification.Sender
	cfg       WorkerConfig
	log       *logger.Logger
}

func NewWorker(cfg WorkerConfig, analytics *analyticsservice.Service, sender notification.Sender, log *logger.Logger) (*Worker, error) {
	opt, queue, err := connectionSettings(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		analytics: analytics,
		sender:    sender,
		cfg:       cfg,
		log:       log,
	}

	mux.HandleFunc(TaskWeeklyDigest, w.handleWeeklyDigest)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleWeeklyDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWeeklyDigestPayload(task)
	if err != nil {
		return err
	}

	data, err := w.renderDigest(ctx, payload.Period)
	if err != nil {
		return err
	}

	recipients := w.cfg.GetDigestRecipients()
	if len(recipients) == 0 {
		w.log.Info("weekly digest: no recipients configured, skipping")
		return nil
	}

	for _, recipient := range recipients {
		if err := w.sender.SendWeeklyDigestEmail(ctx, recipient, data); err != nil {
			w.log.Error("weekly digest: send failed", "error", err, "to", recipient)
			return err
		}
	}

	w.log.Info("weekly digest sent", "recipients", len(recipients))
	return nil
}

// renderDigest assembles the digest from the analytics aggregates.
func (w *Worker) renderDigest(ctx context.Context, period string) (notification.WeeklyDigestData, error) {
	performance, err := w.analytics.Performance(ctx, period)
	if err != nil {
		return notification.WeeklyDigestData{}, err
	}
	pipeline, err := w.analytics.Pipeline(ctx)
	if err != nil {
		return notification.WeeklyDigestData{}, err
	}

	data := notification.WeeklyDigestData{
		PeriodLabel: fmt.Sprintf("%s to %s",
			performance.StartDate.Format("Jan 2, 2006"),
			performance.EndDate.Format("Jan 2, 2006")),
		TotalSalesFormatted: notification.FormatCurrencyUSD(performance.TotalSales.CurrentCents),
		SalesChange:         fmt.Sprintf("%+.1f%%", performance.TotalSales.ChangePercent),
		ActiveLeads:         performance.ActiveLeads.Current,
		ConversionRate:      fmt.Sprintf("%.1f%%", performance.Conversion.Current),
		AvgDealFormatted:    notification.FormatCurrencyUSD(performance.AvgDealSize.CurrentCents),
	}

	for _, stage := range pipeline.Stages {
		data.Stages = append(data.Stages, notification.DigestStage{
			Stage:          string(stage.Status),
			Count:          stage.Count,
			ValueFormatted: notification.FormatCurrencyUSD(stage.ValueCents),
			ConversionRate: fmt.Sprintf("%.1f%%", stage.ConversionRate),
		})
	}

	for _, lead := range performance.TopLeads {
		top := notification.DigestTopLead{
			Name:           lead.FirstName + " " + lead.LastName,
			ValueFormatted: notification.FormatCurrencyUSD(lead.ValueCents),
			Temperature:    string(lead.Temperature),
		}
		if lead.Company != nil {
			top.Company = *lead.Company
		}
		data.TopLeads = append(data.TopLeads, top)
	}

	return data, nil
}
