package app

import (
	"sync"
	"time"

	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/pkg/common"
	"github.com/mesworks/prodorder/pkg/metrics"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// initScheduler starts the cron loop that polls enabled schedulers.
func (a *Application) initScheduler() {
	_, err := a.sched.AddFunc("@every 10s", a.runSchedulers)
	if err != nil {
		zap.L().Error("failed to register scheduler loop", zap.Error(err))
		return
	}
	a.sched.Start()
}

// runSchedulers executes every enabled scheduler whose next run is due.
func (a *Application) runSchedulers() {
	var schedulers []domain.SysScheduler
	a.gormDB.Where("status = ?", common.ENABLED).Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		if sched.NextRunAt.IsZero() || !now.Before(sched.NextRunAt) {
			a.dispatchScheduler(&sched)
			a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
				"last_run_at": now,
				"next_run_at": now.Add(time.Duration(sched.Interval) * time.Second),
			})
		}
	}
}

func (a *Application) dispatchScheduler(sched *domain.SysScheduler) {
	metrics.CounterInc(metrics.MetricSchedulerTicked)
	switch sched.TaskType {
	case "overdue_check":
		a.runOverdueCheck(sched)
	case "metrics_rollup":
		a.runMetricsRollup(sched)
	default:
		// unsupported task type
	}
}

// RunSchedulerNow triggers a scheduler execution immediately by ID
func (a *Application) RunSchedulerNow(id int64) error {
	var sched domain.SysScheduler
	if err := a.gormDB.First(&sched, id).Error; err != nil {
		return err
	}

	a.dispatchScheduler(&sched)

	now := time.Now()
	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at": now,
		"next_run_at": now.Add(time.Duration(sched.Interval) * time.Second),
	})
	return nil
}

// runOverdueCheck flags in-progress orders whose start date exceeds the
// overdue window. Orders are inspected concurrently on a bounded pool.
func (a *Application) runOverdueCheck(sched *domain.SysScheduler) {
	overdueHours := a.GetSettingsInt64Value("system", "overdue_hours")
	if overdueHours <= 0 {
		overdueHours = 72
	}
	cutoff := time.Now().Add(-time.Duration(overdueHours) * time.Hour)

	var rows []domain.ProductionOrder
	if err := a.gormDB.
		Where("status = ?", domain.OrderInProgress.StoredName()).
		Where("start_date < ?", cutoff).
		Find(&rows).Error; err != nil {
		zap.L().Error("overdue check query failed", zap.Error(err))
		return
	}
	if len(rows) == 0 {
		return
	}

	pool, err := ants.NewPool(10)
	if err != nil {
		zap.L().Error("failed to create overdue check pool", zap.Error(err))
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range rows {
		order := rows[i]
		wg.Add(1)
		_ = pool.Submit(func() {
			defer wg.Done()
			zap.L().Warn("production order overdue",
				zap.Int64("order_id", order.ID),
				zap.String("order_number", order.OrderNumber),
				zap.Time("start_date", order.StartDate),
				zap.Int("remaining", order.Remaining()),
			)
			metrics.CounterInc("order_overdue_total")
		})
	}
	wg.Wait()
}

// runMetricsRollup records order counts per status into the metrics store.
func (a *Application) runMetricsRollup(sched *domain.SysScheduler) {
	for _, status := range domain.OrderStatuses() {
		var count int64
		if err := a.gormDB.Model(&domain.ProductionOrder{}).
			Where("status = ?", status.StoredName()).
			Count(&count).Error; err != nil {
			zap.L().Error("metrics rollup query failed", zap.Error(err))
			return
		}
		metrics.Gauge("orders_"+string(status), float64(count))
	}
}
