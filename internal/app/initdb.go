package app

import (
	"errors"
	"strings"
	"time"

	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "prodorder"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     common.NA,
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type settingDefault struct {
	Key         string
	Default     string
	Description string
}

// settingDefaults lists every recognized system setting with its default.
var settingDefaults = []settingDefault{
	{"system.overdue_hours", "72", "Hours before an in-progress order counts as overdue"},
	{"notify.webhook_enabled", "false", "Send a webhook on order completion"},
	{"notify.webhook_url", "", "Webhook target URL"},
	{"notify.mail_enabled", "false", "Send mail on order completion"},
	{"notify.smtp_host", "", "SMTP server host"},
	{"notify.smtp_port", "25", "SMTP server port"},
	{"notify.smtp_user", "", "SMTP username and sender address"},
	{"notify.smtp_passwd", "", "SMTP password"},
	{"notify.mail_to", "", "Completion mail recipient"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range settingDefaults {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkCatalog initializes the demo product and resource catalog
func (a *Application) checkCatalog() {
	defaultProducts := []domain.Product{
		{Code: "PROD-001", Description: "SMT circuit board"},
		{Code: "PROD-002", Description: "Injection molded housing"},
		{Code: "PROD-003", Description: "Assembled electronic module"},
		{Code: "PROD-004", Description: "Packaged kit"},
		{Code: "PROD-005", Description: "Power supply unit"},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("code = ?", p.Code).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("code", p.Code), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("code", p.Code))
			}
		}
	}

	defaultResources := []domain.Resource{
		{Code: "RES-001", Description: "SMT line 01", Status: domain.ResourceAvailable},
		{Code: "RES-002", Description: "Injection line 02", Status: domain.ResourceInUse},
		{Code: "RES-003", Description: "Final assembly 01", Status: domain.ResourceAvailable},
		{Code: "RES-004", Description: "Packaging 01", Status: domain.ResourceStopped},
		{Code: "RES-005", Description: "Electrical test 01", Status: domain.ResourceAvailable},
	}

	for _, r := range defaultResources {
		var count int64
		a.gormDB.Model(&domain.Resource{}).Where("code = ?", r.Code).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&r).Error; err != nil {
				zap.L().Error("failed to create default resource", zap.String("code", r.Code), zap.Error(err))
			} else {
				zap.L().Info("initialized default resource", zap.String("code", r.Code))
			}
		}
	}
}

// checkSchedulers initializes default scheduled tasks
func (a *Application) checkSchedulers() {
	defaultSchedulers := []domain.SysScheduler{
		{
			Name:     "Overdue Order Check",
			TaskType: "overdue_check",
			Interval: 3600, // 1 hour
			Status:   common.ENABLED,
			Remark:   "Flags in-progress orders that exceed the overdue window",
		},
		{
			Name:     "Production Metrics Rollup",
			TaskType: "metrics_rollup",
			Interval: 300, // 5 minutes
			Status:   common.ENABLED,
			Remark:   "Records order and production counters into the metrics store",
		},
	}

	for _, sched := range defaultSchedulers {
		var count int64
		a.gormDB.Model(&domain.SysScheduler{}).
			Where("task_type = ?", sched.TaskType).
			Count(&count)

		if count == 0 {
			sched.NextRunAt = time.Now().Add(time.Duration(sched.Interval) * time.Second)
			if err := a.gormDB.Create(&sched).Error; err != nil {
				zap.L().Error("failed to create default scheduler",
					zap.String("name", sched.Name),
					zap.Error(err))
			} else {
				zap.L().Info("initialized default scheduler",
					zap.String("name", sched.Name),
					zap.String("task_type", sched.TaskType))
			}
		}
	}
}
