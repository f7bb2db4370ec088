package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 1h", func() {
		a.RunCartSweepNow()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		if _, err := a.RunBackupNow(); err != nil {
			zap.S().Errorf("storage backup failed: %v", err)
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// RunCartSweepNow prunes cart lines whose product no longer exists in the
// catalog. Deleting a product through the admin panel leaves cart lines
// untouched; this sweep is the only reconciliation.
func (a *Application) RunCartSweepNow() int {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	dropped := a.carts.Sweep(a.catalog.ProductIDSet())
	if dropped > 0 {
		zap.L().Info("cart sweep pruned stale lines", zap.Int("lines", dropped))
	}
	return dropped
}

// RunBackupNow writes a consistent snapshot of the datafile next to it.
func (a *Application) RunBackupNow() (string, error) {
	path := filepath.Join(a.appConfig.System.Workdir,
		fmt.Sprintf("casadobolo-%s.db.bak", time.Now().Format("20060102")))
	if err := a.storage.Backup(path); err != nil {
		return "", err
	}
	zap.L().Info("storage backup written", zap.String("path", path))
	return path, nil
}
