package jobs

import (
	"context"
	"time"

	"frontoffice/services/logger"

	"github.com/robfig/cron/v3"
)

const DefaultRevenueSnapshotSpec = "0 1 * * *"

// RevenueSnapshotter định nghĩa interface cho việc chốt doanh thu theo ngày
type RevenueSnapshotter interface {
	SnapshotAll(ctx context.Context, day time.Time) (int, error)
}

// RunRevenueSnapshot chốt doanh thu của ngày hôm trước (UTC)
func RunRevenueSnapshot(ctx context.Context, snapshotter RevenueSnapshotter, now time.Time, log logger.Logger) error {
	day := now.UTC().AddDate(0, 0, -1)
	log.Info("Đang chạy chốt doanh thu ngày %s", day.Format("2006-01-02"))
	done, err := snapshotter.SnapshotAll(ctx, day)
	if err != nil {
		log.Error("Lỗi khi chốt doanh thu: %v", err)
		return err
	}
	log.Info("Đã chốt doanh thu cho %d business", done)
	return nil
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, spec string, snapshotter RevenueSnapshotter, log logger.Logger) (cron.EntryID, error) {
	if spec == "" {
		spec = DefaultRevenueSnapshotSpec
	}
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_ = RunRevenueSnapshot(ctx, snapshotter, time.Now(), log)
	})
	if err != nil {
		return 0, err
	}

	c.Start()
	log.Info("Cron jobs initialized successfully")
	return id, nil
}
