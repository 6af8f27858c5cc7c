package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/sla"
)

// StatsRepository runs the grouped queries dashboards are built from. Shaping
// into response payloads happens in the controllers.
type StatsRepository struct{ DB *gorm.DB }

func NewStatsRepository(db *gorm.DB) *StatsRepository { return &StatsRepository{DB: db} }

type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type ServiceStats struct {
	ServiceID         uint     `json:"service_id"`
	ServiceName       string   `json:"service_name"`
	Total             int64    `json:"total"`
	Closed            int64    `json:"closed"`
	OnTime            int64    `json:"on_time"`
	AvgProcessingDays *float64 `json:"avg_processing_days"`
}

func (r *StatsRepository) Total() (int64, error) {
	var n int64
	err := r.DB.Model(&entity.Appeal{}).Count(&n).Error
	return n, err
}

func (r *StatsRepository) ByStatus() ([]GroupCount, error) {
	return r.groupCount(`SELECT status AS key, COUNT(*) AS count FROM appeals GROUP BY status`)
}

func (r *StatsRepository) ByPriority() ([]GroupCount, error) {
	return r.groupCount(`SELECT CAST(priority AS TEXT) AS key, COUNT(*) AS count FROM appeals GROUP BY priority ORDER BY priority`)
}

func (r *StatsRepository) ByCategory() ([]GroupCount, error) {
	return r.groupCount(`
		SELECT c.name AS key, COUNT(*) AS count
		  FROM appeals a JOIN categories c ON c.id = a.category_id
		 GROUP BY c.name`)
}

func (r *StatsRepository) ByService() ([]GroupCount, error) {
	return r.groupCount(`
		SELECT s.name AS key, COUNT(*) AS count
		  FROM appeals a JOIN services s ON s.id = a.service_id
		 GROUP BY s.name`)
}

// DailyTrend counts appeals created per day over the trailing window.
func (r *StatsRepository) DailyTrend(days int, now time.Time) ([]GroupCount, error) {
	since := now.AddDate(0, 0, -days)
	return r.groupCount(`
		SELECT date(created_at) AS key, COUNT(*) AS count
		  FROM appeals
		 WHERE created_at >= ?
		 GROUP BY date(created_at)
		 ORDER BY key`, since)
}

func (r *StatsRepository) MonthlyTrend(months int, now time.Time) ([]GroupCount, error) {
	since := now.AddDate(0, -months, 0)
	return r.groupCount(`
		SELECT strftime('%Y-%m', created_at) AS key, COUNT(*) AS count
		  FROM appeals
		 WHERE created_at >= ?
		 GROUP BY strftime('%Y-%m', created_at)
		 ORDER BY key`, since)
}

// ByWeekday keys are 0 (Sunday) through 6.
func (r *StatsRepository) ByWeekday() ([]GroupCount, error) {
	return r.groupCount(`
		SELECT strftime('%w', created_at) AS key, COUNT(*) AS count
		  FROM appeals
		 GROUP BY strftime('%w', created_at)
		 ORDER BY key`)
}

// ClosedOnTime returns how many closed appeals made the window and how many
// closed at all.
func (r *StatsRepository) ClosedOnTime() (onTime, totalClosed int64, err error) {
	err = r.DB.Model(&entity.Appeal{}).
		Where("status = ? AND closed_at IS NOT NULL", entity.StatusClosed).
		Count(&totalClosed).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.DB.Raw(`
		SELECT COUNT(*) FROM appeals
		 WHERE status = ? AND closed_at IS NOT NULL
		   AND julianday(closed_at) - julianday(created_at) <= ?`,
		entity.StatusClosed, sla.WindowDays).Scan(&onTime).Error
	return onTime, totalClosed, err
}

func (r *StatsRepository) AvgProcessingDays() (*float64, error) {
	var avg *float64
	err := r.DB.Raw(`
		SELECT AVG(julianday(closed_at) - julianday(created_at)) FROM appeals
		 WHERE status = ? AND closed_at IS NOT NULL`, entity.StatusClosed).Scan(&avg).Error
	return avg, err
}

func (r *StatsRepository) openScope(q *gorm.DB) *gorm.DB {
	return q.Where("status NOT IN ?", []string{entity.StatusClosed, entity.StatusRejected})
}

func (r *StatsRepository) OverdueCount(now time.Time) (int64, error) {
	var n int64
	err := r.openScope(r.DB.Model(&entity.Appeal{})).
		Where("created_at < ?", now.AddDate(0, 0, -sla.WindowDays)).
		Count(&n).Error
	return n, err
}

// OverdueAppeals lists open appeals past their deadline, oldest first.
func (r *StatsRepository) OverdueAppeals(now time.Time, limit int) ([]entity.Appeal, error) {
	var appeals []entity.Appeal
	err := r.openScope(r.DB.Preload("Service").Preload("Category")).
		Where("created_at < ?", now.AddDate(0, 0, -sla.WindowDays)).
		Order("created_at ASC").
		Limit(limit).
		Find(&appeals).Error
	return appeals, err
}

// StaleAppeals lists open appeals untouched for more than staleDays.
func (r *StatsRepository) StaleAppeals(now time.Time, staleDays, limit int) ([]entity.Appeal, error) {
	var appeals []entity.Appeal
	err := r.openScope(r.DB.Preload("Service").Preload("Category")).
		Where("updated_at < ?", now.AddDate(0, 0, -staleDays)).
		Order("updated_at ASC").
		Limit(limit).
		Find(&appeals).Error
	return appeals, err
}

// ApproachingDeadline lists open appeals inside the final stretch of the
// window, between fromDays and the deadline.
func (r *StatsRepository) ApproachingDeadline(now time.Time, fromDays, limit int) ([]entity.Appeal, error) {
	var appeals []entity.Appeal
	err := r.openScope(r.DB.Preload("Service").Preload("Category")).
		Where("created_at < ? AND created_at >= ?",
			now.AddDate(0, 0, -fromDays), now.AddDate(0, 0, -sla.WindowDays)).
		Order("created_at ASC").
		Limit(limit).
		Find(&appeals).Error
	return appeals, err
}

// ActiveForServices lists open appeals routed to any of the services.
func (r *StatsRepository) ActiveForServices(serviceIDs []uint, limit int) ([]entity.Appeal, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}
	var appeals []entity.Appeal
	err := r.openScope(r.DB.Preload("Category")).
		Where("service_id IN ?", serviceIDs).
		Order("priority ASC, created_at ASC").
		Limit(limit).
		Find(&appeals).Error
	return appeals, err
}

// PerService aggregates per-service totals, on-time counts and processing
// speed in one pass.
func (r *StatsRepository) PerService() ([]ServiceStats, error) {
	var stats []ServiceStats
	err := r.DB.Raw(`
		SELECT s.id AS service_id,
		       s.name AS service_name,
		       COUNT(a.id) AS total,
		       SUM(CASE WHEN a.status = 'closed' THEN 1 ELSE 0 END) AS closed,
		       SUM(CASE WHEN a.status = 'closed' AND a.closed_at IS NOT NULL
		                 AND julianday(a.closed_at) - julianday(a.created_at) <= ?
		            THEN 1 ELSE 0 END) AS on_time,
		       AVG(CASE WHEN a.status = 'closed' AND a.closed_at IS NOT NULL
		            THEN julianday(a.closed_at) - julianday(a.created_at) END) AS avg_processing_days
		  FROM services s
		  LEFT JOIN appeals a ON a.service_id = s.id
		 GROUP BY s.id, s.name
		 ORDER BY s.name`, sla.WindowDays).Scan(&stats).Error
	return stats, err
}

// ForService is the single-service rollup behind the service statistics page.
func (r *StatsRepository) ForService(serviceID uint) (*ServiceStats, error) {
	var stats ServiceStats
	err := r.DB.Raw(`
		SELECT s.id AS service_id,
		       s.name AS service_name,
		       COUNT(a.id) AS total,
		       SUM(CASE WHEN a.status = 'closed' THEN 1 ELSE 0 END) AS closed,
		       SUM(CASE WHEN a.status = 'closed' AND a.closed_at IS NOT NULL
		                 AND julianday(a.closed_at) - julianday(a.created_at) <= ?
		            THEN 1 ELSE 0 END) AS on_time,
		       AVG(CASE WHEN a.status = 'closed' AND a.closed_at IS NOT NULL
		            THEN julianday(a.closed_at) - julianday(a.created_at) END) AS avg_processing_days
		  FROM services s
		  LEFT JOIN appeals a ON a.service_id = s.id
		 WHERE s.id = ?
		 GROUP BY s.id, s.name`, sla.WindowDays, serviceID).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	if stats.ServiceID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &stats, nil
}

func (r *StatsRepository) StatusBreakdownForService(serviceID uint) ([]GroupCount, error) {
	return r.groupCount(`
		SELECT status AS key, COUNT(*) AS count
		  FROM appeals WHERE service_id = ?
		 GROUP BY status`, serviceID)
}

func (r *StatsRepository) RecentForService(serviceID uint, limit int) ([]entity.Appeal, error) {
	var appeals []entity.Appeal
	err := r.DB.Preload("Category").
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&appeals).Error
	return appeals, err
}

// AvgProcessingDaysForUser averages over appeals the user moved to closed.
func (r *StatsRepository) AvgProcessingDaysForUser(userID uint) (*float64, error) {
	var avg *float64
	err := r.DB.Raw(`
		SELECT AVG(julianday(a.closed_at) - julianday(a.created_at))
		  FROM appeals a
		 WHERE a.status = 'closed' AND a.closed_at IS NOT NULL
		   AND a.id IN (SELECT appeal_id FROM appeal_histories
		                 WHERE user_id = ? AND new_status = 'closed')`, userID).Scan(&avg).Error
	return avg, err
}

func (r *StatsRepository) groupCount(query string, args ...any) ([]GroupCount, error) {
	var out []GroupCount
	err := r.DB.Raw(query, args...).Scan(&out).Error
	return out, err
}
