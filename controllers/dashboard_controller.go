package controllers

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/analytics"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/pkg/sla"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/utils"
)

const (
	staleDays        = 7
	approachingDays  = 25
	dashboardListCap = 50
)

type DashboardController struct {
	Stats        *repository.StatsRepository
	UserServices *repository.UserServiceRepository
	Cache        *querycache.Cache[any]
}

func NewDashboardController(
	stats *repository.StatsRepository,
	userServices *repository.UserServiceRepository,
	cache *querycache.Cache[any],
) *DashboardController {
	return &DashboardController{
		Stats:        stats,
		UserServices: userServices,
		Cache:        cache,
	}
}

// GET /appeals/statistics
func (ctl *DashboardController) Statistics(c *gin.Context) {
	data, err := ctl.Cache.Get(c.Request.Context(), querycache.KeyStatistics, func(ctx context.Context) (any, error) {
		return ctl.buildStatistics(time.Now())
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, data)
}

func (ctl *DashboardController) buildStatistics(now time.Time) (gin.H, error) {
	total, err := ctl.Stats.Total()
	if err != nil {
		return nil, err
	}
	byStatus, err := ctl.Stats.ByStatus()
	if err != nil {
		return nil, err
	}
	byCategory, err := ctl.Stats.ByCategory()
	if err != nil {
		return nil, err
	}
	byService, err := ctl.Stats.ByService()
	if err != nil {
		return nil, err
	}
	byPriority, err := ctl.Stats.ByPriority()
	if err != nil {
		return nil, err
	}
	trend, err := ctl.Stats.DailyTrend(sla.WindowDays, now)
	if err != nil {
		return nil, err
	}
	avgDays, err := ctl.Stats.AvgProcessingDays()
	if err != nil {
		return nil, err
	}
	overdue, err := ctl.Stats.OverdueCount(now)
	if err != nil {
		return nil, err
	}
	onTime, totalClosed, err := ctl.Stats.ClosedOnTime()
	if err != nil {
		return nil, err
	}

	return gin.H{
		"total":               total,
		"by_status":           byStatus,
		"by_category":         byCategory,
		"by_service":          byService,
		"by_priority":         byPriority,
		"daily_trend":         trend,
		"avg_processing_days": avgDays,
		"overdue_count":       overdue,
		"on_time_count":       onTime,
		"closed_count":        totalClosed,
		"on_time_percentage":  analytics.FormatOnTime(onTime, totalClosed),
		"on_time_band":        onTimeBand(onTime, totalClosed),
	}, nil
}

// deadlineView pairs an appeal with its day counts for the dispatcher lists.
type deadlineView struct {
	entity.Appeal
	DaysPassed    int `json:"days_passed"`
	DaysRemaining int `json:"days_remaining"`
}

func deadlineViews(appeals []entity.Appeal, now time.Time) []deadlineView {
	out := make([]deadlineView, 0, len(appeals))
	for _, a := range appeals {
		info := sla.Compute(a.CreatedAt, now)
		out = append(out, deadlineView{
			Appeal:        a,
			DaysPassed:    info.DaysPassed,
			DaysRemaining: info.DaysRemaining,
		})
	}
	return out
}

// GET /appeals/dashboard/dispatcher
func (ctl *DashboardController) Dispatcher(c *gin.Context) {
	data, err := ctl.Cache.Get(c.Request.Context(), querycache.KeyDashboard+"dispatcher", func(ctx context.Context) (any, error) {
		now := time.Now()
		overdue, err := ctl.Stats.OverdueAppeals(now, dashboardListCap)
		if err != nil {
			return nil, err
		}
		stale, err := ctl.Stats.StaleAppeals(now, staleDays, dashboardListCap)
		if err != nil {
			return nil, err
		}
		approaching, err := ctl.Stats.ApproachingDeadline(now, approachingDays, dashboardListCap)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"overdue":              deadlineViews(overdue, now),
			"stale":                deadlineViews(stale, now),
			"approaching_deadline": deadlineViews(approaching, now),
		}, nil
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, data)
}

type serviceStatsView struct {
	repository.ServiceStats
	OnTimePercentage string `json:"on_time_percentage"`
	OnTimeBand       string `json:"on_time_band"`
}

// GET /appeals/dashboard/admin
func (ctl *DashboardController) Admin(c *gin.Context) {
	data, err := ctl.Cache.Get(c.Request.Context(), querycache.KeyDashboard+"admin", func(ctx context.Context) (any, error) {
		now := time.Now()
		perService, err := ctl.Stats.PerService()
		if err != nil {
			return nil, err
		}
		monthly, err := ctl.Stats.MonthlyTrend(6, now)
		if err != nil {
			return nil, err
		}
		weekday, err := ctl.Stats.ByWeekday()
		if err != nil {
			return nil, err
		}

		views := make([]serviceStatsView, 0, len(perService))
		for _, s := range perService {
			views = append(views, serviceStatsView{
				ServiceStats:     s,
				OnTimePercentage: analytics.FormatOnTime(s.OnTime, s.Closed),
				OnTimeBand:       onTimeBand(s.OnTime, s.Closed),
			})
		}

		// fastest services first; services with no closed appeals sink
		fastest := make([]serviceStatsView, len(views))
		copy(fastest, views)
		sort.SliceStable(fastest, func(i, j int) bool {
			a, b := fastest[i].AvgProcessingDays, fastest[j].AvgProcessingDays
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})
		if len(fastest) > 5 {
			fastest = fastest[:5]
		}

		return gin.H{
			"services":      views,
			"monthly_trend": monthly,
			"by_weekday":    weekday,
			"top_services":  fastest,
		}, nil
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, data)
}

// GET /appeals/dashboard/executor
func (ctl *DashboardController) Executor(c *gin.Context) {
	userID := utils.CurrentUserID(c)

	key := querycache.KeyDashboard + "executor:" + strconv.Itoa(int(userID))
	data, err := ctl.Cache.Get(c.Request.Context(), key, func(ctx context.Context) (any, error) {
		svcs, err := ctl.UserServices.ServicesForUser(userID)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(svcs))
		for _, s := range svcs {
			ids = append(ids, s.ID)
		}

		now := time.Now()
		active, err := ctl.Stats.ActiveForServices(ids, dashboardListCap)
		if err != nil {
			return nil, err
		}
		personalAvg, err := ctl.Stats.AvgProcessingDaysForUser(userID)
		if err != nil {
			return nil, err
		}

		serviceAvgs := make([]gin.H, 0, len(svcs))
		for _, s := range svcs {
			stats, err := ctl.Stats.ForService(s.ID)
			if err != nil {
				continue
			}
			serviceAvgs = append(serviceAvgs, gin.H{
				"service_id":          s.ID,
				"service_name":        s.Name,
				"avg_processing_days": stats.AvgProcessingDays,
			})
		}

		return gin.H{
			"services":          svcs,
			"active":            deadlineViews(active, now),
			"personal_avg_days": personalAvg,
			"service_avg_days":  serviceAvgs,
		}, nil
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, data)
}

// onTimeBand maps counts to the display band, empty when nothing closed yet.
func onTimeBand(onTime, closed int64) string {
	pct, ok := analytics.OnTimePercentage(onTime, closed)
	if !ok {
		return ""
	}
	return analytics.OnTimeBand(pct)
}

// GET /appeals/services/:id/statistics
func (ctl *DashboardController) ServiceStatistics(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	key := querycache.KeyDashboard + "service:" + strconv.Itoa(int(id))
	data, err := ctl.Cache.Get(c.Request.Context(), key, func(ctx context.Context) (any, error) {
		stats, err := ctl.Stats.ForService(id)
		if err != nil {
			return nil, err
		}
		breakdown, err := ctl.Stats.StatusBreakdownForService(id)
		if err != nil {
			return nil, err
		}
		recent, err := ctl.Stats.RecentForService(id, 10)
		if err != nil {
			return nil, err
		}

		return gin.H{
			"stats":              stats,
			"by_status":          breakdown,
			"recent":             recent,
			"on_time_percentage": analytics.FormatOnTime(stats.OnTime, stats.Closed),
			"on_time_band":       onTimeBand(stats.OnTime, stats.Closed),
		}, nil
	})
	if err != nil {
		resp.NotFound(c, "service not found")
		return
	}
	resp.OK(c, data)
}
