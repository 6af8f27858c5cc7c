package querycache

// Cache key prefixes. List keys append their filter parameters, so
// invalidation matches by prefix.
const (
	KeyAppeals       = "appeals"
	KeyAppeal        = "appeal:"
	KeyStatistics    = "statistics"
	KeyDashboard     = "dashboard:"
	KeyNotifications = "notifications:"
	KeyCategories    = "categories"
	KeyServices      = "services"
	KeyUsers         = "users"
	KeySettings      = "settings"
)

// Mutations maps every write operation to the key prefixes it stales. Each
// mutation must name at least one prefix; a write that invalidates nothing
// is a bug, not a fast path.
var Mutations = map[string][]string{
	"appeal.create":     {KeyAppeals, KeyStatistics, KeyDashboard, KeyNotifications},
	"appeal.update":     {KeyAppeals, KeyAppeal, KeyStatistics, KeyDashboard},
	"appeal.status":     {KeyAppeals, KeyAppeal, KeyStatistics, KeyDashboard, KeyNotifications},
	"appeal.assign":     {KeyAppeals, KeyAppeal, KeyStatistics, KeyDashboard, KeyNotifications},
	"appeal.priority":   {KeyAppeals, KeyAppeal, KeyDashboard},
	"comment.create":    {KeyAppeal, KeyNotifications},
	"photo.upload":      {KeyAppeal},
	"photo.delete":      {KeyAppeal},
	"notification.read": {KeyNotifications},
	"category.write":    {KeyCategories, KeyAppeals},
	"service.write":     {KeyServices, KeyAppeals, KeyDashboard},
	"join.write":        {KeyCategories, KeyServices, KeyUsers},
	"user.write":        {KeyUsers},
	"settings.write":    {KeySettings},
}
