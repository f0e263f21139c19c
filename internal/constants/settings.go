package constants

const (
	// Settings keys
	SettingDayStart       = "day_start"
	SettingDayEnd         = "day_end"
	SettingTimezone       = "timezone"
	SettingSleepCheckHour = "sleep_check_hour"

	// Default Settings Values
	DefaultDayStart       = "08:00"
	DefaultDayEnd         = "23:59"
	DefaultTimezone       = "Local" // Use system local timezone by default
	DefaultSleepCheckHour = 5
)
