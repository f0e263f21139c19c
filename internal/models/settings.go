package models

// Settings represents application-wide settings
type Settings struct {
	DayStart       string `json:"day_start"`        // start of the day-progress window, e.g. "08:00"
	DayEnd         string `json:"day_end"`          // end of the day-progress window, e.g. "23:59"
	Timezone       string `json:"timezone"`         // IANA timezone name (e.g. "America/Chicago", or "Local" for system timezone)
	SleepCheckHour int    `json:"sleep_check_hour"` // local hour after which a missing sleep log counts as pending
}
